// Package queue_publisher also hosts the departure notifier, the
// background job that announces upcoming departures over the broker.
package queue_publisher

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/railway-reservation/internal/queue"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

// reminderLead is how far before departure a reminder goes out.
const reminderLead = 30 * time.Minute

// StartDepartureNotifier wakes up once a minute and publishes a
// DepartureReminderEvent for every confirmed booking whose train departs
// in thirty minutes. Each booking is reminded at most once; the
// notification flag is only flipped after a successful publish, so a
// broker outage retries on the next tick. The loop exits when ctx is
// cancelled.
func StartDepartureNotifier(ctx context.Context, bookings *repository.BookingRepo) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			notifyDue(ctx, bookings, now.UTC())
		}
	}
}

func notifyDue(ctx context.Context, bookings *repository.BookingRepo, now time.Time) {
	target := now.Add(reminderLead).Truncate(time.Minute)
	due, err := bookings.DueForNotification(ctx, target)
	if err != nil {
		log.Printf("notifier: load due bookings failed: %v", err)
		return
	}
	for _, n := range due {
		ev := queue.DepartureReminderEvent{
			BookingID:   n.BookingID,
			UserID:      n.UserID,
			ScheduleID:  n.ScheduleID,
			TrainNumber: n.TrainNumber,
			JourneyDate: n.JourneyDate.Format("2006-01-02"),
			DepartureAt: target.Format(time.RFC3339),
		}
		if err := PublishDepartureReminder(ctx, ev); err != nil {
			log.Printf("notifier: publish reminder for booking %d failed: %v", n.BookingID, err)
			continue
		}
		if err := bookings.MarkNotified(ctx, n.BookingID); err != nil {
			log.Printf("notifier: mark booking %d notified failed: %v", n.BookingID, err)
		}
	}
}
