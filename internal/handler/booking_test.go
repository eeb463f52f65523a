package handler

import (
	"testing"

	"github.com/iliyamo/railway-reservation/internal/model"
)

func TestFindSegmentStops(t *testing.T) {
	stops := []model.RouteStop{
		{ID: 1, Order: 1, StationCode: "NDLS"},
		{ID: 2, Order: 2, StationCode: "CNB"},
		{ID: 3, Order: 3, StationCode: "ALD"},
	}

	from, to, ok := findSegmentStops(stops, " ndls", "ALD")
	if !ok {
		t.Fatalf("forward segment rejected")
	}
	if from.Order != 1 || to.Order != 3 {
		t.Errorf("got orders %d->%d, want 1->3", from.Order, to.Order)
	}

	if _, _, ok := findSegmentStops(stops, "ALD", "NDLS"); ok {
		t.Errorf("backward segment accepted")
	}
	if _, _, ok := findSegmentStops(stops, "CNB", "CNB"); ok {
		t.Errorf("zero-length segment accepted")
	}
	if _, _, ok := findSegmentStops(stops, "NDLS", "BCT"); ok {
		t.Errorf("station off the route accepted")
	}
}
