package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// StationRepo provides read and create access to the stations table.
// Stations are immutable reference data: once created they are only
// ever read, so no update or delete operations exist.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a new StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

// Create inserts a station and returns its generated ID.  Station codes
// are stored upper-cased.  A duplicate code surfaces as ErrConflict.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) error {
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	const q = `INSERT INTO stations (code, name, city, state) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Code, s.Name, s.City, s.State)
	if err != nil {
		if IsDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByCode fetches a station by its unique code.  sql.ErrNoRows is
// returned when the code does not resolve.
func (r *StationRepo) GetByCode(ctx context.Context, code string) (*model.Station, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	const q = `SELECT id, code, name, city, state, created_at FROM stations WHERE code = ?`
	var s model.Station
	err := r.db.QueryRowContext(ctx, q, code).Scan(&s.ID, &s.Code, &s.Name, &s.City, &s.State, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all stations ordered by code.
func (r *StationRepo) List(ctx context.Context) ([]model.Station, error) {
	const q = `SELECT id, code, name, city, state, created_at FROM stations ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Station, 0)
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.City, &s.State, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
