package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

// Store implements lead.Store on top of Postgres via bun.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Find(ctx context.Context, f lead.Filter) ([]lead.Lead, error) {
	leads := make([]lead.Lead, 0)
	q := s.db.NewSelect().Model(&leads)

	if f.Name != "" {
		q = q.Where("l.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Phone != "" {
		q = q.Where("l.phone = ?", f.Phone)
	}
	if f.Email != "" {
		q = q.Where("l.email ILIKE ?", "%"+f.Email+"%")
	}
	if f.Status != "" {
		q = q.Where("l.status = ?", f.Status)
	}
	if f.Source != "" {
		q = q.Where("l.source = ?", f.Source)
	}
	if f.AssignedTo != "" {
		q = q.Where("l.assigned_to = ?", f.AssignedTo)
	}
	if f.Location != "" {
		q = q.Where("l.enquired_for_location = ?", f.Location)
	}
	if f.Project != "" {
		q = q.Where("l.enquired_for_project = ?", f.Project)
	}
	if f.Rating != "" {
		q = q.Where("l.lead_rating = ?", f.Rating)
	}
	if f.MeetingScheduled != nil {
		q = q.Where("l.meeting_is_scheduled = ?", *f.MeetingScheduled)
	}
	if f.SiteVisitScheduled != nil {
		q = q.Where("l.site_visit_is_scheduled = ?", *f.SiteVisitScheduled)
	}

	if from, ok := startOfDay(f.CreatedFrom); ok {
		q = q.Where("l.created_at >= ?", from)
	}
	if to, ok := endOfDay(f.CreatedTo); ok {
		q = q.Where("l.created_at <= ?", to)
	}
	if from, to, ok := dayBounds(f.MeetingDate); ok {
		q = q.Where("l.meeting_date >= ? AND l.meeting_date < ?", from, to)
	}
	if from, to, ok := dayBounds(f.SiteVisitDate); ok {
		q = q.Where("l.site_visit_date >= ? AND l.site_visit_date < ?", from, to)
	}

	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("find leads: %w", err)
	}
	return leads, nil
}

func (s *Store) Insert(ctx context.Context, l *lead.Lead) error {
	l.Normalize()
	if err := l.Validate(); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now().UTC()
	}

	if _, err := s.db.NewInsert().Model(l).Exec(ctx); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *Store) UpdateByID(ctx context.Context, id string, p lead.Patch) (lead.Lead, error) {
	var current lead.Lead
	err := s.db.NewSelect().Model(&current).Where("l.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lead.Lead{}, lead.ErrNotFound
		}
		return lead.Lead{}, fmt.Errorf("load lead: %w", err)
	}

	if err := applyPatch(&current, p.Sanitize()); err != nil {
		return lead.Lead{}, err
	}
	// Patch merge cannot touch these, but keep the invariant explicit.
	current.ID = id
	current.Normalize()
	if err := current.Validate(); err != nil {
		return lead.Lead{}, err
	}

	if _, err := s.db.NewUpdate().Model(&current).WherePK().Exec(ctx); err != nil {
		return lead.Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return current, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*lead.Lead)(nil)).Where("l.id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if n == 0 {
		return lead.ErrNotFound
	}
	return nil
}

// applyPatch merges a partial document into the current record. The patch
// uses the API's JSON field names, so the merge goes through the JSON codec.
// CreatedAt is restored afterwards; Sanitize has already removed the key,
// this guards against a malformed nested payload.
func applyPatch(l *lead.Lead, p lead.Patch) error {
	createdAt := l.CreatedAt

	lead.CoerceDayStrings(p)
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %v", lead.ErrInvalidLead, err)
	}
	if err := json.Unmarshal(raw, l); err != nil {
		return fmt.Errorf("%w: %v", lead.ErrInvalidLead, err)
	}

	l.CreatedAt = createdAt
	return nil
}

func startOfDay(day string) (time.Time, bool) {
	t, err := time.ParseInLocation(lead.DayLayout, day, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func endOfDay(day string) (time.Time, bool) {
	t, ok := startOfDay(day)
	if !ok {
		return time.Time{}, false
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

// dayBounds resolves an exact-day filter to [start, nextDay) bounds.
// Unparseable values are skipped, matching the permissive filter policy.
func dayBounds(day string) (time.Time, time.Time, bool) {
	start, ok := startOfDay(day)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, start.AddDate(0, 0, 1), true
}
