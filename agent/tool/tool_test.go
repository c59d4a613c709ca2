package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

// fakeLeadStore implements lead.Store with just enough filter semantics for
// the tool surface: name partial/ci, phone exact, status exact.
type fakeLeadStore struct {
	leads []lead.Lead

	findErr    error
	lastFilter lead.Filter

	inserted  []lead.Lead
	insertErr error

	updatedIDs     []string
	updatedPatches []lead.Patch
	updateResult   lead.Lead
	updateErr      error

	deletedIDs []string
	deleteErr  error
}

func (f *fakeLeadStore) Find(ctx context.Context, filter lead.Filter) ([]lead.Lead, error) {
	f.lastFilter = filter
	if f.findErr != nil {
		return nil, f.findErr
	}

	out := make([]lead.Lead, 0, len(f.leads))
	for _, l := range f.leads {
		if filter.Name != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Phone != "" && l.Phone != filter.Phone {
			continue
		}
		if filter.Status != "" && string(l.Status) != filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLeadStore) Insert(ctx context.Context, l *lead.Lead) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	l.Normalize()
	if err := l.Validate(); err != nil {
		return err
	}
	l.ID = fmt.Sprintf("id-%d", len(f.inserted)+1)
	l.CreatedAt = time.Now().UTC()
	f.inserted = append(f.inserted, *l)
	f.leads = append(f.leads, *l)
	return nil
}

func (f *fakeLeadStore) UpdateByID(ctx context.Context, id string, p lead.Patch) (lead.Lead, error) {
	f.updatedIDs = append(f.updatedIDs, id)
	f.updatedPatches = append(f.updatedPatches, p)
	if f.updateErr != nil {
		return lead.Lead{}, f.updateErr
	}
	return f.updateResult, nil
}

func (f *fakeLeadStore) DeleteByID(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return nil
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 30, 0, 0, time.Local)
	}
}

func sampleLead(id, name, phone string) lead.Lead {
	return lead.Lead{
		ID:        id,
		Name:      name,
		Phone:     phone,
		Source:    lead.SourceWebsite,
		Status:    lead.StatusNew,
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}
