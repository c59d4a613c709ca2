package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

// Toolset executes the lead tools against an injected store. The store is
// handed in at construction; tools never reach for process-wide defaults.
type Toolset struct {
	store    lead.Store
	resolver *Resolver
	now      func() time.Time
}

type ToolsetOption func(*Toolset)

// WithClock overrides the clock used for relative date resolution.
func WithClock(now func() time.Time) ToolsetOption {
	return func(ts *Toolset) {
		if now != nil {
			ts.now = now
		}
	}
}

func NewToolset(store lead.Store, opts ...ToolsetOption) *Toolset {
	ts := &Toolset{
		store:    store,
		resolver: NewResolver(store),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}
	return ts
}

func (ts *Toolset) executeGetLeads(ctx context.Context, args map[string]any) string {
	filters, _ := args["filters"].(map[string]any)

	f := lead.Filter{
		Name:               stringArg(filters, "name"),
		Phone:              stringArg(filters, "phone"),
		Email:              stringArg(filters, "email"),
		Status:             stringArg(filters, "status"),
		Source:             stringArg(filters, "source"),
		AssignedTo:         stringArg(filters, "assignedTo"),
		Location:           stringArg(filters, "location"),
		Project:            stringArg(filters, "project"),
		Rating:             stringArg(filters, "rating"),
		CreatedFrom:        stringArg(filters, "from"),
		CreatedTo:          stringArg(filters, "to"),
		MeetingScheduled:   boolArg(filters, "meetingScheduled"),
		SiteVisitScheduled: boolArg(filters, "siteVisitScheduled"),
		MeetingDate:        NormalizeDay(stringArg(filters, "meetingDate"), ts.now),
		SiteVisitDate:      NormalizeDay(stringArg(filters, "siteVisitDate"), ts.now),
	}

	leads, err := ts.store.Find(ctx, f)
	if err != nil {
		return fmt.Sprintf("❌ Failed to fetch leads: %v", err)
	}
	if len(leads) == 0 {
		return "No leads found."
	}
	return formatLeadList(leads)
}

func (ts *Toolset) executeCreateLead(ctx context.Context, args map[string]any) string {
	raw, ok := args["lead"].(map[string]any)
	if !ok {
		return "❌ Failed to create lead: a lead object with name, phone and source is required."
	}

	l, err := decodeLead(raw)
	if err != nil {
		return fmt.Sprintf("❌ Failed to create lead: %v", err)
	}
	if err := ts.store.Insert(ctx, &l); err != nil {
		return fmt.Sprintf("❌ Failed to create lead: %v", err)
	}

	return fmt.Sprintf("✅ Lead created successfully:\n- Name: %s\n- Phone: %s\n- Source: %s",
		l.Name, l.Phone, l.Source)
}

func (ts *Toolset) executeUpdateLead(ctx context.Context, args map[string]any) string {
	name := stringArg(args, "name")
	phone := stringArg(args, "phone")
	updates, ok := args["updates"].(map[string]any)
	if !ok || len(updates) == 0 {
		return "❌ Failed to update lead: an updates object is required."
	}

	res, err := ts.resolver.Resolve(ctx, name, phone)
	if err != nil {
		return fmt.Sprintf("❌ Failed to update lead: %v", err)
	}
	if res.NotFound() {
		return notFoundMessage(name, phone)
	}
	if res.Ambiguous() {
		return ambiguousMessage(name, res)
	}

	updated, err := ts.store.UpdateByID(ctx, res.Lead.ID, lead.Patch(updates).Sanitize())
	if err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			return "❌ Lead not found. It may have already been deleted."
		}
		return fmt.Sprintf("❌ Failed to update lead: %v", err)
	}

	return fmt.Sprintf("✅ Lead updated:\n- Name: %s\n- Phone: %s\n- Status: %s",
		updated.Name, updated.Phone, orNA(string(updated.Status)))
}

// executeDeleteLead is a two-phase protocol: without confirmed=true it only
// previews what would be deleted. The commit phase deletes by the identifier
// resolved in this same invocation, never by re-matching name/phone.
func (ts *Toolset) executeDeleteLead(ctx context.Context, args map[string]any) string {
	name := stringArg(args, "name")
	phone := stringArg(args, "phone")
	confirmed, _ := args["confirmed"].(bool)

	res, err := ts.resolver.Resolve(ctx, name, phone)
	if err != nil {
		return fmt.Sprintf("❌ Failed to delete lead: %v", err)
	}
	if res.NotFound() {
		return notFoundMessage(name, phone)
	}
	if res.Ambiguous() {
		return ambiguousMessage(name, res)
	}

	target := res.Lead
	if !confirmed {
		return fmt.Sprintf(`⚠️ Confirmation Required

You are about to delete the following lead:
- Name: %s
- Phone: %s
- Status: %s
- Source: %s

This action cannot be undone. To proceed, please confirm by saying "Yes, delete this lead".`,
			target.Name, target.Phone, orNA(string(target.Status)), orNA(string(target.Source)))
	}

	if err := ts.store.DeleteByID(ctx, target.ID); err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			return "❌ Lead not found. It may have already been deleted."
		}
		return fmt.Sprintf("❌ Failed to delete lead: %v", err)
	}

	return fmt.Sprintf("✅ Lead deleted:\n- Name: %s\n- Phone: %s\n- Status: %s\n\nThe lead has been permanently removed from the system.",
		target.Name, target.Phone, orNA(string(target.Status)))
}

func decodeLead(raw map[string]any) (lead.Lead, error) {
	doc := make(map[string]any, len(raw))
	for k, v := range raw {
		doc[k] = v
	}
	lead.CoerceDayStrings(doc)

	payload, err := json.Marshal(doc)
	if err != nil {
		return lead.Lead{}, fmt.Errorf("%w: %v", lead.ErrInvalidLead, err)
	}
	var l lead.Lead
	if err := json.Unmarshal(payload, &l); err != nil {
		return lead.Lead{}, fmt.Errorf("%w: %v", lead.ErrInvalidLead, err)
	}
	// The store assigns these; a caller-supplied value must not survive.
	l.ID = ""
	l.CreatedAt = time.Time{}
	return l, nil
}

func stringArg(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func boolArg(m map[string]any, key string) *bool {
	if m == nil {
		return nil
	}
	b, ok := m[key].(bool)
	if !ok {
		return nil
	}
	return &b
}
