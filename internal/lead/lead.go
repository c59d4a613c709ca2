package lead

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Status is the position of a lead in the sales pipeline.
type Status string

const (
	StatusNew               Status = "New"
	StatusFollowUp          Status = "Follow-Up"
	StatusMeetingScheduled  Status = "Meeting Scheduled"
	StatusSiteVisitSchedule Status = "Site Visit Scheduled"
	StatusSiteVisited       Status = "Site Visited"
	StatusNegotiation       Status = "Negotiation"
	StatusNotInterested     Status = "Not Interested"
	StatusDropped           Status = "Dropped"
	StatusClosed            Status = "Closed"
)

// Source is the channel a lead came in through.
type Source string

const (
	SourceJustDial    Source = "JustDial"
	SourceMagicBricks Source = "MagicBricks"
	Source99Acres     Source = "99acres"
	SourceFacebook    Source = "Facebook"
	SourceWalkIn      Source = "Walk-in"
	SourceReferral    Source = "Referral"
	SourceInstagram   Source = "Instagram"
	SourceWebsite     Source = "Website"
	SourceOther       Source = "Other"
)

var statuses = map[Status]struct{}{
	StatusNew:               {},
	StatusFollowUp:          {},
	StatusMeetingScheduled:  {},
	StatusSiteVisitSchedule: {},
	StatusSiteVisited:       {},
	StatusNegotiation:       {},
	StatusNotInterested:     {},
	StatusDropped:           {},
	StatusClosed:            {},
}

var sources = map[Source]struct{}{
	SourceJustDial:    {},
	SourceMagicBricks: {},
	Source99Acres:     {},
	SourceFacebook:    {},
	SourceWalkIn:      {},
	SourceReferral:    {},
	SourceInstagram:   {},
	SourceWebsite:     {},
	SourceOther:       {},
}

// Enumeration order matters for tool schema declarations, so these are kept
// as slices alongside the membership sets.
var statusValues = []string{
	string(StatusNew), string(StatusFollowUp), string(StatusMeetingScheduled),
	string(StatusSiteVisitSchedule), string(StatusSiteVisited), string(StatusNegotiation),
	string(StatusNotInterested), string(StatusDropped), string(StatusClosed),
}

var sourceValues = []string{
	string(SourceJustDial), string(SourceMagicBricks), string(Source99Acres),
	string(SourceFacebook), string(SourceWalkIn), string(SourceReferral),
	string(SourceInstagram), string(SourceWebsite), string(SourceOther),
}

// StatusValues returns the closed status enumeration.
func StatusValues() []string {
	return append([]string(nil), statusValues...)
}

// SourceValues returns the closed source enumeration.
func SourceValues() []string {
	return append([]string(nil), sourceValues...)
}

func (s Status) Valid() bool {
	_, ok := statuses[s]
	return ok
}

func (s Source) Valid() bool {
	_, ok := sources[s]
	return ok
}

// Enquiry captures what the lead is looking for.
type Enquiry struct {
	PropertyType string `bun:"property_type" json:"propertyType,omitempty"`
	Location     string `bun:"location" json:"location,omitempty"`
	Project      string `bun:"project" json:"project,omitempty"`
	Possession   string `bun:"possession" json:"possession,omitempty"`
	Furnishing   string `bun:"furnishing" json:"furnishing,omitempty"`
}

type Budget struct {
	Min float64 `bun:"min" json:"min,omitempty"`
	Max float64 `bun:"max" json:"max,omitempty"`
}

type Meeting struct {
	IsScheduled bool       `bun:"is_scheduled" json:"isScheduled"`
	Date        *time.Time `bun:"date" json:"date,omitempty"`
	Mode        string     `bun:"mode" json:"mode,omitempty"`
}

type SiteVisit struct {
	IsScheduled bool       `bun:"is_scheduled" json:"isScheduled"`
	Date        *time.Time `bun:"date" json:"date,omitempty"`
	Location    string     `bun:"location" json:"location,omitempty"`
}

// Lead is a prospective customer record. The identifier and CreatedAt are
// assigned by the store on insert and never overwritten afterwards.
type Lead struct {
	bun.BaseModel `bun:"table:leads,alias:l" json:"-"`

	ID     string `bun:"id,pk" json:"_id"`
	Name   string `bun:"name,notnull" json:"name"`
	Phone  string `bun:"phone,notnull" json:"phone"`
	Email  string `bun:"email" json:"email,omitempty"`
	Source Source `bun:"source,notnull" json:"source"`
	Status Status `bun:"status,notnull" json:"status"`

	Rating     string `bun:"lead_rating" json:"leadRating,omitempty"`
	AssignedTo string `bun:"assigned_to" json:"assignedTo,omitempty"`
	Notes      string `bun:"notes" json:"notes,omitempty"`

	EnquiredFor Enquiry   `bun:"embed:enquired_for_" json:"enquiredFor"`
	Budget      Budget    `bun:"embed:budget_" json:"budget"`
	Meeting     Meeting   `bun:"embed:meeting_" json:"meeting"`
	SiteVisit   SiteVisit `bun:"embed:site_visit_" json:"siteVisit"`

	NextFollowUpDate *time.Time `bun:"next_follow_up_date" json:"nextFollowUpDate,omitempty"`
	LastFollowUpDate *time.Time `bun:"last_follow_up_date" json:"lastFollowUpDate,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Normalize applies creation defaults. Status falls back to New when absent.
func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Phone = strings.TrimSpace(l.Phone)
	if l.Status == "" {
		l.Status = StatusNew
	}
}

// Validate checks the invariants a lead must satisfy before it reaches the
// store: name and phone present, source and status members of their enums.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLead)
	}
	if strings.TrimSpace(l.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidLead)
	}
	if !l.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidLead, l.Source)
	}
	if l.Status != "" && !l.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidLead, l.Status)
	}
	return nil
}
