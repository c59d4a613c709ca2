// Package reminder schedules delayed follow-up notifications for leads
// through Upstash QStash. Scheduling is best-effort: a lead write never
// fails because the reminder could not be enqueued.
package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

type Config struct {
	CallbackURL string `split_words:"true"`
}

// Publisher is the part of the QStash client the scheduler needs.
type Publisher interface {
	Enabled() bool
	PublishJSON(ctx context.Context, destination string, body any, delay time.Duration) (string, error)
}

type Scheduler struct {
	publisher   Publisher
	callbackURL string
	now         func() time.Time
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func NewScheduler(publisher Publisher, callbackURL string, opts ...Option) *Scheduler {
	s := &Scheduler{
		publisher:   publisher,
		callbackURL: strings.TrimSpace(callbackURL),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notification is the payload delivered to the callback URL when a
// follow-up comes due.
type Notification struct {
	LeadID           string    `json:"lead_id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	AssignedTo       string    `json:"assigned_to,omitempty"`
	NextFollowUpDate time.Time `json:"next_follow_up_date"`
}

// Schedule enqueues a reminder for the lead's next follow-up date. Leads
// without a future follow-up date are skipped.
func (s *Scheduler) Schedule(ctx context.Context, l lead.Lead) {
	if s == nil || s.publisher == nil || !s.publisher.Enabled() || s.callbackURL == "" {
		return
	}
	if l.NextFollowUpDate == nil {
		return
	}
	delay := l.NextFollowUpDate.Sub(s.now())
	if delay <= 0 {
		return
	}

	msgID, err := s.publisher.PublishJSON(ctx, s.callbackURL, Notification{
		LeadID:           l.ID,
		Name:             l.Name,
		Phone:            l.Phone,
		AssignedTo:       l.AssignedTo,
		NextFollowUpDate: *l.NextFollowUpDate,
	}, delay)
	if err != nil {
		log.Warn().Err(err).Str("lead_id", l.ID).Msg("schedule follow-up reminder failed")
		return
	}
	log.Debug().Str("lead_id", l.ID).Str("message_id", msgID).Msg("follow-up reminder scheduled")
}
