package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

type fakePublisher struct {
	enabled      bool
	destinations []string
	delays       []time.Duration
	bodies       []any
}

func (f *fakePublisher) Enabled() bool { return f.enabled }

func (f *fakePublisher) PublishJSON(ctx context.Context, destination string, body any, delay time.Duration) (string, error) {
	f.destinations = append(f.destinations, destination)
	f.delays = append(f.delays, delay)
	f.bodies = append(f.bodies, body)
	return "msg-1", nil
}

func TestScheduleEnqueuesFutureFollowUp(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)
	pub := &fakePublisher{enabled: true}
	s := NewScheduler(pub, "https://crm.example.com/reminders", WithClock(func() time.Time { return now }))

	s.Schedule(context.Background(), lead.Lead{
		ID:               "id-1",
		Name:             "Asha Rao",
		Phone:            "9999",
		NextFollowUpDate: &due,
	})

	if len(pub.destinations) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(pub.destinations))
	}
	if pub.destinations[0] != "https://crm.example.com/reminders" {
		t.Fatalf("unexpected destination: %s", pub.destinations[0])
	}
	if pub.delays[0] != 48*time.Hour {
		t.Fatalf("unexpected delay: %s", pub.delays[0])
	}
	n, ok := pub.bodies[0].(Notification)
	if !ok || n.LeadID != "id-1" || !n.NextFollowUpDate.Equal(due) {
		t.Fatalf("unexpected payload: %#v", pub.bodies[0])
	}
}

func TestScheduleSkips(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name      string
		scheduler *Scheduler
		lead      lead.Lead
		publisher *fakePublisher
	}{
		{
			name:      "no follow-up date",
			publisher: &fakePublisher{enabled: true},
			lead:      lead.Lead{ID: "id-1"},
		},
		{
			name:      "follow-up in the past",
			publisher: &fakePublisher{enabled: true},
			lead:      lead.Lead{ID: "id-1", NextFollowUpDate: &past},
		},
		{
			name:      "publisher disabled",
			publisher: &fakePublisher{enabled: false},
			lead:      lead.Lead{ID: "id-1", NextFollowUpDate: &future},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := NewScheduler(tc.publisher, "https://crm.example.com/reminders", WithClock(func() time.Time { return now }))
			s.Schedule(context.Background(), tc.lead)
			if len(tc.publisher.destinations) != 0 {
				t.Fatalf("expected no publish, got %d", len(tc.publisher.destinations))
			}
		})
	}

	var nilScheduler *Scheduler
	nilScheduler.Schedule(context.Background(), lead.Lead{ID: "id-1", NextFollowUpDate: &future})

	empty := NewScheduler(&fakePublisher{enabled: true}, "  ")
	empty.Schedule(context.Background(), lead.Lead{ID: "id-1", NextFollowUpDate: &future})
}
