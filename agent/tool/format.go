package tool

import (
	"fmt"
	"strings"
	"time"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

const displayTimeLayout = "02 Jan 2006 15:04"

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Local().Format(displayTimeLayout)
}

// formatLeadBlock renders the fixed-structure block get_leads emits per
// record.
func formatLeadBlock(index int, l lead.Lead) string {
	created := l.CreatedAt
	return fmt.Sprintf(`Lead %d:
- Name: %s
- Phone: %s
- Email: %s
- Status: %s
- Source: %s
- Rating: %s
- Assigned To: %s
- Meeting Scheduled: %s
- Meeting Date: %s
- Site Visit Scheduled: %s
- Site Visit Date: %s
- Location: %s
- Project: %s
- Created At: %s`,
		index,
		l.Name,
		l.Phone,
		orNA(l.Email),
		orNA(string(l.Status)),
		orNA(string(l.Source)),
		orNA(l.Rating),
		orNA(l.AssignedTo),
		yesNo(l.Meeting.IsScheduled),
		formatTime(l.Meeting.Date),
		yesNo(l.SiteVisit.IsScheduled),
		formatTime(l.SiteVisit.Date),
		orNA(l.EnquiredFor.Location),
		orNA(l.EnquiredFor.Project),
		formatTime(&created),
	)
}

func formatLeadList(leads []lead.Lead) string {
	blocks := make([]string, 0, len(leads))
	for i, l := range leads {
		blocks = append(blocks, formatLeadBlock(i+1, l))
	}
	return strings.Join(blocks, "\n\n")
}
