package tool

import (
	"time"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

// NormalizeDay resolves the relative tokens "today", "tomorrow" and
// "yesterday" into absolute calendar dates against the given clock. Anything
// else passes through unchanged: the value may already be an absolute date,
// and unrecognized strings are deliberately not rejected here.
func NormalizeDay(value string, now func() time.Time) string {
	switch value {
	case "today":
		return now().Format(lead.DayLayout)
	case "tomorrow":
		return now().AddDate(0, 0, 1).Format(lead.DayLayout)
	case "yesterday":
		return now().AddDate(0, 0, -1).Format(lead.DayLayout)
	default:
		return value
	}
}
