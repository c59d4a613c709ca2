package lead

import (
	"testing"
	"time"
)

func TestCoerceDayStrings(t *testing.T) {
	t.Parallel()

	m := map[string]any{
		"nextFollowUpDate": "2024-07-01",
		"notes":            "2024-07-01", // not a date key, must pass through
		"siteVisit": map[string]any{
			"date": "2024-07-02",
		},
		"meeting": map[string]any{
			"date": "sometime soon",
		},
	}
	CoerceDayStrings(m)

	if _, err := time.Parse(time.RFC3339, m["nextFollowUpDate"].(string)); err != nil {
		t.Fatalf("nextFollowUpDate not coerced: %v", m["nextFollowUpDate"])
	}
	if m["notes"] != "2024-07-01" {
		t.Fatalf("notes must be untouched, got %v", m["notes"])
	}
	site := m["siteVisit"].(map[string]any)
	if _, err := time.Parse(time.RFC3339, site["date"].(string)); err != nil {
		t.Fatalf("nested date not coerced: %v", site["date"])
	}
	meeting := m["meeting"].(map[string]any)
	if meeting["date"] != "sometime soon" {
		t.Fatalf("unparseable value must pass through, got %v", meeting["date"])
	}
}
