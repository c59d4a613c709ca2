package lead

import "time"

// DayLayout is the bare calendar-day format the API accepts.
const DayLayout = "2006-01-02"

// Patch keys that carry dates, top-level and nested.
var dateKeys = map[string]struct{}{
	"date":             {},
	"nextFollowUpDate": {},
	"lastFollowUpDate": {},
}

// CoerceDayStrings rewrites bare calendar days ("2006-01-02") under known
// date keys into RFC 3339 timestamps so they survive a JSON merge into
// time.Time fields. Anything unparseable is left alone.
func CoerceDayStrings(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			CoerceDayStrings(val)
		case string:
			if _, ok := dateKeys[k]; !ok {
				continue
			}
			if day, err := time.ParseInLocation(DayLayout, val, time.Local); err == nil {
				m[k] = day.Format(time.RFC3339)
			}
		}
	}
}
