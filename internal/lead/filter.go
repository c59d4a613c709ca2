package lead

// Filter narrows a Find call. Text fields are matched the way the REST API
// always has: name and email partial and case-insensitive, phone exact, the
// rest exact. CreatedFrom/CreatedTo form an inclusive range over CreatedAt.
// MeetingDate and SiteVisitDate are calendar days (YYYY-MM-DD) resolved by
// the store to start/end-of-day bounds.
type Filter struct {
	Name       string
	Phone      string
	Email      string
	Status     string
	Source     string
	AssignedTo string
	Location   string
	Project    string
	Rating     string

	CreatedFrom string
	CreatedTo   string

	MeetingScheduled   *bool
	SiteVisitScheduled *bool
	MeetingDate        string
	SiteVisitDate      string
}

// IsZero reports whether no filter key is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}
