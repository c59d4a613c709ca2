package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

const defaultPreviewLimit = 5

// Preview is the short (name, phone) line shown when a lookup is ambiguous.
type Preview struct {
	Name  string
	Phone string
}

// Resolution classifies a name/phone lookup. Exactly one of the three states
// holds: a unique match (Lead set), an ambiguous match (Previews set), or
// nothing found.
type Resolution struct {
	Lead     *lead.Lead
	Previews []Preview
	Total    int
}

func (r Resolution) NotFound() bool {
	return r.Lead == nil && len(r.Previews) == 0
}

func (r Resolution) Ambiguous() bool {
	return len(r.Previews) > 0
}

// Resolver turns a human-supplied name and optional phone into a single
// store record. Name matches are partial and case-insensitive, phone is
// exact. Ambiguity is never resolved by guessing: with two or more matches
// the resolver returns previews and the caller must ask for a phone number.
type Resolver struct {
	store        lead.Store
	previewLimit int
}

func NewResolver(store lead.Store) *Resolver {
	return &Resolver{store: store, previewLimit: defaultPreviewLimit}
}

func (r *Resolver) Resolve(ctx context.Context, name, phone string) (Resolution, error) {
	matches, err := r.store.Find(ctx, lead.Filter{
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
	})
	if err != nil {
		return Resolution{}, err
	}

	switch len(matches) {
	case 0:
		return Resolution{}, nil
	case 1:
		return Resolution{Lead: &matches[0], Total: 1}, nil
	}

	limit := r.previewLimit
	if limit > len(matches) {
		limit = len(matches)
	}
	previews := make([]Preview, 0, limit)
	for _, m := range matches[:limit] {
		previews = append(previews, Preview{Name: m.Name, Phone: m.Phone})
	}
	return Resolution{Previews: previews, Total: len(matches)}, nil
}

// searchCriteria renders the lookup terms for not-found messages.
func searchCriteria(name, phone string) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, " name %q", name)
	}
	if phone != "" {
		if name != "" {
			b.WriteString(" and")
		}
		fmt.Fprintf(&b, " phone %q", phone)
	}
	return b.String()
}

func notFoundMessage(name, phone string) string {
	return fmt.Sprintf("❌ No lead found with%s.", searchCriteria(name, phone))
}

func ambiguousMessage(name string, res Resolution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Multiple leads found for name %q. Please specify the phone number to identify the exact lead.\n\n", name)
	if res.Total > len(res.Previews) {
		fmt.Fprintf(&b, "Matching leads (showing %d of %d):\n", len(res.Previews), res.Total)
	} else {
		b.WriteString("Matching leads:\n")
	}
	for i, p := range res.Previews {
		fmt.Fprintf(&b, "%d. %s, %s\n", i+1, p.Name, p.Phone)
	}
	b.WriteString("\nTip: use both name and phone number for precise identification.")
	return b.String()
}
