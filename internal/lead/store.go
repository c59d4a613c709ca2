package lead

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("lead not found")
	ErrInvalidLead = errors.New("invalid lead")
)

// Protected keys a Patch may never carry into the store. The identifier and
// creation timestamp are immutable once assigned.
var protectedPatchKeys = []string{"_id", "id", "createdAt", "created_at"}

// Patch is a partial lead document, keyed by the JSON field names the API
// exposes. Unknown keys are ignored by the store.
type Patch map[string]any

// Sanitize returns a copy of the patch with protected keys removed.
func (p Patch) Sanitize() Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range protectedPatchKeys {
		delete(out, k)
	}
	return out
}

// Store is the persistence contract the tool surface and the HTTP layer
// share. Insert assigns the identifier and creation timestamp. UpdateByID
// applies a partial document and returns the updated record. Both UpdateByID
// and DeleteByID report ErrNotFound when the identifier does not exist.
type Store interface {
	Find(ctx context.Context, f Filter) ([]Lead, error)
	Insert(ctx context.Context, l *Lead) error
	UpdateByID(ctx context.Context, id string, p Patch) (Lead, error)
	DeleteByID(ctx context.Context, id string) error
}
