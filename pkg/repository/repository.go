package repository

import (
	"context"

	"github.com/virtualvitae/vitae/pkg/model"
)

// Repository is the durable, identity-scoped reflection log. The namespace is
// physically flat and logically partitioned by profile key, so isolation
// between identities is enforced entirely through key derivation.
type Repository interface {
	// GetHistory retrieves the persisted history for key, most-recent-first.
	// A missing or unreadable record degrades to an empty history.
	GetHistory(ctx context.Context, key model.ProfileKey) (model.History, error)

	// PutHistory overwrites the persisted history for key (last-writer-wins).
	PutHistory(ctx context.Context, key model.ProfileKey, history model.History) error

	// PrependReflection loads, inserts at the front, and saves. This is the
	// only mutation path used when recording a new reflection.
	PrependReflection(ctx context.Context, key model.ProfileKey, r *model.Reflection) (model.History, error)

	// ClearHistory removes all persisted data for key. Other keys are
	// unaffected. Clearing an absent key is a no-op.
	ClearHistory(ctx context.Context, key model.ProfileKey) error

	// Close releases the underlying store.
	Close() error
}
