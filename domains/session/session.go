package session

import (
	"context"
	"time"
)

// State is the verification state of one sender's conversation.
type State string

const (
	StateNew              State = "new"
	StateAwaitingIdentity State = "awaiting_identity"
	StateVerified         State = "verified"
)

// Session holds the per-sender conversational state. It is created lazily on
// first contact and mutated only by the dispatch engine. Verified is
// terminal: there is no de-verification transition.
type Session struct {
	Sender      string    `json:"sender"`
	State       State     `json:"state"`
	IdentityKey string    `json:"identity_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ISessionStore is the per-sender state store. Keys are independent, so no
// cross-sender coordination is required; the store only has to make the
// per-sender replace atomic.
type ISessionStore interface {
	// GetOrCreate materializes a fresh session in StateNew on first access.
	GetOrCreate(ctx context.Context, sender string) (Session, error)
	// Set replaces the stored state for one sender.
	Set(ctx context.Context, sender string, sess Session) error
	// Count returns the number of live sessions (for health reporting).
	Count(ctx context.Context) (int, error)
}
