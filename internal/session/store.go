package session

import "context"

// Store persists the single session record under the fixed slot key.
//
// Load returns (nil, nil) when the slot is empty or holds a record that
// cannot be parsed; a corrupt slot is indistinguishable from an absent one
// on purpose, so rehydration stays a silent no-op. Save overwrites any
// prior value. Clear is idempotent.
type Store interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}
