package simulator

import (
	"context"
	"errors"
)

// ErrCorruptState signals that the profile store returned a state payload that
// could not be decoded. Callers treat it like "no saved state" but surface a
// distinct warning so the user knows prior data may be lost.
var ErrCorruptState = errors.New("saved simulator state could not be parsed")

// StateStore is the remote profile store keyed by the authenticated user.
// Load returns (nil, nil) when the user has no saved state.
type StateStore interface {
	Load(ctx context.Context) (*Account, error)
	Save(ctx context.Context, account Account) error
	Delete(ctx context.Context) error
}
