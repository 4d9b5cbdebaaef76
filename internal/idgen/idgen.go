package idgen

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewFunc returns 32 lowercase hex characters carrying 128 bits of identity.
// Override in tests for determinism.
var NewFunc = func() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// New returns a new identifier. Identifiers are unique, never meaningful.
func New() string { return NewFunc() }
