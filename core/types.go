package core

import (
	"errors"
	"time"
)

// GlobalSlot is the key every operation targets in single-slot mode.
const GlobalSlot = "_global"

type Entry struct {
	Code       string    `json:"code"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Lookup is the reader's view of a token. Expired is true both when nothing
// was recorded and when the recorded entry went stale.
type Lookup struct {
	Code       string
	RecordedAt time.Time
	Expired    bool
}

var (
	ErrMissingToken    = errors.New("token is required")
	ErrMissingCode     = errors.New("code is required")
	ErrTokenNotAllowed = errors.New("token not allowed")
)
