package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Relay gates Store access behind input validation and the token allowlist.
// Rejected requests never reach the Store.
type Relay struct {
	store      Store
	allowlist  *Allowlist
	singleSlot bool
	logger     zerolog.Logger
}

type Config struct {
	Store     Store
	Allowlist *Allowlist
	// SingleSlot ignores tokens and keeps one global entry under GlobalSlot.
	SingleSlot bool
	Logger     zerolog.Logger
}

func NewRelay(cfg Config) (*Relay, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	allowlist := cfg.Allowlist
	if allowlist == nil {
		allowlist = NewAllowlist(nil)
	}
	return &Relay{
		store:      cfg.Store,
		allowlist:  allowlist,
		singleSlot: cfg.SingleSlot,
		logger:     cfg.Logger.With().Str("component", "relay").Logger(),
	}, nil
}

// slot resolves the store key for token, applying the allowlist in
// token-keyed mode.
func (r *Relay) slot(token string) (string, error) {
	if r.singleSlot {
		return GlobalSlot, nil
	}
	if token == "" {
		return "", ErrMissingToken
	}
	if !r.allowlist.Allowed(token) {
		return "", ErrTokenNotAllowed
	}
	return token, nil
}

// Set records code for token, replacing whatever was there.
func (r *Relay) Set(ctx context.Context, token, code string) (Entry, error) {
	if !r.singleSlot && token == "" {
		return Entry{}, ErrMissingToken
	}
	if code == "" {
		return Entry{}, ErrMissingCode
	}
	key, err := r.slot(token)
	if err != nil {
		return Entry{}, err
	}
	e, err := r.store.Set(ctx, key, code)
	if err != nil {
		return Entry{}, err
	}
	r.logger.Debug().Str("token", key).Msg("code recorded")
	return e, nil
}

// Get returns the latest fresh code for token. Missing and stale entries
// both come back as Expired with no error.
func (r *Relay) Get(ctx context.Context, token string) (Lookup, error) {
	key, err := r.slot(token)
	if err != nil {
		return Lookup{}, err
	}
	e, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return Lookup{}, err
	}
	if !ok {
		return Lookup{Expired: true}, nil
	}
	return Lookup{Code: e.Code, RecordedAt: e.RecordedAt}, nil
}

// Delete removes any entry for token. Deleting nothing is not an error.
func (r *Relay) Delete(ctx context.Context, token string) error {
	key, err := r.slot(token)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, key); err != nil {
		return err
	}
	r.logger.Debug().Str("token", key).Msg("code deleted")
	return nil
}

func (r *Relay) SingleSlot() bool {
	return r.singleSlot
}

func (r *Relay) Allowlist() *Allowlist {
	return r.allowlist
}

// Ping checks the backing store when it has a remote dependency.
func (r *Relay) Ping(ctx context.Context) error {
	p, ok := r.store.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

// Entries reports how many entries the store holds, when the backend can
// count them cheaply.
func (r *Relay) Entries() (int, bool) {
	m, ok := r.store.(*MemoryStore)
	if !ok {
		return 0, false
	}
	return m.Len(), true
}
