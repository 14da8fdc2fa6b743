package core

import "context"

// Store holds at most one Entry per token. Get evicts an entry it finds
// stale, so a later Get observes absence rather than the stale value.
type Store interface {
	Set(ctx context.Context, token, code string) (Entry, error)
	Get(ctx context.Context, token string) (Entry, bool, error)
	Delete(ctx context.Context, token string) error
}
