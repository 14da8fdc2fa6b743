package core

import "time"

// IsExpired reports whether e is stale at now. A nil entry is always expired
// and a non-positive ttl disables expiry. An entry exactly ttl old is fresh.
func IsExpired(e *Entry, ttl time.Duration, now time.Time) bool {
	if e == nil {
		return true
	}
	if ttl <= 0 {
		return false
	}
	return now.Sub(e.RecordedAt) > ttl
}
