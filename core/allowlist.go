package core

import "strings"

// Allowlist is the fixed set of tokens permitted to read and write. It is
// built once and never mutated, so it needs no locking. An empty (or nil)
// Allowlist permits every token.
type Allowlist struct {
	tokens map[string]struct{}
}

// NewAllowlist builds an Allowlist from tokens, skipping blank entries.
func NewAllowlist(tokens []string) *Allowlist {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return &Allowlist{tokens: set}
}

// ParseAllowlist splits a comma-separated list, trimming whitespace around
// each token.
func ParseAllowlist(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Allowed reports whether token may be used. Matching is exact.
func (a *Allowlist) Allowed(token string) bool {
	if a.Open() {
		return true
	}
	_, ok := a.tokens[token]
	return ok
}

func (a *Allowlist) Open() bool {
	return a == nil || len(a.tokens) == 0
}

func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.tokens)
}
