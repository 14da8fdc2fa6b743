package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &Entry{Code: "123456", RecordedAt: base}

	tests := []struct {
		name string
		e    *Entry
		ttl  time.Duration
		now  time.Time
		want bool
	}{
		{"nil entry", nil, time.Minute, base, true},
		{"nil entry without ttl", nil, 0, base, true},
		{"fresh", entry, time.Minute, base.Add(30 * time.Second), false},
		{"exactly ttl old", entry, time.Minute, base.Add(time.Minute), false},
		{"past ttl", entry, time.Minute, base.Add(time.Minute + time.Nanosecond), true},
		{"zero ttl never expires", entry, 0, base.Add(1000 * time.Hour), false},
		{"negative ttl never expires", entry, -time.Second, base.Add(1000 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(tt.e, tt.ttl, tt.now))
		})
	}
}
