package core

import "time"

// Clock supplies the timestamps stores record and compare against.
type Clock func() time.Time

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}
