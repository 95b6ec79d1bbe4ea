package orchestrators

import "time"

// fixedNow returns a deterministic timestamp for tests.
// 2026-03-02 is a Monday.
func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
}

// fixedID returns a deterministic ID for tests.
func fixedID() string {
	return "test-id-001"
}

// sequenceID returns a generator producing id-1, id-2, ...
func sequenceID() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}
