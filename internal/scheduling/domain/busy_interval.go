package domain

import "time"

// BusyInterval is time already committed outside the task list, such as a
// class or a meeting. It may cross midnight.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has positive length.
func (b BusyInterval) Valid() bool {
	return b.End.After(b.Start)
}

// Minutes is the whole-minute length of the interval, zero when malformed.
func (b BusyInterval) Minutes() int {
	if !b.Valid() {
		return 0
	}
	return int(b.End.Sub(b.Start) / time.Minute)
}

// Overlaps reports whether the interval intersects [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Valid() && b.Start.Before(end) && b.End.After(start)
}
