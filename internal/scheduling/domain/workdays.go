package domain

import (
	"fmt"
	"strings"
	"time"
)

// WorkdaySet is a set of weekdays stored as a bitmask indexed by time.Weekday.
type WorkdaySet uint8

// DefaultWorkdays is Monday through Friday.
var DefaultWorkdays = NewWorkdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

func NewWorkdaySet(days ...time.Weekday) WorkdaySet {
	var s WorkdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s |= 1 << uint(d)
		}
	}
	return s
}

// ParseWorkdaySet reads a comma separated list such as "mon,tue,wed".
// Full day names are accepted as well.
func ParseWorkdaySet(s string) (WorkdaySet, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if len(name) > 3 {
			name = name[:3]
		}
		wd, ok := weekdayNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, wd)
	}
	return NewWorkdaySet(days...), nil
}

func (s WorkdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Len returns the number of weekdays in the set.
func (s WorkdaySet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			n++
		}
	}
	return n
}

// Days lists the members from Sunday to Saturday.
func (s WorkdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WorkdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, strings.ToLower(d.String()[:3]))
	}
	return strings.Join(names, ",")
}
