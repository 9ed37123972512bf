package domain

import "slices"

// DayLoadMap holds committed minutes per day.
type DayLoadMap map[Day]int

// Load returns the minutes committed on d.
func (m DayLoadMap) Load(d Day) int {
	return m[d]
}

// Add commits minutes to d.
func (m DayLoadMap) Add(d Day, minutes int) {
	if minutes == 0 {
		return
	}
	m[d] += minutes
}

// Clone returns an independent copy.
func (m DayLoadMap) Clone() DayLoadMap {
	out := make(DayLoadMap, len(m))
	for d, v := range m {
		out[d] = v
	}
	return out
}

// Days returns the keys in ascending order.
func (m DayLoadMap) Days() []Day {
	days := make([]Day, 0, len(m))
	for d := range m {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// DayLoad is one row of a load table.
type DayLoad struct {
	Day        Day  `json:"day"`
	Minutes    int  `json:"minutes"`
	Capacity   int  `json:"capacity"`
	Overloaded bool `json:"overloaded"`
}

// Utilization is load as a fraction of capacity.
func (d DayLoad) Utilization() float64 {
	if d.Capacity <= 0 {
		return 0
	}
	return float64(d.Minutes) / float64(d.Capacity)
}
