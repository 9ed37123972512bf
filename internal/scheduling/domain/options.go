package domain

import (
	"errors"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/productivity/domain/value_objects"
)

const (
	DefaultWeeklyCapacityMinutes = 600
	DefaultHorizonDays           = 14

	// HighPriorityWeight is the weight at which a task is pulled toward the earliest days.
	HighPriorityWeight = 3.0

	// SoftCeilingRatio is the overflow a day may take during primary placement.
	SoftCeilingRatio = 1.10
)

var ErrInvalidCapacity = errors.New("daily capacity must be positive")

// PriorityWeights maps a priority to its placement weight.
type PriorityWeights map[value_objects.Priority]float64

// DefaultPriorityWeights returns high=3, medium=2, low=1.
func DefaultPriorityWeights() PriorityWeights {
	return PriorityWeights{
		value_objects.PriorityHigh:   3.0,
		value_objects.PriorityMedium: 2.0,
		value_objects.PriorityLow:    1.0,
	}
}

// Weight returns the configured weight, falling back to the priority rank.
func (w PriorityWeights) Weight(p value_objects.Priority) float64 {
	if v, ok := w[p]; ok {
		return v
	}
	return float64(p.Rank())
}

// AutoPlanOptions configures one planning run. Build it with NewAutoPlanOptions
// so the derived fields are consistent.
type AutoPlanOptions struct {
	WeekStart             Day
	WeeklyCapacityMinutes int
	DailyCapacityMinutes  int
	WorkdaysInWeek        int
	Workdays              WorkdaySet
	AllowWeekends         bool
	PriorityWeights       PriorityWeights
	HorizonDays           int
	PreferPriority        bool
	Location              *time.Location
}

// AutoPlanOption customizes NewAutoPlanOptions.
type AutoPlanOption func(*optionSettings)

type optionSettings struct {
	opts           AutoPlanOptions
	weekStartSet   bool
	dailyCapacity  *int
	workdaysInWeek *int
}

func WithWeekStart(d Day) AutoPlanOption {
	return func(s *optionSettings) {
		s.opts.WeekStart = d
		s.weekStartSet = true
	}
}

func WithWeeklyCapacity(minutes int) AutoPlanOption {
	return func(s *optionSettings) { s.opts.WeeklyCapacityMinutes = minutes }
}

// WithDailyCapacity sets the daily capacity instead of deriving it from the weekly one.
func WithDailyCapacity(minutes int) AutoPlanOption {
	return func(s *optionSettings) { s.dailyCapacity = &minutes }
}

// WithWorkdaysInWeek overrides the divisor used to derive daily capacity.
func WithWorkdaysInWeek(n int) AutoPlanOption {
	return func(s *optionSettings) { s.workdaysInWeek = &n }
}

func WithWorkdays(days WorkdaySet) AutoPlanOption {
	return func(s *optionSettings) { s.opts.Workdays = days }
}

func WithWeekends(allow bool) AutoPlanOption {
	return func(s *optionSettings) { s.opts.AllowWeekends = allow }
}

func WithPriorityWeights(w PriorityWeights) AutoPlanOption {
	return func(s *optionSettings) { s.opts.PriorityWeights = w }
}

func WithHorizonDays(days int) AutoPlanOption {
	return func(s *optionSettings) { s.opts.HorizonDays = days }
}

func WithPreferPriority(prefer bool) AutoPlanOption {
	return func(s *optionSettings) { s.opts.PreferPriority = prefer }
}

func WithLocation(loc *time.Location) AutoPlanOption {
	return func(s *optionSettings) { s.opts.Location = loc }
}

// NewAutoPlanOptions builds options anchored at now. Unless overridden the
// week starts on the Monday of now's week, weekly capacity is 600 minutes
// spread over Monday to Friday, and the horizon is 14 days.
func NewAutoPlanOptions(now time.Time, options ...AutoPlanOption) (AutoPlanOptions, error) {
	s := optionSettings{
		opts: AutoPlanOptions{
			WeeklyCapacityMinutes: DefaultWeeklyCapacityMinutes,
			Workdays:              DefaultWorkdays,
			PriorityWeights:       DefaultPriorityWeights(),
			HorizonDays:           DefaultHorizonDays,
			PreferPriority:        true,
			Location:              time.Local,
		},
	}
	for _, opt := range options {
		opt(&s)
	}

	o := s.opts
	if o.Location == nil {
		o.Location = time.Local
	}
	if !s.weekStartSet {
		o.WeekStart = DayOf(now, o.Location).WeekStart()
	}
	if o.HorizonDays < 1 {
		o.HorizonDays = 1
	}
	if o.PriorityWeights == nil {
		o.PriorityWeights = DefaultPriorityWeights()
	}

	o.WorkdaysInWeek = o.Workdays.Len()
	if s.workdaysInWeek != nil {
		o.WorkdaysInWeek = *s.workdaysInWeek
	}
	o.WorkdaysInWeek = min(max(o.WorkdaysInWeek, 1), 7)

	if s.dailyCapacity != nil {
		o.DailyCapacityMinutes = *s.dailyCapacity
	} else {
		o.DailyCapacityMinutes = o.WeeklyCapacityMinutes / o.WorkdaysInWeek
	}
	if o.DailyCapacityMinutes <= 0 {
		return AutoPlanOptions{}, ErrInvalidCapacity
	}
	return o, nil
}

// SoftCeiling is the load a day of the given capacity may reach during
// primary placement.
func SoftCeiling(dailyCapacity int) float64 {
	return float64(dailyCapacity) * SoftCeilingRatio
}

// Today returns the date of now in the planning location.
func (o AutoPlanOptions) Today(now time.Time) Day {
	return DayOf(now, o.Location)
}
