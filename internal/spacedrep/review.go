package spacedrep

import "time"

// IntervalState holds the SM-2 scheduling state of one item. Dates are study
// dates: midnight UTC of the calendar day they refer to.
type IntervalState struct {
	Repetitions  int       `json:"repetitions"`
	IntervalDays int       `json:"interval_days"`
	Easiness     float64   `json:"easiness"`
	NextPractice time.Time `json:"next_practice"`
	LastReview   time.Time `json:"last_review"`
}

// NewIntervalState returns the state of an item that was never reviewed.
func NewIntervalState() IntervalState {
	return IntervalState{Easiness: DefaultEasiness}
}

// IsNew reports whether the item has never been recalled successfully.
func (s *IntervalState) IsNew() bool {
	return s.Repetitions == 0
}

// IsDue returns true if the item should be practiced on the given study date.
func (s *IntervalState) IsDue(today time.Time) bool {
	return !today.Before(s.NextPractice)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not
// yet due.
func (s *IntervalState) OverdueDays(today time.Time) int {
	if today.Before(s.NextPractice) {
		return 0
	}
	return int(today.Sub(s.NextPractice).Hours() / 24)
}

// DaysUntilReview returns the number of days until the next practice.
// Returns 0 if already due.
func (s *IntervalState) DaysUntilReview(today time.Time) int {
	if s.IsDue(today) {
		return 0
	}
	return int(s.NextPractice.Sub(today).Hours() / 24)
}

// Apply grades the item with quality on study date today and returns the
// resulting state. The receiver is left untouched.
func (s IntervalState) Apply(quality int, today, now time.Time) (IntervalState, Result, error) {
	easiness := s.Easiness
	if easiness == 0 {
		easiness = DefaultEasiness
	}
	res, err := Calculate(quality, s.Repetitions, s.IntervalDays, easiness)
	if err != nil {
		return s, Result{}, err
	}
	return IntervalState{
		Repetitions:  res.Repetitions,
		IntervalDays: res.IntervalDays,
		Easiness:     res.Easiness,
		NextPractice: today.AddDate(0, 0, res.IntervalDays),
		LastReview:   now,
	}, res, nil
}
