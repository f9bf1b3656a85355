package quota

import "fmt"

// Compute builds the canonical quota table for n items, daysToGo days and
// the given number of boxes.
//
// New items are front-loaded: the day daysToGo away gets weight daysToGo-1
// and the day before the deadline gets weight 0. Reviews are back-loaded
// with the mirrored weights. Rounding remainders go to the farthest day for
// new items and to the day before the deadline for reviews. The deadline day
// itself reviews every item once. A deck created on its deadline day does
// everything in a single record.
func Compute(n, daysToGo, boxes int) (Table, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: item count %d must be positive", ErrInvalidArgument, n)
	}
	if boxes < 2 {
		return nil, fmt.Errorf("%w: box count %d must be at least 2", ErrInvalidArgument, boxes)
	}
	if daysToGo < 0 {
		return nil, fmt.Errorf("%w: days to go %d must not be negative", ErrInvalidArgument, daysToGo)
	}

	t := make(Table, daysToGo+1)
	for i := range t {
		t[i].DaysToGo = i
	}

	if daysToGo == 0 {
		t[0].NewAssigned = n
		t[0].ReviewAssigned = n * (boxes - 1)
	} else {
		weights := daysToGo * (daysToGo - 1) / 2
		if weights == 0 {
			weights = 1
		}

		newSum, reviewSum := 0, 0
		for dtg := 1; dtg <= daysToGo; dtg++ {
			t[dtg].NewAssigned = (dtg - 1) * n / weights
			t[dtg].ReviewAssigned = (daysToGo - dtg) * n * (boxes - 2) / weights
			newSum += t[dtg].NewAssigned
			reviewSum += t[dtg].ReviewAssigned
		}
		t[daysToGo].NewAssigned += n - newSum
		t[1].ReviewAssigned += n*(boxes-2) - reviewSum

		t[0].ReviewAssigned = n
	}

	for i := range t {
		t[i].NewQuotaInitial = t[i].NewAssigned
		t[i].ReviewQuotaInitial = t[i].ReviewAssigned
	}

	if err := checkSums(t, n, boxes); err != nil {
		return nil, err
	}
	return t, nil
}

// Plan computes a table and smooths it. This is what a new deck gets.
func Plan(n, daysToGo, boxes int) (Table, error) {
	t, err := Compute(n, daysToGo, boxes)
	if err != nil {
		return nil, err
	}
	Redistribute(t)
	return t, nil
}

func checkSums(t Table, n, boxes int) error {
	newTotal, reviewTotal := t.Totals()
	if newTotal != n {
		return &InvariantError{Reason: fmt.Sprintf("new total %d, want %d", newTotal, n)}
	}
	if reviewTotal != n*(boxes-1) {
		return &InvariantError{Reason: fmt.Sprintf("review total %d, want %d", reviewTotal, n*(boxes-1))}
	}
	if len(t) > 1 && t[0].NewAssigned != 0 {
		return &InvariantError{Reason: "deadline day introduces new items"}
	}
	for _, r := range t {
		if r.NewAssigned < 0 || r.ReviewAssigned < 0 {
			return &InvariantError{DaysToGo: r.DaysToGo, Reason: "negative assignment"}
		}
	}
	return nil
}
