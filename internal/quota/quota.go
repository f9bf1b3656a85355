// Package quota plans and maintains the day-by-day workload of a box-mode
// deck: how many new items to introduce and how many reviews to run on each
// day left before the deadline.
package quota

import "fmt"

// Record holds one day's targets and progress. Assigned values are the
// day's totals; what remains due is Assigned minus Practiced.
type Record struct {
	DaysToGo           int `json:"days_to_go"`
	NewAssigned        int `json:"new_assigned"`
	ReviewAssigned     int `json:"review_assigned"`
	NewQuotaInitial    int `json:"new_quota_initial"`
	ReviewQuotaInitial int `json:"review_quota_initial"`
	NewPracticed       int `json:"new_practiced"`
	ReviewPracticed    int `json:"review_practiced"`
}

// NewLeft returns how many new items are still due on this day.
func (r Record) NewLeft() int {
	return max(r.NewAssigned-r.NewPracticed, 0)
}

// ReviewLeft returns how many reviews are still due on this day.
func (r Record) ReviewLeft() int {
	return max(r.ReviewAssigned-r.ReviewPracticed, 0)
}

// Cost is the synthetic study cost used for load balancing. A new item
// weighs twice as much as a review.
func (r Record) Cost() int {
	return 2*r.NewAssigned + r.ReviewAssigned
}

// Table is a deck's quota table indexed by days-to-go: t[i].DaysToGo == i.
// Index 0 is the deadline day.
type Table []Record

// Day returns the record for daysToGo. The second result is false when the
// table has no such day, which callers treat as a zero quota.
func (t Table) Day(daysToGo int) (Record, bool) {
	if daysToGo < 0 || daysToGo >= len(t) {
		return Record{}, false
	}
	return t[daysToGo], true
}

// Totals returns the summed assigned new and review units.
func (t Table) Totals() (newTotal, reviewTotal int) {
	for _, r := range t {
		newTotal += r.NewAssigned
		reviewTotal += r.ReviewAssigned
	}
	return newTotal, reviewTotal
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Validate checks the structural invariants of a persisted table: records
// are contiguous by days-to-go and no counter is negative.
func (t Table) Validate() error {
	for i, r := range t {
		if r.DaysToGo != i {
			return &InvariantError{DaysToGo: r.DaysToGo, Reason: fmt.Sprintf("record at position %d", i)}
		}
		if r.NewAssigned < 0 || r.ReviewAssigned < 0 || r.NewPracticed < 0 || r.ReviewPracticed < 0 ||
			r.NewQuotaInitial < 0 || r.ReviewQuotaInitial < 0 {
			return &InvariantError{DaysToGo: i, Reason: "negative counter"}
		}
	}
	return nil
}
