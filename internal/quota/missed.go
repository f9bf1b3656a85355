package quota

// HandleMissedDays rolls unmet work from elapsed days forward onto the days
// that are left. Every record farther out than daysToGo is clamped to what
// was actually practiced; the backlog is spread evenly over days
// 1..daysToGo, with the review remainder on day 1 and the new remainder on
// today. On the deadline day the whole backlog lands on today. The touched
// range is redistributed afterwards.
//
// The call is idempotent: once past days are clamped a second call finds no
// backlog. It reports whether the table changed.
func HandleMissedDays(t Table, daysToGo int) bool {
	daysToGo = max(daysToGo, 0)
	if daysToGo+1 >= len(t) {
		return false
	}

	missedNew, missedReview := 0, 0
	for i := daysToGo + 1; i < len(t); i++ {
		r := &t[i]
		if left := r.NewLeft(); left > 0 {
			missedNew += left
			r.NewAssigned = r.NewPracticed
		}
		if left := r.ReviewLeft(); left > 0 {
			missedReview += left
			r.ReviewAssigned = r.ReviewPracticed
		}
	}
	if missedNew == 0 && missedReview == 0 {
		return false
	}

	if daysToGo == 0 {
		t[0].NewAssigned += missedNew
		t[0].ReviewAssigned += missedReview
		return true
	}

	perNew, perReview := missedNew/daysToGo, missedReview/daysToGo
	for dtg := 1; dtg <= daysToGo; dtg++ {
		t[dtg].NewAssigned += perNew
		t[dtg].ReviewAssigned += perReview
	}
	t[1].ReviewAssigned += missedReview - perReview*daysToGo
	t[daysToGo].NewAssigned += missedNew - perNew*daysToGo

	Redistribute(t[:daysToGo+1])
	return true
}
