package quota

// Release removes the work a deleted item still owed from t and returns the
// number of units removed. An item in box position p of a deck with
// boxCount boxes owes boxCount-p units: one new unit when p is 0 and a
// review for every box it has yet to pass. Only unpracticed units on days
// 0..daysToGo are touched; earlier days are history. Initial values are
// kept so the table still shows what was first planned.
func Release(t Table, daysToGo, boxCount, position int) int {
	if daysToGo < 0 || len(t) == 0 || position < 0 || position >= boxCount {
		return 0
	}
	last := min(daysToGo, len(t)-1)
	owed := boxCount - position
	released := 0

	if position == 0 {
		for i := last; i >= 0; i-- {
			if t[i].NewLeft() > 0 {
				t[i].NewAssigned--
				released++
				break
			}
		}
		owed--
	}

	for i := 0; i <= last && owed > 0; i++ {
		d := min(t[i].ReviewLeft(), owed)
		t[i].ReviewAssigned -= d
		owed -= d
		released += d
	}
	return released
}
