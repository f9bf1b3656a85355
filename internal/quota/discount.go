package quota

// Discount subtracts progress that was made before the table was computed
// from days 1..len-1: doneNew new units and doneReview review units. The
// amounts are spread evenly and any rest is taken from days that still have
// capacity, so no counter goes negative. The deadline day is left alone.
// Initial values of the touched days are rewritten to match.
func Discount(t Table, doneNew, doneReview int) {
	if len(t) < 2 {
		return
	}
	days := t[1:]

	take(days, doneNew, func(r *Record) *int { return &r.NewAssigned })
	take(days, doneReview, func(r *Record) *int { return &r.ReviewAssigned })

	for i := range days {
		days[i].NewQuotaInitial = days[i].NewAssigned
		days[i].ReviewQuotaInitial = days[i].ReviewAssigned
	}
}

func take(days []Record, amount int, field func(*Record) *int) {
	for amount > 0 {
		active := 0
		for i := range days {
			if *field(&days[i]) > 0 {
				active++
			}
		}
		if active == 0 {
			return
		}

		per := max(amount/active, 1)
		for i := range days {
			v := field(&days[i])
			if *v == 0 || amount == 0 {
				continue
			}
			d := min(per, *v, amount)
			*v -= d
			amount -= d
		}
	}
}
