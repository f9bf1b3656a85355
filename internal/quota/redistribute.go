package quota

// overloadMargin is how far above the mean a day's cost may sit before
// Redistribute moves work off it.
const overloadMargin = 4

// Redistribute smooths study cost across every day except the deadline day,
// which keeps its fixed obligation. Days are visited from the farthest to
// the nearest; an overloaded day hands one new unit and then up to two review
// units, one at a time, to the currently cheapest day. Only units that have
// not been practiced yet are moved, and a unit moves only when that lowers
// the spread, so the loop always terminates. Assigned sums are preserved.
//
// It returns the number of units moved.
func Redistribute(t Table) int {
	if len(t) < 2 {
		return 0
	}
	days := t[1:]

	costs := make([]int, len(days))
	total := 0
	for i, r := range days {
		costs[i] = r.Cost()
		total += costs[i]
	}
	avg := total / len(days)

	moved := 0
	for {
		pass := 0
		for i := len(days) - 1; i >= 0; i-- {
			if costs[i]-avg < overloadMargin {
				continue
			}

			if j := cheapest(costs); costs[i]-costs[j] > 2 && days[i].NewLeft() > 0 {
				days[i].NewAssigned--
				days[j].NewAssigned++
				costs[i] -= 2
				costs[j] += 2
				pass++
			}

			for range 2 {
				j := cheapest(costs)
				if costs[i]-costs[j] <= 1 || days[i].ReviewLeft() == 0 {
					break
				}
				days[i].ReviewAssigned--
				days[j].ReviewAssigned++
				costs[i]--
				costs[j]++
				pass++
			}
		}
		if pass == 0 {
			return moved
		}
		moved += pass
	}
}

// cheapest returns the index of the minimum cost, scanning from the farthest
// day so ties resolve in visiting order.
func cheapest(costs []int) int {
	best := len(costs) - 1
	for i := len(costs) - 2; i >= 0; i-- {
		if costs[i] < costs[best] {
			best = i
		}
	}
	return best
}
