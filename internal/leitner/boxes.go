package leitner

import (
	"math/rand/v2"
	"time"
)

// Jitter bounds the random offset added to a priority key.
const Jitter = 15 * time.Minute

// Key returns the priority key of an item reviewed at t: its Unix time plus
// a uniform offset in [-Jitter, +Jitter] seconds. Items reviewed earliest
// come first; near-ties come out in a shuffled order.
func Key(t time.Time, rng *rand.Rand) int64 {
	j := int64(Jitter / time.Second)
	return t.Unix() + rng.Int64N(2*j+1) - j
}

// Boxes is a fixed arena of per-box queues. Box 0 holds items that were
// never introduced; the last box holds graduated items.
type Boxes []*Queue

// NewBoxes returns count empty boxes.
func NewBoxes(count int) Boxes {
	b := make(Boxes, count)
	for i := range b {
		b[i] = NewQueue()
	}
	return b
}

// Counts returns the number of items in each box.
func (b Boxes) Counts() []int {
	out := make([]int, len(b))
	for i, q := range b {
		out[i] = q.Len()
	}
	return out
}

// ChooseReviewBox picks the box to draw a review from. Box i among the
// non-empty boxes 1..len-2 is chosen with weight i. The graduated last box
// joins only on the deadline day. It returns -1 when every eligible box is
// empty.
func ChooseReviewBox(b Boxes, lastDay bool, rng *rand.Rand) int {
	end := len(b) - 1
	if lastDay {
		end = len(b)
	}

	total := 0
	for i := 1; i < end; i++ {
		if b[i].Len() > 0 {
			total += i
		}
	}
	if total == 0 {
		return -1
	}

	r := rng.IntN(total)
	for i := 1; i < end; i++ {
		if b[i].Len() == 0 {
			continue
		}
		if r < i {
			return i
		}
		r -= i
	}
	return -1
}

// NextPosition returns the box an item moves to after a graded response.
func NextPosition(pos, score, boxCount int) int {
	return min(max(pos+score, 0), boxCount-1)
}
