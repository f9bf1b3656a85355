package leitner

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/mio/internal/deck"
)

func item(id int64) *deck.Item {
	it := deck.NewItem(deck.ModeBox, "f", "b")
	it.ID = id
	return &it
}

func TestQueue_PopsByKeyThenID(t *testing.T) {
	q := NewQueue()
	q.Push(item(3), 50)
	q.Push(item(1), 10)
	q.Push(item(2), 50)
	q.Push(item(4), -5)

	var got []int64
	for q.Len() > 0 {
		it, _, _ := q.Pop()
		got = append(got, it.ID)
	}
	want := []int64{4, 1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
	if _, _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue returned an item")
	}
}

func TestQueue_RemoveAndRekey(t *testing.T) {
	q := NewQueue()
	for id := int64(1); id <= 5; id++ {
		q.Push(item(id), id*10)
	}

	it, key, ok := q.Remove(3)
	if !ok || it.ID != 3 || key != 30 {
		t.Fatalf("Remove(3) = %v %d %v", it, key, ok)
	}
	if q.Contains(3) {
		t.Error("item 3 still queued")
	}
	if _, _, ok := q.Remove(3); ok {
		t.Error("second Remove(3) succeeded")
	}

	q.Push(item(5), 1)
	if q.Len() != 4 {
		t.Errorf("Len() = %d after re-key, want 4", q.Len())
	}
	first, _, _ := q.Pop()
	if first.ID != 5 {
		t.Errorf("first = %d, want re-keyed item 5", first.ID)
	}
}

func TestQueue_Lowest(t *testing.T) {
	q := NewQueue()
	q.Push(item(1), 40)
	q.Push(item(2), 10)
	q.Push(item(3), 30)
	q.Push(item(4), 20)

	got := q.Lowest(2)
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("Lowest(2) = %v, want [2 4]", got)
	}
	if got := q.Lowest(10); len(got) != 4 {
		t.Errorf("Lowest(10) returned %d ids", len(got))
	}
	if got := q.Lowest(-1); len(got) != 0 {
		t.Errorf("Lowest(-1) = %v", got)
	}
	if q.Len() != 4 {
		t.Error("Lowest changed the queue")
	}
}

func TestKey_WithinJitter(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	at := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	for range 1000 {
		k := Key(at, rng)
		if d := k - at.Unix(); d < -900 || d > 900 {
			t.Fatalf("key offset %d outside ±900s", d)
		}
	}
}

func TestChooseReviewBox_Weights(t *testing.T) {
	b := NewBoxes(5)
	b[1].Push(item(1), 0)
	b[3].Push(item(2), 0)
	b[4].Push(item(3), 0)

	rng := rand.New(rand.NewPCG(7, 7))
	counts := map[int]int{}
	const draws = 40000
	for range draws {
		counts[ChooseReviewBox(b, false, rng)]++
	}

	if counts[4] != 0 {
		t.Errorf("graduated box chosen %d times before the deadline day", counts[4])
	}
	if counts[0] != 0 || counts[2] != 0 {
		t.Errorf("empty or new box chosen: %v", counts)
	}
	// Weights 1 and 3.
	ratio := float64(counts[3]) / float64(counts[1])
	if ratio < 2.7 || ratio > 3.3 {
		t.Errorf("box3/box1 ratio = %.2f, want about 3", ratio)
	}
}

func TestChooseReviewBox_LastDayIncludesGraduated(t *testing.T) {
	b := NewBoxes(3)
	b[2].Push(item(1), 0)
	rng := rand.New(rand.NewPCG(1, 1))

	if got := ChooseReviewBox(b, false, rng); got != -1 {
		t.Errorf("ChooseReviewBox() = %d, want -1", got)
	}
	if got := ChooseReviewBox(b, true, rng); got != 2 {
		t.Errorf("ChooseReviewBox(lastDay) = %d, want 2", got)
	}
}

func TestChooseReviewBox_NoReviewableItems(t *testing.T) {
	b := NewBoxes(4)
	b[0].Push(item(1), 0)
	if got := ChooseReviewBox(b, true, rand.New(rand.NewPCG(1, 1))); got != -1 {
		t.Errorf("ChooseReviewBox() = %d, want -1", got)
	}
}

func TestNextPosition(t *testing.T) {
	tests := []struct {
		pos, score, boxes, want int
	}{
		{0, 1, 3, 1},
		{1, 1, 3, 2},
		{2, 1, 3, 2},
		{1, -1, 3, 0},
		{0, -1, 3, 0},
		{2, 0, 3, 2},
	}
	for _, tt := range tests {
		if got := NextPosition(tt.pos, tt.score, tt.boxes); got != tt.want {
			t.Errorf("NextPosition(%d, %d, %d) = %d, want %d", tt.pos, tt.score, tt.boxes, got, tt.want)
		}
	}
}

func TestBoxes_Counts(t *testing.T) {
	b := NewBoxes(3)
	b[0].Push(item(1), 0)
	b[2].Push(item(2), 0)
	b[2].Push(item(3), 5)
	b[2].Push(item(3), 7)

	if got := b.Counts(); !slices.Equal(got, []int{1, 0, 2}) {
		t.Errorf("Counts() = %v, want [1 0 2]; a re-pushed id counts once", got)
	}
}
