package quota

import (
	"errors"
	"testing"
)

func TestCompute_TenItemsFiveDaysFourBoxes(t *testing.T) {
	table, err := Compute(10, 5, 4)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(table) != 6 {
		t.Fatalf("len = %d, want 6", len(table))
	}

	wantNew := []int{0, 0, 1, 2, 3, 4}
	wantReview := []int{10, 8, 6, 4, 2, 0}
	for dtg, r := range table {
		if r.DaysToGo != dtg {
			t.Errorf("record %d has DaysToGo %d", dtg, r.DaysToGo)
		}
		if r.NewAssigned != wantNew[dtg] {
			t.Errorf("day %d NewAssigned = %d, want %d", dtg, r.NewAssigned, wantNew[dtg])
		}
		if r.ReviewAssigned != wantReview[dtg] {
			t.Errorf("day %d ReviewAssigned = %d, want %d", dtg, r.ReviewAssigned, wantReview[dtg])
		}
		if r.NewQuotaInitial != r.NewAssigned || r.ReviewQuotaInitial != r.ReviewAssigned {
			t.Errorf("day %d initial values not copied: %+v", dtg, r)
		}
		if r.NewPracticed != 0 || r.ReviewPracticed != 0 {
			t.Errorf("day %d practiced not zero: %+v", dtg, r)
		}
	}

	newTotal, reviewTotal := table.Totals()
	if newTotal != 10 {
		t.Errorf("new total = %d, want 10", newTotal)
	}
	if reviewTotal != 30 {
		t.Errorf("review total = %d, want 30", reviewTotal)
	}
}

func TestCompute_Sums(t *testing.T) {
	for _, n := range []int{1, 2, 7, 10, 33, 250} {
		for _, days := range []int{0, 1, 2, 3, 6, 15, 40, 120} {
			for _, boxes := range []int{2, 3, 4, 6, 8} {
				table, err := Compute(n, days, boxes)
				if err != nil {
					t.Fatalf("Compute(%d, %d, %d) error = %v", n, days, boxes, err)
				}
				newTotal, reviewTotal := table.Totals()
				if newTotal != n {
					t.Errorf("Compute(%d, %d, %d) new total = %d", n, days, boxes, newTotal)
				}
				if reviewTotal != n*(boxes-1) {
					t.Errorf("Compute(%d, %d, %d) review total = %d, want %d", n, days, boxes, reviewTotal, n*(boxes-1))
				}
				if days > 0 && table[0].NewAssigned != 0 {
					t.Errorf("Compute(%d, %d, %d) deadline day new = %d", n, days, boxes, table[0].NewAssigned)
				}
				if days > 0 && table[0].ReviewAssigned != n {
					t.Errorf("Compute(%d, %d, %d) deadline day review = %d, want %d", n, days, boxes, table[0].ReviewAssigned, n)
				}
			}
		}
	}
}

func TestCompute_DeadlineDay(t *testing.T) {
	table, err := Compute(12, 0, 3)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("len = %d, want 1", len(table))
	}
	if table[0].NewAssigned != 12 || table[0].ReviewAssigned != 24 {
		t.Errorf("record = %+v, want new 12 review 24", table[0])
	}
}

func TestCompute_InvalidArguments(t *testing.T) {
	tests := []struct {
		name           string
		n, days, boxes int
	}{
		{"zero items", 0, 5, 3},
		{"negative items", -1, 5, 3},
		{"one box", 10, 5, 1},
		{"negative days", 10, -1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.n, tt.days, tt.boxes)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestPlan_KeepsSumsAndSmooths(t *testing.T) {
	table, err := Plan(100, 20, 5)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	newTotal, reviewTotal := table.Totals()
	if newTotal != 100 || reviewTotal != 400 {
		t.Errorf("totals = %d/%d, want 100/400", newTotal, reviewTotal)
	}
	assertSmooth(t, table)
}

func TestValidate(t *testing.T) {
	table, _ := Compute(10, 5, 4)
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate() on fresh table = %v", err)
	}

	broken := table.Clone()
	broken[2].DaysToGo = 7
	if err := broken.Validate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("Validate() = %v, want ErrInvariant", err)
	}

	broken = table.Clone()
	broken[3].ReviewPracticed = -1
	var ie *InvariantError
	if err := broken.Validate(); !errors.As(err, &ie) || ie.DaysToGo != 3 {
		t.Errorf("Validate() = %v, want InvariantError at day 3", err)
	}
}
