package quota

import "testing"

func TestRelease(t *testing.T) {
	tests := []struct {
		name         string
		daysToGo     int
		position     int
		wantReleased int
	}{
		{"new item owes every box", 5, 0, 4},
		{"reviewed item owes the boxes left", 5, 2, 2},
		{"last box owes one review", 5, 3, 1},
		{"past the deadline", -1, 0, 0},
		{"position out of range", 5, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Compute(10, 5, 4)
			if err != nil {
				t.Fatal(err)
			}
			beforeNew, beforeReview := table.Totals()

			got := Release(table, tt.daysToGo, 4, tt.position)

			if got != tt.wantReleased {
				t.Errorf("released = %d, want %d", got, tt.wantReleased)
			}
			afterNew, afterReview := table.Totals()
			if removed := beforeNew + beforeReview - afterNew - afterReview; removed != got {
				t.Errorf("table sums dropped by %d, released %d", removed, got)
			}
			if tt.position == 0 && got > 0 && afterNew != beforeNew-1 {
				t.Errorf("new total = %d, want %d", afterNew, beforeNew-1)
			}
			if err := table.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRelease_KeepsPracticedWork(t *testing.T) {
	table := Table{
		{DaysToGo: 0, ReviewAssigned: 1, ReviewQuotaInitial: 1},
		{DaysToGo: 1, NewAssigned: 2, ReviewAssigned: 3, NewQuotaInitial: 2, ReviewQuotaInitial: 3, NewPracticed: 2, ReviewPracticed: 2},
		{DaysToGo: 2, NewAssigned: 1, ReviewAssigned: 5, NewPracticed: 1, ReviewPracticed: 5},
	}

	got := Release(table, 1, 4, 0)

	// Today's new units are all practiced, so only the reviews left on
	// day 0 and today are released.
	if got != 2 {
		t.Errorf("released = %d, want 2", got)
	}
	for _, r := range table {
		if r.NewAssigned < r.NewPracticed || r.ReviewAssigned < r.ReviewPracticed {
			t.Errorf("day %d dropped below practiced: %+v", r.DaysToGo, r)
		}
	}
	if table[1].ReviewLeft() != 0 || table[0].ReviewAssigned != 0 {
		t.Errorf("table = %+v", table)
	}
	if table[1].NewQuotaInitial != 2 || table[1].ReviewQuotaInitial != 3 {
		t.Errorf("initial values changed: %+v", table[1])
	}
	if table[2] != (Record{DaysToGo: 2, NewAssigned: 1, ReviewAssigned: 5, NewPracticed: 1, ReviewPracticed: 5}) {
		t.Errorf("history changed: %+v", table[2])
	}
}
