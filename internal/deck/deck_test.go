package deck

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/mio/internal/spacedrep"
)

func TestDaysToGo(t *testing.T) {
	loc := time.FixedZone("test", 5*3600)
	tests := []struct {
		name     string
		now, due time.Time
		want     int
	}{
		{"same day", time.Date(2025, 5, 1, 10, 0, 0, 0, loc), time.Date(2025, 5, 1, 18, 0, 0, 0, loc), 0},
		{"next day", time.Date(2025, 5, 1, 23, 0, 0, 0, loc), time.Date(2025, 5, 2, 9, 0, 0, 0, loc), 1},
		{"before rollover", time.Date(2025, 5, 2, 1, 30, 0, 0, loc), time.Date(2025, 5, 2, 9, 0, 0, 0, loc), 1},
		{"after rollover", time.Date(2025, 5, 2, 2, 30, 0, 0, loc), time.Date(2025, 5, 2, 9, 0, 0, 0, loc), 0},
		{"month boundary", time.Date(2025, 4, 28, 12, 0, 0, 0, loc), time.Date(2025, 5, 3, 12, 0, 0, 0, loc), 5},
		{"passed", time.Date(2025, 5, 4, 12, 0, 0, 0, loc), time.Date(2025, 5, 3, 12, 0, 0, 0, loc), -1},
		{"due in another zone", time.Date(2025, 5, 1, 12, 0, 0, 0, loc), time.Date(2025, 5, 3, 20, 0, 0, 0, time.UTC), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysToGo(tt.now, tt.due); got != tt.want {
				t.Errorf("DaysToGo() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStudyDay(t *testing.T) {
	if got := StudyDay(time.Date(2025, 5, 2, 1, 0, 0, 0, time.UTC)); got != "2025-05-01" {
		t.Errorf("StudyDay() = %q, want 2025-05-01", got)
	}
	if got := StudyDay(time.Date(2025, 5, 2, 3, 0, 0, 0, time.UTC)); got != "2025-05-02" {
		t.Errorf("StudyDay() = %q, want 2025-05-02", got)
	}
}

func TestItemCheck(t *testing.T) {
	box := NewItem(ModeBox, "a", "b")
	if err := box.Check(ModeBox, 3); err != nil {
		t.Errorf("Check() on fresh box item = %v", err)
	}
	if err := box.Check(ModeInterval, 0); !errors.Is(err, ErrMixedState) {
		t.Errorf("Check() wrong mode = %v, want ErrMixedState", err)
	}

	box.Box.Position = 3
	if err := box.Check(ModeBox, 3); err == nil {
		t.Error("Check() accepted a box position out of range")
	}

	both := NewItem(ModeInterval, "a", "b")
	both.Box = &BoxState{}
	if err := both.Check(ModeInterval, 0); !errors.Is(err, ErrMixedState) {
		t.Errorf("Check() with both states = %v, want ErrMixedState", err)
	}

	iv := NewItem(ModeInterval, "a", "b")
	if iv.Interval.Easiness != spacedrep.DefaultEasiness {
		t.Errorf("easiness = %f, want default", iv.Interval.Easiness)
	}
	if err := iv.Check(ModeInterval, 0); err != nil {
		t.Errorf("Check() on fresh interval item = %v", err)
	}
}

func TestItemClone(t *testing.T) {
	it := NewItem(ModeBox, "a", "b")
	c := it.Clone()
	c.Box.Position = 2
	if it.Box.Position != 0 {
		t.Error("Clone shares box state")
	}
}
