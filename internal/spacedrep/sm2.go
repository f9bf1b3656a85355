package spacedrep

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidQuality is returned for a quality outside [MinQuality, MaxQuality].
var ErrInvalidQuality = errors.New("spacedrep: invalid quality")

// Result is the outcome of one SM-2 step.
type Result struct {
	IntervalDays int
	Repetitions  int
	Easiness     float64
}

// Calculate applies one SM-2 step.
//
// A pass (quality >= 3) grows the interval (1 day, then 6 days, then the
// previous interval times easiness) and adjusts easiness by quality.
// Quality 1 repeats the item immediately and quality 2 shows it again
// tomorrow; neither counts as a repetition. Easiness never drops below 1.4.
func Calculate(quality, repetitions, prevInterval int, prevEasiness float64) (Result, error) {
	if quality < MinQuality || quality > MaxQuality {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}

	res := Result{Repetitions: repetitions, Easiness: prevEasiness}
	switch {
	case quality >= PassQuality:
		switch repetitions {
		case 0:
			res.IntervalDays = FirstIntervalDays
		case 1:
			res.IntervalDays = SecondIntervalDays
		default:
			res.IntervalDays = int(math.Round(float64(prevInterval) * prevEasiness))
		}
		res.Repetitions++
		miss := float64(MaxQuality - quality)
		res.Easiness = prevEasiness + 0.1 - miss*(0.08+miss*0.02)
	case quality == MinQuality:
		res.IntervalDays = 0
	default:
		res.IntervalDays = 1
	}

	res.Easiness = max(res.Easiness, MinEasiness)
	return res, nil
}
