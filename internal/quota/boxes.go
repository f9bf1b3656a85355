package quota

import "fmt"

// boxBins maps ranges of days-to-go to box counts. Bin i holds 2+i boxes.
var boxBins = [][2]int{
	{0, 1}, {2, 6}, {7, 15}, {16, 32}, {33, 65}, {66, 130}, {131, 259},
}

// MinBoxes is the smallest box count a box-mode deck can have.
const MinBoxes = 2

// NumBoxes returns the box count for a deck whose deadline is daysToGo days
// away. Longer horizons get more boxes.
func NumBoxes(daysToGo int) (int, error) {
	daysToGo = max(daysToGo, 0)
	for i, bin := range boxBins {
		if bin[0] <= daysToGo && daysToGo <= bin[1] {
			return MinBoxes + i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d days", ErrDeadlineTooFar, daysToGo)
}

// ResetBoxes returns the box count of a deck after its deadline is reset.
// resets is the deadline's reset count including this reset. Intensity 0
// keeps the current boxes so only unfinished work is carried forward.
func ResetBoxes(current, daysToGo, intensity, resets int) (int, error) {
	if intensity == 0 {
		return current, nil
	}
	base, err := NumBoxes(daysToGo)
	if err != nil {
		return 0, err
	}
	return current + max(base-resets-intensity-2, 2), nil
}
