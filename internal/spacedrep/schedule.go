package spacedrep

// Quality bounds for a graded interval-mode response.
const (
	MinQuality = 1
	MaxQuality = 5

	// PassQuality is the lowest quality that counts as a successful recall.
	PassQuality = 3
)

// Easiness bounds.
const (
	DefaultEasiness = 2.5
	MinEasiness     = 1.4
)

// Fixed intervals for the first two successful repetitions, in days.
const (
	FirstIntervalDays  = 1
	SecondIntervalDays = 6
)
