package spacedrep

// DayCount is an interval-mode deck's progress on one study day.
type DayCount struct {
	Day             string `json:"day"` // 2006-01-02
	NewPracticed    int    `json:"new_practiced"`
	ReviewPracticed int    `json:"review_practiced"`
}

// Progressed returns the number of items finished on this day.
func (d DayCount) Progressed() int {
	return d.NewPracticed + d.ReviewPracticed
}

// NewQuota returns how many never-seen items may be introduced today.
func NewQuota(newPerDay int, today DayCount, available int) int {
	return max(min(newPerDay-today.NewPracticed, available), 0)
}
