package deck

import "time"

// DayRollover is the local time at which a new study day starts. Sessions
// after midnight but before it still count for the previous day.
const DayRollover = 2 * time.Hour

// DayLayout formats study dates.
const DayLayout = "2006-01-02"

// StudyDate returns midnight UTC of the study day t falls on, judged in t's
// location.
func StudyDate(t time.Time) time.Time {
	s := t.Add(-DayRollover)
	return time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
}

// StudyDay returns the study day of t formatted with DayLayout.
func StudyDay(t time.Time) string {
	return StudyDate(t).Format(DayLayout)
}

// DaysToGo counts calendar days from the study day of now to the calendar
// day of due, both in now's location. It is negative once due has passed.
func DaysToGo(now, due time.Time) int {
	d := due.In(now.Location())
	dueDate := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDate.Sub(StudyDate(now)).Hours() / 24)
}
