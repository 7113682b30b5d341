package form

import "time"

// EditWindow is how long after completion a submission stays editable.
const EditWindow = 24 * time.Hour

// CanEdit reports whether a submission completed at completedAt may
// still be amended at now. The window is strict: at exactly 24 hours
// editing is already closed.
func CanEdit(completedAt, now time.Time) bool {
	return now.Sub(completedAt) < EditWindow
}
