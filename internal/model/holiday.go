package model

import "time"

// Holiday mirrors a row of the `holidays` table. Only the calendar day of Date
// is meaningful.
type Holiday struct {
	Date        time.Time // holidays.holiday
	Description string    // holidays.description
}

// Key returns the YYYY-MM-DD form of the holiday date.
func (h Holiday) Key() string {
	return h.Date.Format(DateLayout)
}
