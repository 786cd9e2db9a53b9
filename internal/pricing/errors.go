package pricing

import "errors"

// ErrUnknownPassType is returned by a rate lookup when no base cost is stored
// for the requested pass type. It is never turned into a zero price.
var ErrUnknownPassType = errors.New("unknown pass type")

// ErrHolidayNotFound is returned when removing a date that is not a holiday.
var ErrHolidayNotFound = errors.New("holiday not found")

// ErrHolidayExists is returned when adding a date that is already a holiday.
var ErrHolidayExists = errors.New("holiday already exists")
