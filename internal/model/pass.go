package model

import "time"

// Well-known pass types. The set is open: any other type is priced with the
// day rules as long as a base cost exists for it.
const (
	DayPass   = "1jour"
	NightPass = "night"
)

// DateLayout is the only accepted calendar date format on the wire.
const DateLayout = "2006-01-02"

// PriceRequest is the input of a price computation. Age and Date are nil when
// the caller did not supply them.
type PriceRequest struct {
	Type string
	Age  *int
	Date *time.Time
}

// PriceResult is the computed price, serialized as {"cost": n}.
type PriceResult struct {
	Cost int `json:"cost"`
}
