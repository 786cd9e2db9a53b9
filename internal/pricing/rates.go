package pricing

import (
	"context"
	"time"

	"github.com/iliyamo/liftpass/internal/model"
)

// Rates is the read side of the rate lookup used by the Engine.
type Rates interface {
	BaseCost(ctx context.Context, passType string) (int, error)
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

// RateStore adds the administrator write path to Rates. SetBaseCost is an
// upsert and must be atomic with respect to concurrent BaseCost calls.
type RateStore interface {
	Rates
	SetBaseCost(ctx context.Context, passType string, cost int) error
}

// Calendar manages the holiday set.
type Calendar interface {
	AddHoliday(ctx context.Context, h model.Holiday) error
	RemoveHoliday(ctx context.Context, date time.Time) error
	ListHolidays(ctx context.Context) ([]model.Holiday, error)
}

// Store is everything the HTTP layer needs from storage.
type Store interface {
	RateStore
	Calendar
}
