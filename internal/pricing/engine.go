// Package pricing computes lift pass prices from a base cost table and a
// holiday calendar.
package pricing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/liftpass/internal/model"
)

// Engine prices requests against an injected rate lookup.
type Engine struct {
	rates Rates
}

// NewEngine panics on a nil lookup, like the handler constructors do.
func NewEngine(rates Rates) *Engine {
	if rates == nil {
		panic("nil rates passed to NewEngine")
	}
	return &Engine{rates: rates}
}

// Price loads the base cost for req.Type, checks the holiday calendar when a
// day pass is requested for a date, and evaluates Rules. Lookup failures are
// returned as-is so callers can match ErrUnknownPassType.
func (e *Engine) Price(ctx context.Context, req model.PriceRequest) (model.PriceResult, error) {
	base, err := e.rates.BaseCost(ctx, req.Type)
	if err != nil {
		return model.PriceResult{}, err
	}
	f := Facts{Type: req.Type, Age: req.Age, Date: req.Date, BaseCost: base}

	if needsHolidayCheck(f) {
		holiday, err := e.rates.IsHoliday(ctx, *req.Date)
		if err != nil {
			return model.PriceResult{}, fmt.Errorf("holiday lookup: %w", err)
		}
		f.Holiday = holiday
	}

	cost, rule := Evaluate(f)
	zerolog.Ctx(ctx).Debug().
		Str("type", req.Type).
		Int("base_cost", base).
		Bool("holiday", f.Holiday).
		Str("rule", rule).
		Int("cost", cost).
		Msg("priced lift pass")
	return model.PriceResult{Cost: cost}, nil
}

// needsHolidayCheck is true for day passes with a date, unless the rider is
// already free.
func needsHolidayCheck(f Facts) bool {
	return f.Date != nil && !f.night() && !f.ageUnder(freeUnderAge)
}
