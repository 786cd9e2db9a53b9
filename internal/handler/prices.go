// Package handler exposes the HTTP handlers for prices, holidays and admin
// login.
package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/liftpass/internal/middleware"
	"github.com/iliyamo/liftpass/internal/model"
	"github.com/iliyamo/liftpass/internal/pricing"
	"github.com/iliyamo/liftpass/internal/queue"
	"github.com/iliyamo/liftpass/internal/service"
)

const storageTimeout = 5 * time.Second

// maxBaseCost is the largest value base_price.cost (INT) can hold.
const maxBaseCost = math.MaxInt32

// PriceHandler serves GET and PUT /prices.
type PriceHandler struct {
	Engine *pricing.Engine
	Rates  pricing.RateStore
	Events service.PricePublisher
}

// NewPriceHandler panics if a dependency is nil. A nil events publisher is
// replaced by service.NopPublisher.
func NewPriceHandler(engine *pricing.Engine, rates pricing.RateStore, events service.PricePublisher) *PriceHandler {
	if engine == nil || rates == nil {
		panic("nil dependency passed to NewPriceHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &PriceHandler{Engine: engine, Rates: rates, Events: events}
}

// GetPrice handles GET /prices?type=&age=&date= and answers {"cost": n}.
func (h *PriceHandler) GetPrice(c echo.Context) error {
	passType, err := requiredString(c, "type")
	if err != nil {
		return respondError(c, err)
	}
	age, err := optionalNonNegInt(c, "age")
	if err != nil {
		return respondError(c, err)
	}
	date, err := optionalDate(c, "date")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storageTimeout)
	defer cancel()

	res, err := h.Engine.Price(ctx, model.PriceRequest{Type: passType, Age: age, Date: date})
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownPassType) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown_pass_type", "message": "no base cost for type " + passType})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// PutPrice handles PUT /prices?type=&cost=. The write is an upsert; a change
// event is published afterwards and its failure does not fail the request.
func (h *PriceHandler) PutPrice(c echo.Context) error {
	passType, err := requiredString(c, "type")
	if err != nil {
		return respondError(c, err)
	}
	cost, err := requiredNonNegInt(c, "cost")
	if err != nil {
		return respondError(c, err)
	}
	if cost > maxBaseCost {
		return respondError(c, badInput("invalid_cost", "cost must not exceed %d, got %d", maxBaseCost, cost))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storageTimeout)
	defer cancel()

	if err := h.Rates.SetBaseCost(ctx, passType, cost); err != nil {
		return respondError(c, err)
	}

	ev := queue.BasePriceChangedEvent{
		PassType:  passType,
		Cost:      cost,
		ChangedBy: middleware.CurrentUserID(c),
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Events.PublishBasePriceChanged(ctx, ev); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("type", passType).Msg("base price change event not published")
	}
	return c.NoContent(http.StatusNoContent)
}
