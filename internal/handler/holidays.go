package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/liftpass/internal/model"
	"github.com/iliyamo/liftpass/internal/pricing"
)

// HolidayHandler maintains the holiday calendar.
type HolidayHandler struct {
	Calendar pricing.Calendar
}

func NewHolidayHandler(cal pricing.Calendar) *HolidayHandler {
	if cal == nil {
		panic("nil calendar passed to NewHolidayHandler")
	}
	return &HolidayHandler{Calendar: cal}
}

type holidayResp struct {
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

// ListHolidays handles GET /holidays.
func (h *HolidayHandler) ListHolidays(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageTimeout)
	defer cancel()

	list, err := h.Calendar.ListHolidays(ctx)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]holidayResp, 0, len(list))
	for _, hd := range list {
		items = append(items, holidayResp{Date: hd.Key(), Description: hd.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PutHoliday handles PUT /holidays?date=&description=.
func (h *HolidayHandler) PutHoliday(c echo.Context) error {
	date, err := requiredDate(c, "date")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageTimeout)
	defer cancel()

	hd := model.Holiday{Date: date, Description: strings.TrimSpace(c.QueryParam("description"))}
	if err := h.Calendar.AddHoliday(ctx, hd); err != nil {
		if errors.Is(err, pricing.ErrHolidayExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "holiday_exists"})
		}
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteHoliday handles DELETE /holidays?date=.
func (h *HolidayHandler) DeleteHoliday(c echo.Context) error {
	date, err := requiredDate(c, "date")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageTimeout)
	defer cancel()

	if err := h.Calendar.RemoveHoliday(ctx, date); err != nil {
		if errors.Is(err, pricing.ErrHolidayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "holiday_not_found"})
		}
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
