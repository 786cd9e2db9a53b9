package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/liftpass/internal/model"
)

// inputError is a client-side mistake reported as 400 with a stable code.
type inputError struct {
	Code    string
	Message string
}

func (e *inputError) Error() string { return e.Message }

func badInput(code, format string, args ...any) error {
	return &inputError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// optionalNonNegInt parses query parameter name. An absent parameter yields nil.
func optionalNonNegInt(c echo.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, badInput("invalid_"+name, "%s must be a non-negative integer, got %q", name, raw)
	}
	return &n, nil
}

// requiredNonNegInt is optionalNonNegInt for a mandatory parameter.
func requiredNonNegInt(c echo.Context, name string) (int, error) {
	n, err := optionalNonNegInt(c, name)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, badInput(name+"_required", "%s is required", name)
	}
	return *n, nil
}

// optionalDate parses a strict YYYY-MM-DD query parameter. Absent means no
// date, not today.
func optionalDate(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return nil, badInput("invalid_"+name, "%s must be YYYY-MM-DD, got %q", name, raw)
	}
	return &d, nil
}

func requiredDate(c echo.Context, name string) (time.Time, error) {
	d, err := optionalDate(c, name)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, badInput(name+"_required", "%s is required", name)
	}
	return *d, nil
}

func requiredString(c echo.Context, name string) (string, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return "", badInput(name+"_required", "%s is required", name)
	}
	return v, nil
}

// respondError writes err as JSON. Input errors become 400; anything else is
// logged and becomes a 500 database_error.
func respondError(c echo.Context, err error) error {
	var in *inputError
	if errors.As(err, &in) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": in.Code, "message": in.Message})
	}
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("storage failure")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
}
