package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger attaches a request-scoped logger to the request context, then
// logs method, path, status and latency once the handler returns.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			ev := reqLogger.Info()
			if status := c.Response().Status; status >= 500 {
				ev = reqLogger.Error().Err(err)
			}
			ev.Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
