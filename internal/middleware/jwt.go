// Package middleware holds the echo middleware shared by the API routes.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var errNoBearer = errors.New("missing bearer token")

// JWTAuth validates a Bearer access token signed with secret and stores its
// "sub" and "role" claims in the context under "user_id" and "role".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := bearerClaims(c, secret)
			if errors.Is(err, errNoBearer) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			setIdentity(c, claims)
			return next(c)
		}
	}
}

// IdentifyBearer records the subject of a valid Bearer token, if any, and
// always continues. Mounted ahead of the rate limiter so per-user keys see the
// caller; JWTAuth still guards the admin routes.
func IdentifyBearer(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := bearerClaims(c, secret); err == nil {
				setIdentity(c, claims)
			}
			return next(c)
		}
	}
}

func bearerClaims(c echo.Context, secret string) (jwt.MapClaims, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, errNoBearer
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// only HMAC signatures are accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func setIdentity(c echo.Context, claims jwt.MapClaims) {
	c.Set("user_id", claims["sub"])
	c.Set("role", claims["role"])
}
