package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/liftpass/internal/config"
	"github.com/iliyamo/liftpass/internal/handler"
	"github.com/iliyamo/liftpass/internal/pricing"
)

func newHandlers(t *testing.T, withAuth bool) (Handlers, string) {
	t.Helper()
	store := pricing.NewMemoryStore()
	h := Handlers{
		Prices:   handler.NewPriceHandler(pricing.NewEngine(store), store, nil),
		Holidays: handler.NewHolidayHandler(store),
	}
	if !withAuth {
		return h, ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("poudreuse"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.AuthConfig{JWTSecret: "s3cret", AdminUser: "admin", AdminPasswordHash: string(hash), AccessTTLMin: 5}
	h.Auth = handler.NewAuthHandler(cfg)
	return h, cfg.JWTSecret
}

func serve(e *echo.Echo, method, target, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterRoutes_Open(t *testing.T) {
	h, secret := newHandlers(t, false)
	e := echo.New()
	RegisterRoutes(e, h, secret)

	assert.Equal(t, "ok", serve(e, http.MethodGet, "/healthz", "", "").Body.String())
	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodPut, "/prices?type=1jour&cost=35", "", "").Code)

	rec := serve(e, http.MethodGet, "/prices?type=1jour&age=65&date=2019-03-11", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cost":18}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(e, http.MethodPost, "/auth/login", "", `{}`).Code)
}

func TestRegisterRoutes_AdminProtected(t *testing.T) {
	h, secret := newHandlers(t, true)
	e := echo.New()
	RegisterRoutes(e, h, secret)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodPut, "/prices?type=night&cost=19", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodPut, "/holidays?date=2019-02-18", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodDelete, "/holidays?date=2019-02-18", "", "").Code)

	rec := serve(e, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"poudreuse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	token := login.Token

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodPut, "/prices?type=night&cost=19", token, "").Code)
	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodPut, "/holidays?date=2019-02-18", token, "").Code)

	// reads stay public
	rec = serve(e, http.MethodGet, "/prices?type=night&age=65", "", "")
	assert.JSONEq(t, `{"cost":8}`, rec.Body.String())
	rec = serve(e, http.MethodGet, "/holidays", "", "")
	assert.JSONEq(t, `{"items":[{"date":"2019-02-18"}]}`, rec.Body.String())
}
