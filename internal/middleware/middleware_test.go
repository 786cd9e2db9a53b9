package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/liftpass/internal/config"
	"github.com/iliyamo/liftpass/internal/utils"
)

const testSecret = "s3cret"

func adminOnly(e *echo.Echo) {
	e.PUT("/prices", func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentUserID(c))
	}, JWTAuth(testSecret), RequireRole(utils.RoleAdmin))
}

func doPut(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/prices", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_RequireRole(t *testing.T) {
	e := echo.New()
	adminOnly(e)

	admin, err := utils.NewAccessToken(testSecret, "admin", utils.RoleAdmin, 5)
	require.NoError(t, err)
	rider, err := utils.NewAccessToken(testSecret, "rider", "RIDER", 5)
	require.NoError(t, err)
	forged, err := utils.NewAccessToken("other", "admin", utils.RoleAdmin, 5)
	require.NoError(t, err)

	rec := doPut(e, admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, doPut(e, rider.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, doPut(e, forged.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, doPut(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doPut(e, "garbage").Code)
}

func TestJWTAuth_RejectsNonHMAC(t *testing.T) {
	e := echo.New()
	adminOnly(e)

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "admin", "role": utils.RoleAdmin, "exp": time.Now().Add(time.Minute).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doPut(e, raw).Code)
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", CurrentUserID(c))

	c.Set("user_id", "admin")
	assert.Equal(t, "admin", CurrentUserID(c))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/prices?type=night", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/prices")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.7:route:GET /prices", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.7", buildRateKey(cfg, c))

	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:ip:10.0.0.7:user:anon:route:GET /prices", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
	res, ok := parseBucketResult([]interface{}{int64(1), int64(59), int64(0)})
	require.True(t, ok)
	assert.True(t, res.allowed)
	assert.Equal(t, int64(59), res.remaining)

	res, ok = parseBucketResult([]interface{}{int64(0), int64(0), int64(750)})
	require.True(t, ok)
	assert.False(t, res.allowed)
	assert.Equal(t, int64(750), res.retryMs)

	_, ok = parseBucketResult("OK")
	assert.False(t, ok)
}

func TestNewTokenBucket_WithoutRedisPassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/prices", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prices", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/prices", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside")
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prices", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), `"message":"inside"`)
	assert.Contains(t, buf.String(), `"path":"/prices"`)
	assert.Contains(t, buf.String(), `"status":204`)

	buf.Reset()
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestIdentifyBearer(t *testing.T) {
	e := echo.New()
	e.Use(IdentifyBearer(testSecret))
	e.GET("/prices", func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentUserID(c))
	})
	get := func(bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/prices", nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	admin, err := utils.NewAccessToken(testSecret, "admin", utils.RoleAdmin, 5)
	require.NoError(t, err)
	forged, err := utils.NewAccessToken("other", "mallory", utils.RoleAdmin, 5)
	require.NoError(t, err)

	assert.Equal(t, "admin", get(admin.Token).Body.String())
	assert.Equal(t, "anon", get(forged.Token).Body.String())
	assert.Equal(t, "anon", get("garbage").Body.String())

	rec := get("")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anon", rec.Body.String())
}

func TestBuildRateKey_UsesIdentifiedSubject(t *testing.T) {
	admin, err := utils.NewAccessToken(testSecret, "admin", utils.RoleAdmin, 5)
	require.NoError(t, err)

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	var key string
	e := echo.New()
	e.Use(IdentifyBearer(testSecret))
	e.PUT("/prices", func(c echo.Context) error {
		key = buildRateKey(cfg, c)
		return c.NoContent(http.StatusNoContent)
	})

	doPut(e, admin.Token)
	assert.Equal(t, "rl:user:admin", key)
}
