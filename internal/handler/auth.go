package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/liftpass/internal/config"
	"github.com/iliyamo/liftpass/internal/utils"
)

// AuthHandler issues admin access tokens.
type AuthHandler struct {
	Cfg config.AuthConfig
}

func NewAuthHandler(cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login handles POST /auth/login. Credentials are checked against ADMIN_USER
// and the bcrypt ADMIN_PASSWORD_HASH.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.Cfg.AdminUser)) == 1
	passOK := utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password)
	if !userOK || !passOK {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, username, utils.RoleAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token, Expires: access.Exp})
}
