package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/config"
	"github.com/iliyamo/railway-reservation/internal/repository"
	"github.com/iliyamo/railway-reservation/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // CUSTOMER | ADMIN
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != "ADMIN" && role != "CUSTOMER" {
		role = "CUSTOMER"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: uid, Email: req.Email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Login: verify and return new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Email: u.Email, Role: u.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	raw := strings.TrimSpace(req.RefreshToken)
	hash := utils.HashRefreshRaw(raw)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: userID, Email: u.Email, Role: u.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// RefreshAccess: validate a refresh token and return a new access token
// without rotating the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	raw := strings.TrimSpace(req.RefreshToken)
	hash := utils.HashRefreshRaw(raw)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes refresh tokens.  With a bearer token and no body it
// revokes every session of the user; with a refresh_token in the body it
// revokes that single session.  The endpoint runs outside the JWT
// middleware so a client with only a refresh token can still log out.
func (h *AuthHandler) Logout(c echo.Context) error {
	var uid uint64
	hasBearer := false
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		rawToken := strings.TrimPrefix(authHeader, "Bearer ")
		tok, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, echo.ErrUnauthorized
			}
			return []byte(h.Cfg.JWTSecret), nil
		})
		if err == nil && tok.Valid {
			if claims, ok := tok.Claims.(jwt.MapClaims); ok {
				switch subVal := claims["sub"].(type) {
				case float64:
					uid = uint64(subVal)
					hasBearer = true
				case string:
					if parsed, err := strconv.ParseUint(subVal, 10, 64); err == nil {
						uid = parsed
						hasBearer = true
					}
				}
			}
		}
	}

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if hasBearer && refreshToken == "" {
		if uid == 0 {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me: simple protected endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
