package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanyovichhh/parkmate-backend/internal/config"
	"github.com/sanyovichhh/parkmate-backend/internal/model"
	"github.com/sanyovichhh/parkmate-backend/internal/repository"
	"github.com/sanyovichhh/parkmate-backend/internal/utils"
)

const minPasswordLen = 8

// AuthHandler bundles dependencies for registration, login and logout.
type AuthHandler struct {
	Cfg   config.Config
	Users repository.UserStore
}

func NewAuthHandler(cfg config.Config, users repository.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

type registerReq struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /register. Validation failures come back as a 400
// with field-keyed messages; success returns the created user (id assigned
// by the store, password never echoed).
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = repository.NormalizeEmail(req.Email)

	fe := fieldErrors{}
	if req.Email == "" {
		fe.add("email", msgRequired)
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fe.add("first_name", msgRequired)
	}
	if strings.TrimSpace(req.LastName) == "" {
		fe.add("last_name", msgRequired)
	}
	if len(req.Password) < minPasswordLen {
		fe.add("password", "Password must be at least 8 characters.")
	}
	if req.Password != req.PasswordConfirm {
		fe.add("password", "Passwords don't match")
	}
	if !fe.ok() {
		return c.JSON(http.StatusBadRequest, fe)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	u := &model.User{
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if _, err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, fieldErrors{"email": {"user with this email already exists."}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":    newUserDTO(u),
		"message": "User registered successfully",
	})
}

// Login handles POST /login. On success the response carries the user and
// a signed access token; clients may also keep using the X-User-Id header.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.IsAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":    newUserDTO(u),
		"access":  access,
		"message": "Login successful",
	})
}

// Logout handles POST /logout. Access tokens are not stored server-side,
// so logout is a stateless acknowledgement; clients drop their token.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}
