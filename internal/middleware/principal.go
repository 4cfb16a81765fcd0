// Package middleware provides request processing shared by handlers:
// principal resolution, rate limiting and response caching.
package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
	"github.com/sanyovichhh/parkmate-backend/internal/repository"
	"github.com/sanyovichhh/parkmate-backend/internal/utils"
)

// Context keys set by ResolvePrincipal.
const (
	principalKey    = "principal"
	credsInvalidKey = "principal_invalid"
)

// ResolvePrincipal returns middleware that derives the acting principal for
// every request and stores it in the context. Two credential forms are
// accepted, in order:
//
//	Authorization: Bearer <jwt>  – access token issued at login
//	X-User-Id: <integer>         – legacy compatibility header
//
// In both cases the referenced user is looked up in the store, so handlers
// only ever see DB-verified principals. A request with no credentials is
// anonymous; a request whose credentials fail to verify or resolve is
// marked invalid so endpoints can answer 401 instead of treating the caller
// as anonymous.
func ResolvePrincipal(users repository.UserStore, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var userID int64

			switch auth := c.Request().Header.Get("Authorization"); {
			case strings.HasPrefix(auth, "Bearer "):
				id, err := utils.ParseAccessToken(jwtSecret, strings.TrimPrefix(auth, "Bearer "))
				if err != nil {
					c.Set(credsInvalidKey, true)
					return next(c)
				}
				userID = id
			default:
				raw := strings.TrimSpace(c.Request().Header.Get("X-User-Id"))
				if raw == "" {
					return next(c) // anonymous
				}
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					c.Set(credsInvalidKey, true)
					return next(c)
				}
				userID = id
			}

			u, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				// Unknown user or store failure: either way the supplied
				// credentials do not resolve to a principal.
				c.Set(credsInvalidKey, true)
				return next(c)
			}
			c.Set(principalKey, u)
			return next(c)
		}
	}
}

// PrincipalFrom returns the resolved principal, if any, and whether the
// request carried credentials that failed to resolve.
func PrincipalFrom(c echo.Context) (principal *model.User, credsInvalid bool) {
	if u, ok := c.Get(principalKey).(*model.User); ok {
		return u, false
	}
	invalid, _ := c.Get(credsInvalidKey).(bool)
	return nil, invalid
}
