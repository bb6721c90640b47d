package apimiddleware

import (
	"fmt"
	"strings"

	"github.com/assetworks/gantry/pkg/awauth"
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type GetUserByAPIKeyFN func(string) (*awmodel.User, error)

type GetUserByIDFN func(int) (*awmodel.User, error)

// AuthConfig accepts either a JWT session token in the Authorization header
// or an apikey as a header/query param. Both resolve to a user placed in the
// echo context under "user".
type AuthConfig struct {
	Skipper         middleware.Skipper
	Keyname         string
	JWTSecret       string
	GetUserByAPIKey GetUserByAPIKeyFN
	GetUserByID     GetUserByIDFN
}

func Auth(config AuthConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			if token, ok := bearerToken(c); ok {
				claims, err := awauth.ValidateToken(config.JWTSecret, token)
				if err != nil {
					return echo.ErrUnauthorized
				}

				user, err := config.GetUserByID(claims.UserID)
				if err != nil {
					return echo.ErrUnauthorized
				}

				c.Set("user", user)
				return next(c)
			}

			value, err := getAPIKeyFromRequest(config.Keyname, c)
			if err != nil {
				return echo.ErrUnauthorized
			}

			user, err := config.GetUserByAPIKey(value)
			switch {
			case err != nil:
				return echo.ErrUnauthorized
			case user == nil:
				return echo.ErrUnauthorized
			default:
				c.Set("user", user)
				return next(c)
			}
		}
	}
}

// GetUserFromContext returns the user the auth middleware resolved, or nil
// when the route was skipped.
func GetUserFromContext(c echo.Context) *awmodel.User {
	user, ok := c.Get("user").(*awmodel.User)
	if !ok {
		return nil
	}

	return user
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	return strings.TrimPrefix(header, "Bearer "), true
}

func getAPIKeyFromRequest(key string, c echo.Context) (string, error) {
	if value, err := keyFromHeader(key, c); err == nil {
		return value, nil
	}

	if value, err := keyFromQuery(key, c); err == nil {
		return value, nil
	}

	return "", fmt.Errorf("no apikey '%s' as query param or header", key)
}

func keyFromHeader(key string, c echo.Context) (string, error) {
	value := c.Request().Header.Get(key)
	if value == "" {
		return "", fmt.Errorf("no apikey '%s' as header", key)
	}
	return value, nil
}

func keyFromQuery(key string, c echo.Context) (string, error) {
	value := c.QueryParam(key)
	if value == "" {
		return "", fmt.Errorf("no apikey '%s' as query param", key)
	}
	return value, nil
}
