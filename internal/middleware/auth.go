package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/retail-backend/pkg/jwtutil"
	"github.com/suteetoe/retail-backend/pkg/logger"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// JWTAuthMiddleware creates a middleware that validates JWT tokens
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return jwtMiddleware(jwtUtil, true)
}

// OptionalJWTMiddleware validates a bearer token when one is sent and lets anonymous requests
// through. A token that is present but invalid is still rejected.
func OptionalJWTMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return jwtMiddleware(jwtUtil, false)
}

func jwtMiddleware(jwtUtil *jwtutil.JWTUtil, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if !required {
					return next(c)
				}
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(claimsKey, claims)
			logger.With(c, zap.String("user_id", claims.UserID))

			return next(c)
		}
	}
}

// Claims returns the validated token claims, or nil outside JWTAuthMiddleware.
func Claims(c echo.Context) *jwtutil.UserClaims {
	claims, _ := c.Get(claimsKey).(*jwtutil.UserClaims)
	return claims
}
