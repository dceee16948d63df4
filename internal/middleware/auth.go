package middleware

import (
	"crypto/subtle"
	"matchos/internal/privacy"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type localsKey int

const (
	viewerKey localsKey = iota
	skipFilterKey
)

// Authenticate resolves the viewer from an optional bearer token. Requests
// without a token continue as anonymous; a bad token is rejected.
func Authenticate(verifier TokenVerifier, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			c.Locals(viewerKey, privacy.Anonymous())
			return c.Next()
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c, "Malformed authorization header")
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			logger.Debug("rejected token", zap.String("ip", c.IP()), zap.Error(err))
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(viewerKey, privacy.NewViewer(claims.Role, claims.Subject))
		return c.Next()
	}
}

// ViewerFrom returns the viewer Authenticate stored for this request, or an
// anonymous viewer.
func ViewerFrom(c fiber.Ctx) privacy.Viewer {
	if v, ok := c.Locals(viewerKey).(privacy.Viewer); ok {
		return v
	}
	return privacy.Anonymous()
}

// SetViewer replaces the request's viewer, for responses issued to a caller
// who authenticated within the same request.
func SetViewer(c fiber.Ctx, viewer privacy.Viewer) {
	c.Locals(viewerKey, viewer)
}

func RequireAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		if ViewerFrom(c).IsAnonymous() {
			return unauthorized(c, "Authentication required")
		}
		return c.Next()
	}
}

func RequireRole(role privacy.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		viewer := ViewerFrom(c)
		if viewer.IsAnonymous() {
			return unauthorized(c, "Authentication required")
		}
		if viewer.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}
		return c.Next()
	}
}

// APIKeyRequired guards service-to-service routes.
func APIKeyRequired(apiKey string) fiber.Handler {
	return func(c fiber.Ctx) error {
		given := c.Get(APIKeyHeader)
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
			return unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
	})
}
