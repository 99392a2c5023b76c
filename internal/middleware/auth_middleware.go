package middleware

import (
	"net/url"
	"strings"

	"go-resale-pos/internal/repository"
	"go-resale-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the Bearer token on every protected route and sets
// the operator's identity in the request context. API clients get a 401 JSON
// body; browser requests are redirected to the login page with a callbackUrl
// pointing back at the originally requested path.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Missing authorization token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return unauthorized(c, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		// Strict session check against the DB: a token issued before the
		// last login carries a stale version.
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return unauthorized(c, "User not found")
		}
		if user.TokenVersion != claims.TokenVersion {
			return unauthorized(c, "Session expired (logged in on another device)")
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	if wantsHTML(c) {
		target := "/login?callbackUrl=" + url.QueryEscape(c.OriginalURL())
		return c.Redirect(target, fiber.StatusFound)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/html")
}
