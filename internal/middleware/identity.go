package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/auth"
)

// IdentityKey is the fiber locals key the resolved identity is stored
// under.
const IdentityKey = "user"

// Identity resolves the requester identity. The `user` header is
// canonical; when it is absent and an issuer is configured, a Bearer
// token from the join response is accepted instead. Endpoints decide for
// themselves what a missing identity means, so no request is rejected
// here.
func Identity(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := c.Get("user"); user != "" {
			c.Locals(IdentityKey, user)
			return c.Next()
		}
		if issuer != nil {
			if hdr := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(hdr, "Bearer ") {
				if sub, err := issuer.Validate(strings.TrimPrefix(hdr, "Bearer ")); err == nil {
					c.Locals(IdentityKey, sub)
				}
			}
		}
		return c.Next()
	}
}

// User returns the identity resolved by Identity, or "".
func User(c *fiber.Ctx) string {
	if v, ok := c.Locals(IdentityKey).(string); ok {
		return v
	}
	return ""
}
