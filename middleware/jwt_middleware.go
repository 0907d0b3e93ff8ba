package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskflow/models"
	"taskflow/utils"
)

// Protected returns the JWT guard for bearer-authenticated routes. It
// verifies the access token, loads the user it asserts and stores it in the
// request locals under "user" and "userID".
func Protected(db *gorm.DB, issuer *utils.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.Unauthenticated("Authorization required")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return utils.Unauthenticated("Invalid authorization format")
		}

		userID, err := issuer.VerifyAccess(tokenParts[1])
		if err != nil {
			return utils.Unauthenticated("Invalid or expired token")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthenticated("Invalid or expired token")
		}

		if !user.IsActive {
			return utils.Forbidden("Account is not active")
		}

		c.Locals("user", &user)
		c.Locals("userID", user.ID)

		return c.Next()
	}
}
