package middleware

import (
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireAdmin checks that the authenticated user holds the admin role.
// Must run after JWTMiddleware.
func RequireAdmin(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, ErrUnauthorized, "Unauthorized: User ID not found")
	}

	var user models.User
	err := database.Database.Db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrorResponse(c, fiber.StatusUnauthorized, ErrUnauthorized, "User not found!")
		}
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
	}

	if !user.IsAdmin() {
		return ErrorResponse(c, fiber.StatusForbidden, ErrForbidden, "You do not have permission to access this resource!")
	}

	return c.Next()
}
