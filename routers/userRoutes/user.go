package userRoutes

import (
	controllers "lms/controllers/course"
	"lms/controllers/userControllers"
	"lms/middleware"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up the self-profile routes and the admin user
// management routes.
func SetupUserRoutes(app *fiber.App) {
	selfGroup := app.Group("/user", middleware.JWTMiddleware)

	selfGroup.Get("/enrollments", controllers.GetMyEnrollments)
	selfGroup.Get("/", userControllers.Me)
	selfGroup.Put("/", userValidator.UpdateSelf(), userControllers.UpdateSelf)
	selfGroup.Patch("/", userValidator.UpdateSelf(), userControllers.UpdateSelf)
	selfGroup.Delete("/", userControllers.DeleteSelf)

	adminGroup := app.Group("/users", middleware.JWTMiddleware, middleware.RequireAdmin)

	adminGroup.Get("/", userControllers.GetAllUsers)
	adminGroup.Post("/", userValidator.CreateUser(), userControllers.CreateUser)
	adminGroup.Get("/:id", userValidator.UserID(), userControllers.GetUser)
	adminGroup.Put("/:id", userValidator.UserID(), userValidator.UpdateUser(), userControllers.UpdateUser)
	adminGroup.Delete("/:id", userValidator.UserID(), userControllers.DeleteUser)
}
