package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the course catalog routes. Listing works without
// a token; everything else requires one.
func SetupCourseRoutes(app *fiber.App) {
	app.Get("/courses", middleware.OptionalJWTMiddleware, controllers.GetAllCourses)

	courseGroup := app.Group("/courses", middleware.JWTMiddleware)

	courseGroup.Get("/:id", validators.CourseID(), controllers.GetCourse)
	courseGroup.Post("/", validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", validators.CourseID(), controllers.DeleteCourse)
}
