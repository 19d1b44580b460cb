package enrollmentRoutes

import (
	controllers "lms/controllers/course"
	videoController "lms/controllers/video"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollments", middleware.JWTMiddleware)

	enrollmentGroup.Get("/", middleware.RequireAdmin, controllers.GetEnrollments)
	enrollmentGroup.Post("/", validators.CreateEnrollment(), controllers.CreateEnrollment)
	enrollmentGroup.Get("/:id/completed-videos", validators.EnrollmentID(), videoController.GetCompletedVideos)
	enrollmentGroup.Get("/:id", validators.EnrollmentID(), controllers.GetEnrollment)
	enrollmentGroup.Put("/:id", validators.EnrollmentID(), validators.UpdateEnrollment(), controllers.UpdateEnrollment)
}
