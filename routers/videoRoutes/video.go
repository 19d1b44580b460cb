package videoRoutes

import (
	videoController "lms/controllers/video"
	"lms/middleware"
	videoValidator "lms/validators/video"

	"github.com/gofiber/fiber/v2"
)

// SetupVideoRoutes sets up the video catalog and completion routes. Write
// operations on the catalog are admin only; completion marking belongs to
// the enrolled student.
func SetupVideoRoutes(app *fiber.App) {
	videoGroup := app.Group("/videos", middleware.JWTMiddleware)

	videoGroup.Get("/", videoController.GetAllVideos)
	videoGroup.Post("/", middleware.RequireAdmin, videoValidator.CreateVideo(), videoController.CreateVideo)
	videoGroup.Post("/import", middleware.RequireAdmin, videoValidator.ImportVideos(), videoController.ImportVideosFromPlaylist)

	videoGroup.Post("/:enrollment/:video/complete", videoValidator.ProgressParams(), videoController.MarkVideoComplete)
	videoGroup.Delete("/:enrollment/:video/complete", videoValidator.ProgressParams(), videoController.UnmarkVideoComplete)

	videoGroup.Get("/:id", videoValidator.VideoID(), videoController.GetVideo)
	videoGroup.Put("/:id", middleware.RequireAdmin, videoValidator.VideoID(), videoValidator.UpdateVideo(), videoController.UpdateVideo)
	videoGroup.Delete("/:id", middleware.RequireAdmin, videoValidator.VideoID(), videoController.DeleteVideo)
}
