package videoValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateVideoRequest is the validated payload for POST /videos.
// Duration is absent on purpose: it always comes from the video host.
type CreateVideoRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CourseID      string `json:"course_id"`
	GumletAssetID string `json:"gumlet_asset_id"`
	VideoOrder    int    `json:"video_order"`
}

// UpdateVideoRequest is the validated payload for PUT /videos/:id
type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VideoOrder  *int    `json:"video_order"`
}

// ImportVideosRequest is the validated payload for POST /videos/import
type ImportVideosRequest struct {
	PlaylistID string `json:"playlist_id"`
	CourseID   string `json:"course_id"`
}

// VideoID validates the :id route parameter
func VideoID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Video ID is required!", nil)
		}
		if _, err := uuid.Parse(id); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Video ID!", nil)
		}

		c.Locals("videoID", id)
		return c.Next()
	}
}

// ProgressParams validates the :enrollment and :video route parameters
// of the completion endpoints
func ProgressParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentID := strings.TrimSpace(c.Params("enrollment"))
		videoID := strings.TrimSpace(c.Params("video"))

		if _, err := uuid.Parse(enrollmentID); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}
		if _, err := uuid.Parse(videoID); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Video ID!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		c.Locals("videoID", videoID)
		return c.Next()
	}
}

func CreateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateVideoRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.CourseID == "" {
			errors["course_id"] = "Course ID is required!"
		} else if _, err := uuid.Parse(reqData.CourseID); err != nil {
			errors["course_id"] = "Invalid Course ID!"
		}

		if strings.TrimSpace(reqData.GumletAssetID) == "" {
			errors["gumlet_asset_id"] = "Gumlet asset ID is required!"
		}

		if reqData.VideoOrder < 1 {
			errors["video_order"] = "Video order must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}

func UpdateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateVideoRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title must not be empty!"
		}

		if reqData.VideoOrder != nil && *reqData.VideoOrder < 1 {
			errors["video_order"] = "Video order must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoUpdate", reqData)
		return c.Next()
	}
}

func ImportVideos() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ImportVideosRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.PlaylistID) == "" {
			errors["playlist_id"] = "Playlist ID is required!"
		}

		if reqData.CourseID == "" {
			errors["course_id"] = "Course ID is required!"
		} else if _, err := uuid.Parse(reqData.CourseID); err != nil {
			errors["course_id"] = "Invalid Course ID!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedImport", reqData)
		return c.Next()
	}
}
