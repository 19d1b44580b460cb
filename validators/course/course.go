package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var courseLevels = map[string]bool{"beginner": true, "intermediate": true, "advanced": true}
var courseStatuses = map[string]bool{"draft": true, "published": true, "archived": true}

// CreateCourseRequest is the validated payload for POST /courses
type CreateCourseRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Thumbnail        string   `json:"thumbnail"`
	Category         string   `json:"category"`
	Level            string   `json:"level"`
	Price            *float64 `json:"price"`
	UserInstructorID string   `json:"user_instructor_id"`
}

// UpdateCourseRequest is the validated payload for PUT /courses/:id.
// All fields are optional; duration is deliberately absent, it is only
// maintained by video operations.
type UpdateCourseRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	Thumbnail        *string  `json:"thumbnail"`
	Category         *string  `json:"category"`
	Level            *string  `json:"level"`
	Status           *string  `json:"status"`
	Price            *float64 `json:"price"`
	UserInstructorID *string  `json:"user_instructor_id"`
}

// CourseID validates the :id route parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}
		if _, err := uuid.Parse(id); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", id)
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Level
		if reqData.Level != "" && !courseLevels[reqData.Level] {
			errors["level"] = "Level must be one of beginner, intermediate, advanced!"
		}

		// Validate Price
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		// Validate Instructor reference
		if reqData.UserInstructorID == "" {
			errors["user_instructor_id"] = "Instructor is required!"
		} else if _, err := uuid.Parse(reqData.UserInstructorID); err != nil {
			errors["user_instructor_id"] = "Invalid instructor ID!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Level != nil && !courseLevels[*reqData.Level] {
			errors["level"] = "Level must be one of beginner, intermediate, advanced!"
		}

		if reqData.Status != nil && !courseStatuses[*reqData.Status] {
			errors["status"] = "Status must be one of draft, published, archived!"
		}

		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		if reqData.UserInstructorID != nil {
			if _, err := uuid.Parse(*reqData.UserInstructorID); err != nil {
				errors["user_instructor_id"] = "Invalid instructor ID!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}
