package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateEnrollmentRequest is the validated payload for POST /enrollments
type CreateEnrollmentRequest struct {
	CourseID string   `json:"course_id"`
	UserID   string   `json:"user_id"`
	Progress *float64 `json:"progress"`
}

// UpdateEnrollmentRequest is the validated payload for PUT /enrollments/:id
type UpdateEnrollmentRequest struct {
	Progress *float64 `json:"progress"`
}

// EnrollmentID validates the :id route parameter
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}
		if _, err := uuid.Parse(id); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

func CreateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateEnrollmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == "" {
			errors["course_id"] = "Course ID is required!"
		} else if _, err := uuid.Parse(reqData.CourseID); err != nil {
			errors["course_id"] = "Invalid Course ID!"
		}

		if reqData.UserID == "" {
			errors["user_id"] = "User ID is required!"
		} else if _, err := uuid.Parse(reqData.UserID); err != nil {
			errors["user_id"] = "Invalid User ID!"
		}

		if reqData.Progress != nil && (*reqData.Progress < 0 || *reqData.Progress > 100) {
			errors["progress"] = "Progress must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

func UpdateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateEnrollmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Progress == nil {
			errors["progress"] = "Progress is required!"
		} else if *reqData.Progress < 0 || *reqData.Progress > 100 {
			errors["progress"] = "Progress must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollmentUpdate", reqData)
		return c.Next()
	}
}
