package userValidator

import (
	"lms/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

var userRoles = map[string]bool{"student": true, "admin": true, "instructor": true}

// CreateUserRequest is the validated payload for POST /users (admin)
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the validated payload for PUT /users/:id (admin)
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UpdateSelfRequest is the validated payload for PUT|PATCH /user
type UpdateSelfRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserID validates the :id route parameter
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User ID is required!", nil)
		}
		if _, err := uuid.Parse(id); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", id)
		return c.Next()
	}
}

func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		if err := validate.Var(reqData.Email, "required,email"); err != nil {
			errors["email"] = "Invalid email!"
		}

		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if reqData.Role != "" && !userRoles[reqData.Role] {
			errors["role"] = "Role must be one of student, admin, instructor!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != nil && len(strings.TrimSpace(*reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		if reqData.Email != nil {
			if err := validate.Var(*reqData.Email, "required,email"); err != nil {
				errors["email"] = "Invalid email!"
			}
		}

		if reqData.Password != nil && len(strings.TrimSpace(*reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if reqData.Role != nil && !userRoles[*reqData.Role] {
			errors["role"] = "Role must be one of student, admin, instructor!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserUpdate", reqData)
		return c.Next()
	}
}

func UpdateSelf() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateSelfRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != nil && len(strings.TrimSpace(*reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		if reqData.Email != nil {
			if err := validate.Var(*reqData.Email, "required,email"); err != nil {
				errors["email"] = "Invalid email!"
			}
		}

		if reqData.Password != nil && len(strings.TrimSpace(*reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSelfUpdate", reqData)
		return c.Next()
	}
}
