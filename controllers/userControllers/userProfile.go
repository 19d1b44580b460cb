package userControllers

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	userValidator "lms/validators/user"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// deleteUserCascade removes a user with their enrollments and the progress
// rows hanging off those enrollments.
func deleteUserCascade(db *gorm.DB, userID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var enrollmentIDs []string
	if err := tx.Model(&models.Enrollment{}).Where("user_id = ?", userID).Pluck("id", &enrollmentIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(enrollmentIDs) > 0 {
		if err := tx.Where("enrollment_id IN ?", enrollmentIDs).Delete(&models.VideoProgress{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// applyUserUpdates writes the changed fields, hashing a new password and
// guarding email uniqueness.
func applyUserUpdates(c *fiber.Ctx, db *gorm.DB, user *models.User, name, email, password, role *string) error {
	updates := make(map[string]interface{})

	if name != nil {
		updates["name"] = *name
	}

	if email != nil && *email != user.Email {
		var existing models.User
		if err := db.Where("email = ? AND id <> ?", *email, user.ID).First(&existing).Error; err == nil {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.ErrConflict, "Email already in use!")
		}
		updates["email"] = *email
	}

	if password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing password for user %s: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
		}
		updates["password"] = string(hashedPassword)
	}

	if role != nil {
		updates["role"] = *role
	}

	if len(updates) > 0 {
		if err := db.Model(user).Updates(updates).Error; err != nil {
			log.Printf("Error updating user %s: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", user)
}

// Me returns the authenticated user's profile
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	var user models.User
	if err := database.Database.Db.First(&user, "id = ?", userID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "User not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// UpdateSelf lets the authenticated user change their own profile
func UpdateSelf(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	reqData := c.Locals("validatedSelfUpdate").(*userValidator.UpdateSelfRequest)
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "User not found!")
	}

	return applyUserUpdates(c, db, &user, reqData.Name, reqData.Email, reqData.Password, nil)
}

// DeleteSelf removes the authenticated user's account
func DeleteSelf(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "User not found!")
	}

	if err := deleteUserCascade(db, user.ID); err != nil {
		log.Printf("Error deleting user %s: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully!", nil)
}

// --- Admin user management ---

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.Database.Db.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

func GetUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(string)

	var user models.User
	if err := database.Database.Db.First(&user, "id = ?", targetID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "User not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

func CreateUser(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*userValidator.CreateUserRequest)
	db := database.Database.Db

	var existing models.User
	if err := db.Where("email = ?", reqData.Email).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.ErrConflict, "Email already in use!")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = "student"
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully!", newUser)
}

func UpdateUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(string)
	reqData := c.Locals("validatedUserUpdate").(*userValidator.UpdateUserRequest)
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, "id = ?", targetID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "User not found!")
	}

	return applyUserUpdates(c, db, &user, reqData.Name, reqData.Email, reqData.Password, reqData.Role)
}

func DeleteUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(string)
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, "id = ?", targetID).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "User not found!")
	}

	if err := deleteUserCascade(db, user.ID); err != nil {
		log.Printf("Error deleting user %s: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}
