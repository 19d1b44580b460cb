package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CourseWithEnrollment decorates a course with the viewer's enrollment state
type CourseWithEnrollment struct {
	models.Course
	IsEnrolled         bool               `json:"is_enrolled"`
	LoggedInEnrollment *models.Enrollment `json:"logged_in_enrollment,omitempty"`
}

// validateInstructor checks that the referenced user exists and holds the
// instructor role. Returns a field-error map suitable for a 422 response,
// or nil when the reference is valid.
func validateInstructor(db *gorm.DB, instructorID string) map[string]string {
	var instructor models.User
	if err := db.Where("id = ?", instructorID).First(&instructor).Error; err != nil {
		return map[string]string{"user_instructor_id": "Instructor not found!"}
	}
	if !instructor.IsInstructor() {
		return map[string]string{"user_instructor_id": "User is not an instructor!"}
	}
	return nil
}

// GetAllCourses lists courses. Authentication is optional: when the caller
// is known, each course carries is_enrolled and the caller's own enrollment.
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []models.Course
	if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	// Anonymous viewers get the plain catalog
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
			"courses": courses,
		})
	}

	// Batch-fetch the viewer's enrollments, one query for the whole page
	courseIDs := make([]string, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
	}

	var enrollments []models.Enrollment
	if len(courseIDs) > 0 {
		if err := db.Where("user_id = ? AND course_id IN ?", userID, courseIDs).Find(&enrollments).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
		}
	}

	byCourse := make(map[string]*models.Enrollment, len(enrollments))
	for i := range enrollments {
		byCourse[enrollments[i].CourseID] = &enrollments[i]
	}

	result := make([]CourseWithEnrollment, len(courses))
	for i, course := range courses {
		result[i] = CourseWithEnrollment{Course: course}
		if enrollment, found := byCourse[course.ID]; found {
			result[i].IsEnrolled = true
			result[i].LoggedInEnrollment = enrollment
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": result,
	})
}

func GetCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	courseID := c.Locals("courseID").(string)
	db := database.Database.Db

	var course models.Course
	err := db.Preload("Instructor").
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("video_order asc") }).
		Where("id = ?", courseID).First(&course).Error
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	result := CourseWithEnrollment{Course: course}

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err == nil {
		result.IsEnrolled = true
		result.LoggedInEnrollment = &enrollment
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", result)
}

func CreateCourse(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(string); !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if fieldErrors := validateInstructor(db, reqData.UserInstructorID); fieldErrors != nil {
		return middleware.ValidationErrorResponse(c, fieldErrors)
	}

	course := models.Course{
		Title:            reqData.Title,
		Description:      reqData.Description,
		Thumbnail:        reqData.Thumbnail,
		Category:         reqData.Category,
		Level:            reqData.Level,
		UserInstructorID: reqData.UserInstructorID,
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}

	if err := db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(string); !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	courseID := c.Locals("courseID").(string)

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	if reqData.UserInstructorID != nil {
		if fieldErrors := validateInstructor(db, *reqData.UserInstructorID); fieldErrors != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors)
		}
	}

	// Partial update; duration_in_seconds is never client-settable
	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Thumbnail != nil {
		updates["thumbnail"] = *reqData.Thumbnail
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.UserInstructorID != nil {
		updates["user_instructor_id"] = *reqData.UserInstructorID
	}

	if len(updates) > 0 {
		if err := db.Model(&course).Updates(updates).Error; err != nil {
			log.Printf("Error updating course %s: %v", courseID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes a course together with its videos, enrollments and
// completion records in one transaction.
func DeleteCourse(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(string); !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	courseID := c.Locals("courseID").(string)
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	var enrollmentIDs []string
	db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Pluck("id", &enrollmentIDs)

	tx := db.Begin()
	if len(enrollmentIDs) > 0 {
		if err := tx.Where("enrollment_id IN ?", enrollmentIDs).Delete(&models.VideoProgress{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
		}
	}
	if err := tx.Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Where("course_id = ?", courseID).Delete(&models.Video{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Delete(&course).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
