package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VideoWithCompletion decorates a video with the viewer's completion state
type VideoWithCompletion struct {
	models.Video
	Completed bool `json:"completed"`
}

// EnrolledCourseDetail is the course as seen from inside an enrollment
type EnrolledCourseDetail struct {
	models.Course
	Videos          []VideoWithCompletion `json:"videos"`
	EnrollmentCount int64                 `json:"enrollment_count"`
}

// EnrollmentDetail is the response shape of GET /enrollments/:id
type EnrollmentDetail struct {
	models.Enrollment
	Course EnrolledCourseDetail `json:"course"`
}

// CreateEnrollment creates an enrollment. A user may only enroll themselves
// unless they are an admin enrolling on someone's behalf.
func CreateEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	db := database.Database.Db

	var actingUser models.User
	if err := db.Where("id = ?", userID).First(&actingUser).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "User not found!")
	}

	reqData, ok := c.Locals("validatedEnrollment").(*courseValidator.CreateEnrollmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// A regular user must not enroll anyone but themselves
	if !actingUser.IsAdmin() && reqData.UserID != actingUser.ID {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.ErrForbidden, "You can only create an enrollment for your own account!")
	}

	var enrollee models.User
	if err := db.Where("id = ?", reqData.UserID).First(&enrollee).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "User not found!")
	}

	var course models.Course
	if err := db.Where("id = ?", reqData.CourseID).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	// Check if user is already enrolled
	var existingEnrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).First(&existingEnrollment).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.ErrConflict, "User already enrolled in this course!")
	}

	enrollment := models.Enrollment{
		UserID:   reqData.UserID,
		CourseID: reqData.CourseID,
	}
	if reqData.Progress != nil {
		enrollment.Progress = *reqData.Progress
	}

	if err := db.Create(&enrollment).Error; err != nil {
		log.Printf("Error creating enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	utils.SendEnrollmentEmail(enrollee.Email, enrollee.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment created successfully!", enrollment)
}

// GetEnrollments lists every enrollment. Admin only (enforced by route middleware).
func GetEnrollments(c *fiber.Ctx) error {
	var enrollments []models.Enrollment
	if err := database.Database.Db.Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
	})
}

// GetEnrollment returns one enrollment with its course, the course's videos
// annotated with the viewer's completion state, and the course's enrollment
// count. Only the enrollment's owner may see it.
func GetEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	enrollmentID := c.Locals("enrollmentID").(string)
	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Enrollment not found!")
	}

	if enrollment.UserID != userID {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.ErrForbidden, "Unauthorized to view this enrollment!")
	}

	var course models.Course
	err := db.Preload("Instructor").
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("video_order asc") }).
		Where("id = ?", enrollment.CourseID).First(&course).Error
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	var enrollmentCount int64
	db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollmentCount)

	var completedIDs []string
	db.Model(&models.VideoProgress{}).Where("enrollment_id = ?", enrollment.ID).Pluck("video_id", &completedIDs)

	completed := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	videos := make([]VideoWithCompletion, len(course.Videos))
	for i, video := range course.Videos {
		videos[i] = VideoWithCompletion{Video: video, Completed: completed[video.ID]}
	}
	course.Videos = nil

	detail := EnrollmentDetail{
		Enrollment: enrollment,
		Course: EnrolledCourseDetail{
			Course:          course,
			Videos:          videos,
			EnrollmentCount: enrollmentCount,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", detail)
}

// UpdateEnrollment changes an enrollment's progress. Restricted to the
// enrollment's owner or an admin.
func UpdateEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	enrollmentID := c.Locals("enrollmentID").(string)
	db := database.Database.Db

	var actingUser models.User
	if err := db.Where("id = ?", userID).First(&actingUser).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "User not found!")
	}

	reqData, ok := c.Locals("validatedEnrollmentUpdate").(*courseValidator.UpdateEnrollmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var enrollment models.Enrollment
	if err := db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Enrollment not found!")
	}

	if !actingUser.IsAdmin() && enrollment.UserID != actingUser.ID {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.ErrForbidden, "Unauthorized to update this enrollment!")
	}

	if err := db.Model(&enrollment).Update("progress", *reqData.Progress).Error; err != nil {
		log.Printf("Error updating enrollment %s: %v", enrollmentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}

// GetMyEnrollments lists the caller's own enrollments with their courses
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Preload("Course").Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
	})
}
