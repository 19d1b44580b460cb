package videoController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// findOwnEnrollment resolves an enrollment scoped to the acting user. A
// foreign enrollment id reads as "not found" so existence never leaks.
func findOwnEnrollment(db *gorm.DB, enrollmentID, userID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := db.Where("id = ? AND user_id = ?", enrollmentID, userID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// recalcEnrollmentProgress updates the enrollment progress after a
// completion change
func recalcEnrollmentProgress(db *gorm.DB, enrollment *models.Enrollment) {
	var totalVideos int64
	var completedVideos int64

	db.Model(&models.Video{}).Where("course_id = ?", enrollment.CourseID).Count(&totalVideos)
	db.Model(&models.VideoProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&completedVideos)

	progress := 0.0
	if totalVideos > 0 {
		progress = float64(completedVideos) / float64(totalVideos) * 100
	}

	if err := db.Model(enrollment).Update("progress", progress).Error; err != nil {
		log.Printf("Error updating progress for enrollment %s: %v", enrollment.ID, err)
	}
}

// MarkVideoComplete records that a video was watched. Calling it twice for
// the same (enrollment, video) pair is a no-op returning the same record.
func MarkVideoComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	enrollmentID := c.Locals("enrollmentID").(string)
	videoID := c.Locals("videoID").(string)
	db := database.Database.Db

	enrollment, err := findOwnEnrollment(db, enrollmentID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Enrollment not found!")
	}

	// The video must belong to the enrollment's course
	var video models.Video
	if err := db.Where("id = ? AND course_id = ?", videoID, enrollment.CourseID).First(&video).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Video not found!")
	}

	var completion models.VideoProgress
	err = db.Where(models.VideoProgress{EnrollmentID: enrollment.ID, VideoID: video.ID}).
		FirstOrCreate(&completion).Error
	if err != nil {
		log.Printf("Error recording completion for enrollment %s video %s: %v", enrollment.ID, video.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark video as completed!", nil)
	}

	recalcEnrollmentProgress(db, enrollment)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video marked as completed successfully!", completion)
}

// UnmarkVideoComplete removes a completion record
func UnmarkVideoComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	enrollmentID := c.Locals("enrollmentID").(string)
	videoID := c.Locals("videoID").(string)
	db := database.Database.Db

	enrollment, err := findOwnEnrollment(db, enrollmentID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Enrollment not found!")
	}

	var completion models.VideoProgress
	if err := db.Where("enrollment_id = ? AND video_id = ?", enrollment.ID, videoID).First(&completion).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Completion not found!")
	}

	if err := db.Delete(&completion).Error; err != nil {
		log.Printf("Error deleting completion %s: %v", completion.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove completion!", nil)
	}

	recalcEnrollmentProgress(db, enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion removed successfully!", nil)
}

// GetCompletedVideos lists the completed video ids of an enrollment
func GetCompletedVideos(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.ErrUnauthorized, "Unauthorized!")
	}

	enrollmentID := c.Locals("enrollmentID").(string)
	db := database.Database.Db

	enrollment, err := findOwnEnrollment(db, enrollmentID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Enrollment not found!")
	}

	completedIDs := []string{}
	db.Model(&models.VideoProgress{}).Where("enrollment_id = ?", enrollment.ID).Pluck("video_id", &completedIDs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed videos fetched successfully!", completedIDs)
}
