package videoController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	videoValidator "lms/validators/video"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultVideoTitle       = "Untitled"
	defaultVideoDescription = "No description"
)

// ImportVideosFromPlaylist replaces a course's entire video set with the
// current contents of a Gumlet playlist. The delete, the bulk insert and
// the course duration update commit atomically: a host failure midway
// leaves the course exactly as it was.
func ImportVideosFromPlaylist(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedImport").(*videoValidator.ImportVideosRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Resolve the course before touching anything
	var course models.Course
	if err := db.Where("id = ?", reqData.CourseID).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	tx := db.Begin()

	// Duration contributed by the videos being replaced
	var replacedDuration int64
	if err := tx.Model(&models.Video{}).Where("course_id = ?", course.ID).
		Select("COALESCE(SUM(duration_in_seconds), 0)").Scan(&replacedDuration).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to import videos!", nil)
	}

	if err := tx.Where("course_id = ?", course.ID).Delete(&models.Video{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to import videos!", nil)
	}

	playlistAssets, err := services.Host.GetPlaylistAssets(reqData.PlaylistID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, services.ErrAssetNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Playlist not found on Gumlet!")
		}
		log.Printf("Error fetching playlist %s from Gumlet: %v", reqData.PlaylistID, err)
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, middleware.ErrExternalService, "Failed to communicate with the video host!")
	}

	if playlistAssets == nil || len(playlistAssets.AssetList) == 0 {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Playlist not found or empty on Gumlet!")
	}

	var totalDuration int64
	videosToImport := make([]models.Video, 0, len(playlistAssets.AssetList))

	for i, asset := range playlistAssets.AssetList {
		durationSeconds := int64(asset.Duration)
		totalDuration += durationSeconds

		title := strings.TrimSpace(asset.Title)
		if title == "" {
			title = defaultVideoTitle
		}
		description := strings.TrimSpace(asset.Description)
		if description == "" {
			description = defaultVideoDescription
		}

		videosToImport = append(videosToImport, models.Video{
			Title:             title,
			Description:       description,
			CourseID:          course.ID,
			GumletAssetID:     asset.ID,
			VideoOrder:        i + 1, // playlist order, 1-based
			DurationInSeconds: durationSeconds,
		})
	}

	if err := tx.Create(&videosToImport).Error; err != nil {
		tx.Rollback()
		log.Printf("Error inserting imported videos for course %s: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to import videos!", nil)
	}

	// Replacing the whole set: subtract what was removed, add what came in
	newDuration := course.DurationInSeconds - replacedDuration + totalDuration
	if newDuration < 0 {
		newDuration = totalDuration
	}
	if err := tx.Model(&models.Course{}).Where("id = ?", course.ID).
		Update("duration_in_seconds", newDuration).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to import videos!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos from playlist successfully imported!", fiber.Map{
		"imported":            len(videosToImport),
		"total_duration":      totalDuration,
		"duration_in_seconds": newDuration,
		"videos":              videosToImport,
	})
}
