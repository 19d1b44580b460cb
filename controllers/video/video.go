package videoController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	videoValidator "lms/validators/video"
	"log"

	"github.com/gofiber/fiber/v2"
)

func GetAllVideos(c *fiber.Ctx) error {
	var videos []models.Video
	if err := database.Database.Db.Order("course_id, video_order asc").Find(&videos).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch videos!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos fetched successfully!", fiber.Map{
		"videos": videos,
	})
}

func GetVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(string)

	var video models.Video
	if err := database.Database.Db.Where("id = ?", videoID).First(&video).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Video not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video fetched successfully!", video)
}

// CreateVideo adds a single video to a course. The duration is fetched from
// the video host, never taken from the client, and the course duration
// increment commits together with the insert.
func CreateVideo(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVideo").(*videoValidator.CreateVideoRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ?", reqData.CourseID).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	asset, err := services.Host.GetAsset(reqData.GumletAssetID)
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Asset not found on Gumlet!")
		}
		log.Printf("Error fetching asset %s from Gumlet: %v", reqData.GumletAssetID, err)
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, middleware.ErrExternalService, "Failed to communicate with the video host!")
	}

	durationSeconds := int64(asset.Input.Duration)

	video := models.Video{
		Title:             reqData.Title,
		Description:       reqData.Description,
		CourseID:          reqData.CourseID,
		GumletAssetID:     reqData.GumletAssetID,
		VideoOrder:        reqData.VideoOrder,
		DurationInSeconds: durationSeconds,
	}

	tx := db.Begin()
	if err := tx.Model(&models.Course{}).Where("id = ?", course.ID).
		Update("duration_in_seconds", course.DurationInSeconds+durationSeconds).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video!", nil)
	}
	if err := tx.Create(&video).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video created successfully!", video)
}

func UpdateVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(string)

	reqData, ok := c.Locals("validatedVideoUpdate").(*videoValidator.UpdateVideoRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var video models.Video
	if err := db.Where("id = ?", videoID).First(&video).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Video not found!")
	}

	// Only presentation fields are editable; asset id and duration are host-owned
	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.VideoOrder != nil {
		updates["video_order"] = *reqData.VideoOrder
	}

	if len(updates) > 0 {
		if err := db.Model(&video).Updates(updates).Error; err != nil {
			log.Printf("Error updating video %s: %v", videoID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update video!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video updated successfully!", video)
}

// DeleteVideo removes a video and subtracts its duration from the course
// total in the same transaction.
func DeleteVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(string)
	db := database.Database.Db

	var video models.Video
	if err := db.Where("id = ?", videoID).First(&video).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Video not found!")
	}

	var course models.Course
	if err := db.Where("id = ?", video.CourseID).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.ErrNotFound, "Course not found!")
	}

	newDuration := course.DurationInSeconds - video.DurationInSeconds
	if newDuration < 0 {
		newDuration = 0
	}

	tx := db.Begin()
	if err := tx.Where("video_id = ?", video.ID).Delete(&models.VideoProgress{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}
	if err := tx.Delete(&video).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}
	if err := tx.Model(&models.Course{}).Where("id = ?", course.ID).
		Update("duration_in_seconds", newDuration).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video deleted successfully!", nil)
}
