package videoController

import (
	"fmt"
	"lms/models"
	"lms/services"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportReplacesVideos(t *testing.T) {
	app, db, host := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 120)

	// Two existing videos worth 120 seconds get replaced wholesale
	require.NoError(t, db.Create(&models.Video{Title: "Old 1", CourseID: course.ID, VideoOrder: 1, DurationInSeconds: 50}).Error)
	require.NoError(t, db.Create(&models.Video{Title: "Old 2", CourseID: course.ID, VideoOrder: 2, DurationInSeconds: 70}).Error)

	host.playlists["playlist-1"] = &services.PlaylistAssets{AssetList: []services.PlaylistAsset{
		{ID: "a1", Title: "Intro", Description: "First", Duration: 100},
		{ID: "a2", Title: "Slices", Description: "Second", Duration: 200},
		{ID: "a3", Title: "Maps", Description: "Third", Duration: 120},
	}}

	resp, envelope := call(t, app, "POST", "/videos/import", adminToken, fiber.Map{
		"playlist_id": "playlist-1",
		"course_id":   course.ID,
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["imported"])
	assert.Equal(t, float64(420), data["total_duration"])
	assert.Equal(t, float64(420), data["duration_in_seconds"])

	var videos []models.Video
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("video_order asc").Find(&videos).Error)
	require.Len(t, videos, 3)

	assert.Equal(t, "Intro", videos[0].Title)
	assert.Equal(t, 1, videos[0].VideoOrder)
	assert.Equal(t, "a1", videos[0].GumletAssetID)
	assert.Equal(t, "Maps", videos[2].Title)
	assert.Equal(t, 3, videos[2].VideoOrder)

	// Course duration equals the imported sum after a full replacement
	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, int64(420), reloaded.DurationInSeconds)
}

func TestImportDefaults(t *testing.T) {
	app, db, host := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 0)

	host.playlists["playlist-1"] = &services.PlaylistAssets{AssetList: []services.PlaylistAsset{
		{ID: "a1", Title: "  ", Description: ""},
	}}

	resp, _ := call(t, app, "POST", "/videos/import", adminToken, fiber.Map{
		"playlist_id": "playlist-1",
		"course_id":   course.ID,
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var video models.Video
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&video).Error)
	assert.Equal(t, "Untitled", video.Title)
	assert.Equal(t, "No description", video.Description)
	assert.Equal(t, int64(0), video.DurationInSeconds)
}

func TestImportEmptyPlaylistRollsBack(t *testing.T) {
	app, db, host := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 50)

	require.NoError(t, db.Create(&models.Video{Title: "Old", CourseID: course.ID, VideoOrder: 1, DurationInSeconds: 50}).Error)

	host.playlists["playlist-1"] = &services.PlaylistAssets{}

	resp, envelope := call(t, app, "POST", "/videos/import", adminToken, fiber.Map{
		"playlist_id": "playlist-1",
		"course_id":   course.ID,
	})

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", envelope["error"])

	// The existing catalog survived the rollback
	var count int64
	db.Model(&models.Video{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, int64(50), reloaded.DurationInSeconds)
}

func TestImportHostErrorRollsBack(t *testing.T) {
	app, db, host := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 50)

	require.NoError(t, db.Create(&models.Video{Title: "Old", CourseID: course.ID, VideoOrder: 1, DurationInSeconds: 50}).Error)

	host.err = fmt.Errorf("gateway timeout")

	resp, envelope := call(t, app, "POST", "/videos/import", adminToken, fiber.Map{
		"playlist_id": "playlist-1",
		"course_id":   course.ID,
	})

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", envelope["error"])

	var count int64
	db.Model(&models.Video{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestImportUnknownPlaylist(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 0)

	resp, envelope := call(t, app, "POST", "/videos/import", adminToken, fiber.Map{
		"playlist_id": "no-such-playlist",
		"course_id":   course.ID,
	})

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", envelope["error"])
}

func TestImportUnknownCourse(t *testing.T) {
	app, db, host := setupVideoTest(t)

	_, adminToken := seedUser(t, db, "admin@example.com", "admin")

	resp, _ := call(t, app, "POST", "/videos/import", adminToken, fiber.Map{
		"playlist_id": "playlist-1",
		"course_id":   "a2a4b35e-5f17-4b29-b438-2f07af52c1aa",
	})

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	// The host is never contacted when the course does not exist
	assert.Equal(t, 0, host.calls)
}

func TestImportAdminOnly(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, studentToken := seedUser(t, db, "student@example.com", "student")
	course := seedCourse(t, db, instructor.ID, 0)

	resp, _ := call(t, app, "POST", "/videos/import", studentToken, fiber.Map{
		"playlist_id": "playlist-1",
		"course_id":   course.ID,
	})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
