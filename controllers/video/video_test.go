package videoController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	courseValidator "lms/validators/course"
	videoValidator "lms/validators/video"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubHost stands in for the Gumlet client
type stubHost struct {
	assets    map[string]*services.GumletAsset
	playlists map[string]*services.PlaylistAssets
	err       error
	calls     int
}

func (s *stubHost) GetAsset(assetID string) (*services.GumletAsset, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	asset, ok := s.assets[assetID]
	if !ok {
		return nil, services.ErrAssetNotFound
	}
	return asset, nil
}

func (s *stubHost) GetPlaylistAssets(playlistID string) (*services.PlaylistAssets, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	playlist, ok := s.playlists[playlistID]
	if !ok {
		return nil, services.ErrAssetNotFound
	}
	return playlist, nil
}

func newStubHost() *stubHost {
	return &stubHost{
		assets:    map[string]*services.GumletAsset{},
		playlists: map[string]*services.PlaylistAssets{},
	}
}

func (s *stubHost) addAsset(id, title string, duration float64) {
	asset := &services.GumletAsset{AssetID: id, Status: "ready"}
	asset.Input.Title = title
	asset.Input.Duration = duration
	s.assets[id] = asset
}

func setupVideoTest(t *testing.T) (*fiber.App, *gorm.DB, *stubHost) {
	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	host := newStubHost()
	services.Host = host

	app := fiber.New()

	videoGroup := app.Group("/videos", middleware.JWTMiddleware)
	videoGroup.Get("/", GetAllVideos)
	videoGroup.Post("/", middleware.RequireAdmin, videoValidator.CreateVideo(), CreateVideo)
	videoGroup.Post("/import", middleware.RequireAdmin, videoValidator.ImportVideos(), ImportVideosFromPlaylist)
	videoGroup.Post("/:enrollment/:video/complete", videoValidator.ProgressParams(), MarkVideoComplete)
	videoGroup.Delete("/:enrollment/:video/complete", videoValidator.ProgressParams(), UnmarkVideoComplete)
	videoGroup.Get("/:id", videoValidator.VideoID(), GetVideo)
	videoGroup.Put("/:id", middleware.RequireAdmin, videoValidator.VideoID(), videoValidator.UpdateVideo(), UpdateVideo)
	videoGroup.Delete("/:id", middleware.RequireAdmin, videoValidator.VideoID(), DeleteVideo)

	app.Get("/enrollments/:id/completed-videos", middleware.JWTMiddleware, courseValidator.EnrollmentID(), GetCompletedVideos)

	return app, db, host
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) (models.User, string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Name: "Test " + role, Email: email, Password: string(hashed), Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func seedCourse(t *testing.T, db *gorm.DB, instructorID string, duration int64) models.Course {
	course := models.Course{
		Title:             "Go Basics",
		Category:          "engineering",
		UserInstructorID:  instructorID,
		DurationInSeconds: duration,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestCreateVideoDerivesDuration(t *testing.T) {
	app, db, host := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 100)

	host.addAsset("asset-1", "Intro", 321.7)

	resp, envelope := call(t, app, "POST", "/videos", adminToken, fiber.Map{
		"title":           "Intro",
		"description":     "First lesson",
		"course_id":       course.ID,
		"gumlet_asset_id": "asset-1",
		"video_order":     1,
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(321), data["duration_in_seconds"])

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, int64(421), reloaded.DurationInSeconds)
}

func TestCreateVideoUnknownAsset(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 100)

	resp, envelope := call(t, app, "POST", "/videos", adminToken, fiber.Map{
		"title":           "Intro",
		"course_id":       course.ID,
		"gumlet_asset_id": "missing",
		"video_order":     1,
	})

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", envelope["error"])

	// Nothing was written
	var count int64
	db.Model(&models.Video{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, int64(100), reloaded.DurationInSeconds)
}

func TestCreateVideoHostDown(t *testing.T) {
	app, db, host := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 0)

	host.err = fmt.Errorf("connection refused")

	resp, envelope := call(t, app, "POST", "/videos", adminToken, fiber.Map{
		"title":           "Intro",
		"course_id":       course.ID,
		"gumlet_asset_id": "asset-1",
		"video_order":     1,
	})

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", envelope["error"])
}

func TestCreateVideoAdminOnly(t *testing.T) {
	app, db, host := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, studentToken := seedUser(t, db, "student@example.com", "student")
	course := seedCourse(t, db, instructor.ID, 0)

	resp, envelope := call(t, app, "POST", "/videos", studentToken, fiber.Map{
		"title":           "Intro",
		"course_id":       course.ID,
		"gumlet_asset_id": "asset-1",
		"video_order":     1,
	})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", envelope["error"])
	assert.Equal(t, 0, host.calls)
}

func TestUpdateVideoIgnoresDuration(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 60)

	video := models.Video{Title: "Intro", CourseID: course.ID, VideoOrder: 1, DurationInSeconds: 60}
	require.NoError(t, db.Create(&video).Error)

	resp, _ := call(t, app, "PUT", "/videos/"+video.ID, adminToken, fiber.Map{
		"title":               "Intro v2",
		"duration_in_seconds": 9999,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Video
	require.NoError(t, db.First(&reloaded, "id = ?", video.ID).Error)
	assert.Equal(t, "Intro v2", reloaded.Title)
	assert.Equal(t, int64(60), reloaded.DurationInSeconds)
}

func TestDeleteVideoDecrementsDuration(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	student, _ := seedUser(t, db, "student@example.com", "student")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	course := seedCourse(t, db, instructor.ID, 180)

	video := models.Video{Title: "Intro", CourseID: course.ID, VideoOrder: 1, DurationInSeconds: 60}
	require.NoError(t, db.Create(&video).Error)

	enrollment := models.Enrollment{UserID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(&enrollment).Error)
	require.NoError(t, db.Create(&models.VideoProgress{EnrollmentID: enrollment.ID, VideoID: video.ID}).Error)

	resp, _ := call(t, app, "DELETE", "/videos/"+video.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Course
	require.NoError(t, db.First(&reloaded, "id = ?", course.ID).Error)
	assert.Equal(t, int64(120), reloaded.DurationInSeconds)

	var count int64
	db.Model(&models.VideoProgress{}).Where("video_id = ?", video.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetAllVideosOrdered(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	_, token := seedUser(t, db, "student@example.com", "student")
	course := seedCourse(t, db, instructor.ID, 0)

	second := models.Video{Title: "Slices", CourseID: course.ID, VideoOrder: 2}
	first := models.Video{Title: "Intro", CourseID: course.ID, VideoOrder: 1}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&first).Error)

	resp, envelope := call(t, app, "GET", "/videos", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	videos := envelope["data"].(map[string]interface{})["videos"].([]interface{})
	require.Len(t, videos, 2)
	assert.Equal(t, "Intro", videos[0].(map[string]interface{})["title"])
	assert.Equal(t, "Slices", videos[1].(map[string]interface{})["title"])
}
