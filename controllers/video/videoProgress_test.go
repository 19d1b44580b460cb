package videoController

import (
	"lms/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func seedEnrolledCourse(t *testing.T, db *gorm.DB) (models.Enrollment, []models.Video, string) {
	instructor, _ := seedUser(t, db, "teach@example.com", "instructor")
	student, token := seedUser(t, db, "student@example.com", "student")
	course := seedCourse(t, db, instructor.ID, 120)

	first := models.Video{Title: "Intro", CourseID: course.ID, VideoOrder: 1, DurationInSeconds: 60}
	second := models.Video{Title: "Slices", CourseID: course.ID, VideoOrder: 2, DurationInSeconds: 60}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	enrollment := models.Enrollment{UserID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	return enrollment, []models.Video{first, second}, token
}

func TestMarkCompleteIdempotent(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, videos, token := seedEnrolledCourse(t, db)
	path := "/videos/" + enrollment.ID + "/" + videos[0].ID + "/complete"

	resp, _ := call(t, app, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Marking the same video again is a no-op, not an error
	resp, _ = call(t, app, "POST", path, token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	db.Model(&models.VideoProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// One of two videos watched: progress lands at 50
	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, "id = ?", enrollment.ID).Error)
	assert.Equal(t, 50.0, reloaded.Progress)
}

func TestMarkCompleteReaches100(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, videos, token := seedEnrolledCourse(t, db)

	for _, video := range videos {
		resp, _ := call(t, app, "POST", "/videos/"+enrollment.ID+"/"+video.ID+"/complete", token, nil)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, "id = ?", enrollment.ID).Error)
	assert.Equal(t, 100.0, reloaded.Progress)
}

func TestMarkCompleteForeignEnrollment(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, videos, _ := seedEnrolledCourse(t, db)
	_, strangerToken := seedUser(t, db, "stranger@example.com", "student")

	// A foreign enrollment id reads as missing, not forbidden
	resp, envelope := call(t, app, "POST", "/videos/"+enrollment.ID+"/"+videos[0].ID+"/complete", strangerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", envelope["error"])
}

func TestMarkCompleteCrossCourseVideo(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, _, token := seedEnrolledCourse(t, db)

	other, _ := seedUser(t, db, "teach2@example.com", "instructor")
	otherCourse := seedCourse(t, db, other.ID, 0)
	foreignVideo := models.Video{Title: "Elsewhere", CourseID: otherCourse.ID, VideoOrder: 1}
	require.NoError(t, db.Create(&foreignVideo).Error)

	resp, _ := call(t, app, "POST", "/videos/"+enrollment.ID+"/"+foreignVideo.ID+"/complete", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUnmarkMissingCompletion(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, videos, token := seedEnrolledCourse(t, db)

	resp, envelope := call(t, app, "DELETE", "/videos/"+enrollment.ID+"/"+videos[0].ID+"/complete", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", envelope["error"])
}

func TestUnmarkRecalculatesProgress(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, videos, token := seedEnrolledCourse(t, db)

	for _, video := range videos {
		resp, _ := call(t, app, "POST", "/videos/"+enrollment.ID+"/"+video.ID+"/complete", token, nil)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, _ := call(t, app, "DELETE", "/videos/"+enrollment.ID+"/"+videos[0].ID+"/complete", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, "id = ?", enrollment.ID).Error)
	assert.Equal(t, 50.0, reloaded.Progress)
}

func TestCompletedVideosList(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, videos, token := seedEnrolledCourse(t, db)

	// Empty completions serialize as an empty array, not null
	resp, envelope := call(t, app, "GET", "/enrollments/"+enrollment.ID+"/completed-videos", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{}, envelope["data"])

	resp, _ = call(t, app, "POST", "/videos/"+enrollment.ID+"/"+videos[1].ID+"/complete", token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, envelope = call(t, app, "GET", "/enrollments/"+enrollment.ID+"/completed-videos", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	ids := envelope["data"].([]interface{})
	require.Len(t, ids, 1)
	assert.Equal(t, videos[1].ID, ids[0])

	resp, _ = call(t, app, "DELETE", "/videos/"+enrollment.ID+"/"+videos[1].ID+"/complete", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, envelope = call(t, app, "GET", "/enrollments/"+enrollment.ID+"/completed-videos", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{}, envelope["data"])
}

func TestCompletedVideosForeignEnrollment(t *testing.T) {
	app, db, _ := setupVideoTest(t)

	enrollment, _, _ := seedEnrolledCourse(t, db)
	_, strangerToken := seedUser(t, db, "stranger@example.com", "student")

	resp, _ := call(t, app, "GET", "/enrollments/"+enrollment.ID+"/completed-videos", strangerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
