package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[DURATION-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// reconcileCourseDurations recomputes each course's duration from its videos
// and corrects any drift left behind by partial writes.
func reconcileCourseDurations() {
	db := database.Database.Db

	var courses []models.Course
	if err := db.Find(&courses).Error; err != nil {
		logScheduler("Error fetching courses: " + err.Error())
		return
	}

	corrected := 0
	for _, course := range courses {
		var actual int64
		err := db.Model(&models.Video{}).
			Where("course_id = ?", course.ID).
			Select("COALESCE(SUM(duration_in_seconds), 0)").
			Scan(&actual).Error
		if err != nil {
			logScheduler("Error summing durations for course " + course.ID + ": " + err.Error())
			continue
		}

		if actual != course.DurationInSeconds {
			if err := db.Model(&course).Update("duration_in_seconds", actual).Error; err != nil {
				logScheduler("Error correcting duration for course " + course.ID + ": " + err.Error())
				continue
			}
			logScheduler("Corrected duration drift for course " + course.ID)
			corrected++
		}
	}

	if corrected > 0 {
		logScheduler("Duration reconciliation finished with corrections")
	}
}

// StartDurationScheduler reconciles course durations nightly at 3 AM
func StartDurationScheduler() *cron.Cron {
	c := cron.New()

	c.AddFunc("0 3 * * *", func() {
		reconcileCourseDurations()
	})

	c.Start()
	logScheduler("Duration scheduler started - runs daily at 3 AM")
	return c
}
