package models

// VideoProgress marks a single video as watched within an enrollment.
// The unique index on (enrollment_id, video_id) is the idempotency key
// for "mark complete".
type VideoProgress struct {
	Base
	EnrollmentID string `json:"enrollment_id" gorm:"type:uuid;uniqueIndex:idx_video_progress_enrollment_video;not null"`
	VideoID      string `json:"video_id" gorm:"type:uuid;uniqueIndex:idx_video_progress_enrollment_video;not null"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}
