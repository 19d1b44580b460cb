package models

// Video belongs to a course; its duration comes from the video host, not the client
type Video struct {
	Base
	Title             string `json:"title"`
	Description       string `json:"description"`
	CourseID          string `json:"course_id" gorm:"type:uuid;index;not null"`
	GumletAssetID     string `json:"gumlet_asset_id"`
	VideoOrder        int    `json:"video_order"` // 1-based playback order within the course
	DurationInSeconds int64  `json:"duration_in_seconds" gorm:"default:0"`
}
