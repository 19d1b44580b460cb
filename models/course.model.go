package models

// Course represents a learning course
type Course struct {
	Base
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Thumbnail         string  `json:"thumbnail"`
	Category          string  `json:"category"`
	Level             string  `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced
	Status            string  `json:"status" gorm:"default:'draft'"`   // draft, published, archived
	Price             float64 `json:"price" gorm:"default:0"`
	Rating            float32 `json:"rating" gorm:"default:0"`
	UserInstructorID  string  `json:"user_instructor_id" gorm:"type:uuid;index;not null"`
	DurationInSeconds int64   `json:"duration_in_seconds" gorm:"default:0"` // sum of video durations, never user-edited

	Instructor  *User        `json:"instructor,omitempty" gorm:"foreignKey:UserInstructorID"`
	Videos      []Video      `json:"videos,omitempty" gorm:"foreignKey:CourseID"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID"`
}
