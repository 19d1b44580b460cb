package models

// Enrollment links a user to a course with an aggregate progress percentage.
// A user can enroll in a course at most once.
type Enrollment struct {
	Base
	UserID   string  `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_enrollments_user_course;not null"`
	CourseID string  `json:"course_id" gorm:"type:uuid;uniqueIndex:idx_enrollments_user_course;not null"`
	Progress float64 `json:"progress" gorm:"default:0"` // completion percentage (0-100)

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
