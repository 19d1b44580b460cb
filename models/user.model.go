package models

type User struct {
	Base
	Name     string `json:"name" gorm:"default:''"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"default:'student'"` // student, admin, instructor
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

func (u *User) IsInstructor() bool {
	return u.Role == "instructor"
}
