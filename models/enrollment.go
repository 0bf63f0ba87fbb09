package models

// Enrollment is the student_course junction row. It has no payload.
type Enrollment struct {
	StudentID uint     `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	CourseID  uint     `gorm:"primaryKey;autoIncrement:false" json:"course_id"`
	Student   *Student `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Course    *Course  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

func (Enrollment) TableName() string { return "student_course" }
