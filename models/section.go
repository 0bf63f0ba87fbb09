package models

import (
	"time"
)

type Section struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Course      *Course   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	OrderIndex  int       `gorm:"column:order_index;default:0;not null" json:"order_index"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Documents []Document `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE;" json:"documents"`
}

func (Section) TableName() string { return "course_sections" }
