package models

import (
	"time"
)

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:255;index" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	Content     *string   `gorm:"type:text" json:"content"`
	Instructor  *string   `gorm:"size:255" json:"instructor"`
	Duration    *string   `gorm:"size:100" json:"duration"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	IsActive    bool      `gorm:"default:true;not null" json:"is_active"`

	// Always materialized in (order_index, created_at) order.
	Sections []Section `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"sections"`
}

func (Course) TableName() string { return "courses" }
