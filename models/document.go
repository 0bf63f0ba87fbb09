package models

import (
	"time"
)

type FileType string

const (
	FileTypeAudio    FileType = "audio"
	FileTypeDocument FileType = "document"
)

type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SectionID   uint      `gorm:"not null;index" json:"section_id"`
	Section     *Section  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	FileURL     string    `gorm:"size:512;not null" json:"file_url"` // external blob storage, not owned here
	FileType    FileType  `gorm:"size:50;not null" json:"file_type"`
	OrderIndex  int       `gorm:"column:order_index;default:0;not null" json:"order_index"`
	DurationSec *float64  `json:"duration_sec,omitempty"` // mp3 only
	PageCount   *int      `json:"page_count,omitempty"`   // pdf only
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Document) TableName() string { return "section_documents" }
