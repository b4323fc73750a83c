package models

import "time"

// Image records an uploaded featured image. Files are stored on disk
// under a content-derived hash directory with a JPEG master and a WebP
// variant; the DB row carries the metadata.
type Image struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Hash             string    `gorm:"size:64;uniqueIndex;not null" json:"hash"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	OriginalFilename string    `gorm:"size:255" json:"original_filename"`
	MimeType         string    `gorm:"size:64" json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Path             string    `gorm:"size:500" json:"-"`
	WebPPath         string    `gorm:"size:500" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}
