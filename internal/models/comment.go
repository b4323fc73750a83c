package models

import "time"

// CommentStatus defines the moderation state of a comment.
type CommentStatus string

const (
	// CommentStatusPending indicates a comment is awaiting moderation.
	CommentStatusPending CommentStatus = "pending"
	// CommentStatusApproved indicates a comment is publicly visible.
	CommentStatusApproved CommentStatus = "approved"
	// CommentStatusRejected indicates a comment was declined.
	CommentStatusRejected CommentStatus = "rejected"
)

// Comment represents a reader-submitted comment on a post. Comments are
// created by unauthenticated visitors and always enter the moderation
// queue as pending; only approved comments appear in public listings.
type Comment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	PostID      uint          `gorm:"not null;index" json:"post_id"`
	Post        Post          `gorm:"foreignKey:PostID" json:"post,omitempty"`
	AuthorName  string        `gorm:"size:100;not null" json:"author_name"`
	AuthorEmail string        `gorm:"size:120" json:"author_email,omitempty"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	Status      CommentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
