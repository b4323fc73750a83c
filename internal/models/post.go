package models

import (
	"time"
)

// PostStatus defines the publication state of a post.
type PostStatus string

const (
	// PostStatusDraft indicates a post is not publicly visible.
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished indicates a post is live.
	PostStatusPublished PostStatus = "published"
)

// ValidPostStatus reports whether s is a recognized publication state.
func ValidPostStatus(s PostStatus) bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post represents a blog post in the Inkwell application.
//
// PublishedAt is stamped the first time the post transitions to
// published (including publish-at-create) and is never cleared, so it
// survives a later return to draft as an audit trail.
type Post struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Slug            string     `gorm:"size:250;uniqueIndex;not null" json:"slug"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Excerpt         string     `gorm:"type:text" json:"excerpt,omitempty"`
	FeaturedImage   string     `gorm:"size:500" json:"featured_image,omitempty"`
	Status          PostStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	AuthorID        uint       `gorm:"not null;index" json:"author_id"`
	Author          User       `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID      *uint      `gorm:"index" json:"category_id,omitempty"`
	Category        *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	MetaTitle       string     `gorm:"size:200" json:"meta_title,omitempty"`
	MetaDescription string     `gorm:"size:300" json:"meta_description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// CanMutate reports whether the requester may update or delete the post.
// The rule is owner-or-admin.
func (p *Post) CanMutate(requesterID uint, requesterRole Role) bool {
	return p.AuthorID == requesterID || requesterRole == RoleAdmin
}
