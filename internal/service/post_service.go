// Package service contains the business logic between handlers and
// repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/slug"
)

const (
	maxTitleLen   = 200
	maxContentLen = 100000

	// slugInsertAttempts bounds the re-derive loop when a concurrent
	// writer claims the slug between the oracle check and the insert.
	slugInsertAttempts = 3
)

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

type CreatePostInput struct {
	AuthorID        uint
	Title           string
	Content         string
	Excerpt         string
	FeaturedImage   string
	Status          models.PostStatus
	CategoryID      *uint
	MetaTitle       string
	MetaDescription string
}

// UpdatePostInput carries partial updates. Nil pointer fields are left
// unchanged; RequesterID and RequesterRole drive the owner-or-admin
// check.
type UpdatePostInput struct {
	PostID        uint
	RequesterID   uint
	RequesterRole models.Role

	Title           *string
	Content         *string
	Excerpt         *string
	FeaturedImage   *string
	Status          *models.PostStatus
	CategoryID      *uint
	ClearCategory   bool
	MetaTitle       *string
	MetaDescription *string
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository) *PostService {
	return &PostService{postRepo: postRepo, categoryRepo: categoryRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long")
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !models.ValidPostStatus(status) {
		return nil, models.NewValidationError("Status must be draft or published")
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, models.NewValidationError("Unknown category")
		}
	}

	post := &models.Post{
		Title:           in.Title,
		Content:         in.Content,
		Excerpt:         in.Excerpt,
		FeaturedImage:   in.FeaturedImage,
		Status:          status,
		AuthorID:        in.AuthorID,
		CategoryID:      in.CategoryID,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
	}
	if status == models.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.persistWithFreshSlug(ctx, post, in.Title, func() error {
		return s.postRepo.Create(ctx, post)
	}); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// persistWithFreshSlug derives a unique slug for title, sets it on post
// and runs save. When save loses a slug race it re-derives against the
// now-current table state and tries again, up to slugInsertAttempts.
func (s *PostService) persistWithFreshSlug(ctx context.Context, post *models.Post, title string, save func() error) error {
	for attempt := 0; attempt < slugInsertAttempts; attempt++ {
		assigned, err := s.assignSlug(ctx, title)
		if err != nil {
			return err
		}
		post.Slug = assigned

		err = save()
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrDuplicateSlug) {
			middleware.SlugCollisionRetries.Inc()
			continue
		}
		return err
	}
	return models.NewConflictError("could not assign a unique slug, try again")
}

func (s *PostService) assignSlug(ctx context.Context, title string) (string, error) {
	if slug.Make(title) == "" {
		return "", models.NewValidationError("Title must contain at least one letter or digit")
	}

	var oracleErr error
	assigned := slug.Assign(title, func(candidate string) bool {
		if oracleErr != nil {
			return false
		}
		exists, err := s.postRepo.ExistsBySlug(ctx, candidate)
		if err != nil {
			oracleErr = err
			return false
		}
		return exists
	})
	if oracleErr != nil {
		return "", oracleErr
	}
	return assigned, nil
}

// GetPublishedBySlug is the public read path. Drafts are reported as
// not found so their existence does not leak.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slugVal string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slugVal)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, models.NewNotFoundError("Post", slugVal)
	}
	return post, nil
}

// GetPost returns a post for an authenticated caller. Drafts are only
// visible to their owner or an admin.
func (s *PostService) GetPost(ctx context.Context, id uint, requesterID uint, requesterRole models.Role) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished && !post.CanMutate(requesterID, requesterRole) {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) ListPublished(ctx context.Context, page, perPage int) ([]models.Post, int64, error) {
	return s.postRepo.ListPublished(ctx, page, perPage)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, page, perPage int) ([]models.Post, int64, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, page, perPage)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.CanMutate(in.RequesterID, in.RequesterRole) {
		return nil, models.NewUnauthorizedError("You can only modify your own posts")
	}

	titleChanged := false
	if in.Title != nil && *in.Title != post.Title {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = *in.Title
		// A retitle that derives the same base keeps the current slug;
		// probing would count this post's own row and suffix needlessly.
		titleChanged = slug.Make(post.Title) != post.Slug
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content is required")
		}
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long")
		}
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}
	if in.MetaTitle != nil {
		post.MetaTitle = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		post.MetaDescription = *in.MetaDescription
	}
	if in.ClearCategory {
		post.CategoryID = nil
		post.Category = nil
	} else if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, models.NewValidationError("Unknown category")
		}
		post.CategoryID = in.CategoryID
	}

	if in.Status != nil {
		if !models.ValidPostStatus(*in.Status) {
			return nil, models.NewValidationError("Status must be draft or published")
		}
		// PublishedAt is stamped on the first transition to published
		// and kept through later unpublishes.
		if post.Status != models.PostStatusPublished && *in.Status == models.PostStatusPublished {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Status = *in.Status
	}

	if titleChanged {
		if err := s.persistWithFreshSlug(ctx, post, post.Title, func() error {
			return s.postRepo.Update(ctx, post)
		}); err != nil {
			return nil, err
		}
	} else if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint, requesterRole models.Role) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.CanMutate(requesterID, requesterRole) {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
