package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateSlug signals that an insert or update lost a race for a
// slug that looked free moments earlier. Callers may re-derive the slug
// and retry.
var ErrDuplicateSlug = errors.New("slug already taken")

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPublished(ctx context.Context, page, perPage int) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, page, perPage int) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return mapPostWriteError(err)
	}
	cache.InvalidatePublishedLists(ctx)
	return nil
}

// mapPostWriteError distinguishes a slug-index collision, which the
// service layer retries with a fresh slug, from any other unique
// violation on the posts table. SQLite does not name the constraint,
// so an anonymous violation is assumed to be the slug index; it is the
// only unique column on the table.
func mapPostWriteError(err error) error {
	if !IsUniqueViolation(err) {
		return models.NewInternalError(err)
	}
	if col := UniqueColumn(err); col != "" && !strings.Contains(col, "slug") {
		return models.NewConflictError("Post conflicts with an existing record")
	}
	return ErrDuplicateSlug
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Author").
			Preload("Category").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// ListPublished returns one page of published posts, newest published
// first, plus the total published count for pagination metadata.
func (r *postRepository) ListPublished(ctx context.Context, page, perPage int) ([]models.Post, int64, error) {
	type pagePayload struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	var payload pagePayload

	err := cache.Aside(ctx, cache.PostListKey(ctx, page, perPage), &payload, cache.ListTTL, func() error {
		q := r.db.WithContext(ctx).Model(&models.Post{}).Where("status = ?", models.PostStatusPublished)
		if err := q.Count(&payload.Total).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := q.
			Preload("Author").
			Preload("Category").
			Order("published_at desc").
			Limit(perPage).
			Offset((page - 1) * perPage).
			Find(&payload.Posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return payload.Posts, payload.Total, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, page, perPage int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := q.
		Preload("Category").
		Order("created_at desc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return mapPostWriteError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePublishedLists(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePublishedLists(ctx)
	return nil
}

// ExistsBySlug is the uniqueness oracle used while deriving slugs.
func (r *postRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
