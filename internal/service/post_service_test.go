package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	getBySlugFn     func(context.Context, string) (*models.Post, error)
	listPublishedFn func(context.Context, int, int) ([]models.Post, int64, error)
	listByAuthorFn  func(context.Context, uint, int, int) ([]models.Post, int64, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
	existsBySlugFn  func(context.Context, string) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) ListPublished(ctx context.Context, page, perPage int) ([]models.Post, int64, error) {
	return s.listPublishedFn(ctx, page, perPage)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, page, perPage int) ([]models.Post, int64, error) {
	return s.listByAuthorFn(ctx, authorID, page, perPage)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return s.existsBySlugFn(ctx, slug)
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn       func(context.Context, *models.Category) error
	getByIDFn      func(context.Context, uint) (*models.Category, error)
	getBySlugFn    func(context.Context, string) (*models.Category, error)
	listFn         func(context.Context) ([]models.Category, error)
	updateFn       func(context.Context, *models.Category) error
	deleteFn       func(context.Context, uint) error
	existsBySlugFn func(context.Context, string) (bool, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *categoryRepoStub) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return s.existsBySlugFn(ctx, slug)
}

// memoryPostRepo keeps created posts so slug probing can run against a
// realistic oracle.
func memoryPostRepo(existing ...string) (*postRepoStub, map[string]bool) {
	slugs := make(map[string]bool, len(existing))
	for _, s := range existing {
		slugs[s] = true
	}
	var nextID uint = 100
	stub := &postRepoStub{}
	stub.existsBySlugFn = func(_ context.Context, slug string) (bool, error) {
		return slugs[slug], nil
	}
	stub.createFn = func(_ context.Context, post *models.Post) error {
		if slugs[post.Slug] {
			return repository.ErrDuplicateSlug
		}
		slugs[post.Slug] = true
		nextID++
		post.ID = nextID
		return nil
	}
	stub.updateFn = func(_ context.Context, post *models.Post) error {
		slugs[post.Slug] = true
		return nil
	}
	stub.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}
	return stub, slugs
}

func passthroughGetByID(stub *postRepoStub) {
	created := make(map[uint]*models.Post)
	origCreate := stub.createFn
	stub.createFn = func(ctx context.Context, post *models.Post) error {
		if err := origCreate(ctx, post); err != nil {
			return err
		}
		cp := *post
		created[post.ID] = &cp
		return nil
	}
	stub.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		if p, ok := created[id]; ok {
			return p, nil
		}
		return nil, models.NewNotFoundError("Post", id)
	}
}

func noCategories() *categoryRepoStub {
	return &categoryRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return nil, models.NewNotFoundError("Category", id)
		},
	}
}

func TestCreatePost_AssignsUniqueSlug(t *testing.T) {
	t.Parallel()

	repo, slugs := memoryPostRepo("my-first-post", "my-first-post-1")
	passthroughGetByID(repo)
	svc := NewPostService(repo, noCategories())

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Title:    "My First Post!",
		Content:  "body",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-first-post-2", post.Slug)
	assert.True(t, slugs["my-first-post-2"])
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestCreatePost_PublishStampsPublishedAt(t *testing.T) {
	t.Parallel()

	repo, _ := memoryPostRepo()
	passthroughGetByID(repo)
	svc := NewPostService(repo, noCategories())

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Title:    "Launch Day",
		Content:  "body",
		Status:   models.PostStatusPublished,
	})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
}

func TestCreatePost_SymbolOnlyTitleRejected(t *testing.T) {
	t.Parallel()

	repo, _ := memoryPostRepo()
	svc := NewPostService(repo, noCategories())

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Title:    "!!! ???",
		Content:  "body",
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestCreatePost_RetriesOnInsertRace(t *testing.T) {
	t.Parallel()

	// Oracle says free, but the first insert loses a race.
	calls := 0
	repo := &postRepoStub{
		existsBySlugFn: func(_ context.Context, slug string) (bool, error) {
			// After the failed insert the oracle learns the truth.
			return calls > 0 && slug == "race-title", nil
		},
		createFn: func(_ context.Context, post *models.Post) error {
			calls++
			if calls == 1 {
				return repository.ErrDuplicateSlug
			}
			post.ID = 42
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Slug: "race-title-1"}, nil
		},
	}
	svc := NewPostService(repo, noCategories())

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Title:    "Race Title",
		Content:  "body",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "race-title-1", post.Slug)
}

func TestUpdatePost_OwnerOrAdmin(t *testing.T) {
	t.Parallel()

	stored := &models.Post{ID: 5, Title: "Mine", Slug: "mine", Content: "body", AuthorID: 7, Status: models.PostStatusDraft}
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			cp := *stored
			return &cp, nil
		},
		updateFn: func(_ context.Context, post *models.Post) error {
			stored = post
			return nil
		},
		existsBySlugFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}
	svc := NewPostService(repo, noCategories())
	newContent := "edited"

	t.Run("stranger is rejected", func(t *testing.T) {
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			PostID: 5, RequesterID: 99, RequesterRole: models.RoleAuthor,
			Content: &newContent,
		})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)
	})

	t.Run("owner may edit", func(t *testing.T) {
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			PostID: 5, RequesterID: 7, RequesterRole: models.RoleAuthor,
			Content: &newContent,
		})
		require.NoError(t, err)
		assert.Equal(t, "edited", stored.Content)
	})

	t.Run("admin may edit", func(t *testing.T) {
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			PostID: 5, RequesterID: 99, RequesterRole: models.RoleAdmin,
			Content: &newContent,
		})
		require.NoError(t, err)
	})
}

func TestUpdatePost_RetitleSameBaseKeepsSlug(t *testing.T) {
	t.Parallel()

	stored := &models.Post{ID: 5, Title: "Hello World", Slug: "hello-world", Content: "body", AuthorID: 7, Status: models.PostStatusDraft}
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			cp := *stored
			return &cp, nil
		},
		updateFn: func(_ context.Context, post *models.Post) error {
			stored = post
			return nil
		},
		// Mimics the table: the post's own row holds hello-world, so a
		// probe that counts it would push the slug to hello-world-1.
		existsBySlugFn: func(_ context.Context, candidate string) (bool, error) {
			return candidate == "hello-world", nil
		},
	}
	svc := NewPostService(repo, noCategories())

	title := "Hello  World!"
	post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID: 5, RequesterID: 7, RequesterRole: models.RoleAuthor,
		Title: &title,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello  World!", post.Title)
	assert.Equal(t, "hello-world", post.Slug, "same derived base must keep the slug")
}

func TestUpdatePost_PublishedAtSurvivesUnpublish(t *testing.T) {
	t.Parallel()

	stored := &models.Post{ID: 5, Title: "Live", Slug: "live", Content: "body", AuthorID: 7, Status: models.PostStatusDraft}
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			cp := *stored
			return &cp, nil
		},
		updateFn: func(_ context.Context, post *models.Post) error {
			stored = post
			return nil
		},
		existsBySlugFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}
	svc := NewPostService(repo, noCategories())

	publish := models.PostStatusPublished
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID: 5, RequesterID: 7, RequesterRole: models.RoleAuthor, Status: &publish,
	})
	require.NoError(t, err)
	require.NotNil(t, stored.PublishedAt)
	firstStamp := *stored.PublishedAt

	draft := models.PostStatusDraft
	_, err = svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID: 5, RequesterID: 7, RequesterRole: models.RoleAuthor, Status: &draft,
	})
	require.NoError(t, err)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, firstStamp, *stored.PublishedAt)

	// Republishing stamps a fresh time.
	_, err = svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID: 5, RequesterID: 7, RequesterRole: models.RoleAuthor, Status: &publish,
	})
	require.NoError(t, err)
	assert.True(t, !stored.PublishedAt.Before(firstStamp))
}

func TestUpdatePost_TitleChangeRederivesSlug(t *testing.T) {
	t.Parallel()

	stored := &models.Post{ID: 5, Title: "Old Title", Slug: "old-title", Content: "body", AuthorID: 7}
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			cp := *stored
			return &cp, nil
		},
		updateFn: func(_ context.Context, post *models.Post) error {
			stored = post
			return nil
		},
		existsBySlugFn: func(_ context.Context, slug string) (bool, error) {
			return slug == "new-title", nil
		},
	}
	svc := NewPostService(repo, noCategories())

	newTitle := "New Title"
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID: 5, RequesterID: 7, RequesterRole: models.RoleAuthor, Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-title-1", stored.Slug)
}

func TestGetPublishedBySlug_HidesDrafts(t *testing.T) {
	t.Parallel()

	repo := &postRepoStub{
		getBySlugFn: func(_ context.Context, slug string) (*models.Post, error) {
			return &models.Post{ID: 1, Slug: slug, Status: models.PostStatusDraft}, nil
		},
	}
	svc := NewPostService(repo, noCategories())

	_, err := svc.GetPublishedBySlug(context.Background(), "secret-draft")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestDeletePost_StrangerRejected(t *testing.T) {
	t.Parallel()

	deleted := false
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 7}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		},
	}
	svc := NewPostService(repo, noCategories())

	err := svc.DeletePost(context.Background(), 5, 99, models.RoleAuthor)
	require.Error(t, err)
	assert.False(t, deleted)

	err = svc.DeletePost(context.Background(), 5, 99, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, deleted)
}
