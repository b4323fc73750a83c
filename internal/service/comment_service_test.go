package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn             func(context.Context, *models.Comment) error
	getByIDFn            func(context.Context, uint) (*models.Comment, error)
	listApprovedByPostFn func(context.Context, uint) ([]models.Comment, error)
	listPendingFn        func(context.Context) ([]models.Comment, error)
	updateFn             func(context.Context, *models.Comment) error
	deleteFn             func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListApprovedByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listApprovedByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListPending(ctx context.Context) ([]models.Comment, error) {
	return s.listPendingFn(ctx)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func publishedPostRepo() *postRepoStub {
	return &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			if id == 404 {
				return nil, models.NewNotFoundError("Post", id)
			}
			status := models.PostStatusPublished
			if id == 13 {
				status = models.PostStatusDraft
			}
			return &models.Post{ID: id, Status: status}, nil
		},
	}
}

func TestCreateComment_ForcesPendingStatus(t *testing.T) {
	t.Parallel()

	var saved *models.Comment
	repo := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			saved = c
			return nil
		},
	}
	svc := NewCommentService(repo, publishedPostRepo())

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		PostID:     1,
		AuthorName: "Reader",
		Content:    "Great write-up",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusPending, comment.Status)
	assert.Equal(t, models.CommentStatusPending, saved.Status)
}

func TestCreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(&commentRepoStub{}, publishedPostRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateCommentInput
	}{
		{"missing name", CreateCommentInput{PostID: 1, Content: "hi"}},
		{"missing content", CreateCommentInput{PostID: 1, AuthorName: "Reader"}},
		{"bad email", CreateCommentInput{PostID: 1, AuthorName: "Reader", AuthorEmail: "not-an-email", Content: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(ctx, tt.input)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, models.CodeValidation, appErr.Code)
		})
	}
}

func TestCreateComment_PostMustExistAndBePublished(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(&commentRepoStub{}, publishedPostRepo())
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{PostID: 404, AuthorName: "Reader", Content: "hi"})
	require.Error(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: 13, AuthorName: "Reader", Content: "hi"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestModeration_UnconditionalOverwrite(t *testing.T) {
	t.Parallel()

	stored := &models.Comment{ID: 1, PostID: 2, Status: models.CommentStatusRejected}
	repo := &commentRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.Comment, error) {
			cp := *stored
			return &cp, nil
		},
		updateFn: func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		},
	}
	svc := NewCommentService(repo, publishedPostRepo())

	// A rejected comment can still be approved.
	comment, err := svc.Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusApproved, comment.Status)
	assert.Equal(t, models.CommentStatusApproved, stored.Status)

	// And back again.
	comment, err = svc.Reject(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusRejected, comment.Status)
}

func TestModeration_UnknownComment(t *testing.T) {
	t.Parallel()

	repo := &commentRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		},
	}
	svc := NewCommentService(repo, publishedPostRepo())

	_, err := svc.Approve(context.Background(), 99)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestListApproved_DraftPostHidden(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(&commentRepoStub{}, publishedPostRepo())

	_, err := svc.ListApproved(context.Background(), 13)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
