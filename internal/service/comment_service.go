package service

import (
	"context"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const maxCommentLen = 5000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	PostID      uint
	AuthorName  string
	AuthorEmail string
	Content     string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment accepts an anonymous submission. Every comment enters
// the queue as pending regardless of anything the client sent.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.AuthorName) == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(in.AuthorName) > 100 {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}
	if in.AuthorEmail != "" {
		if err := validation.ValidateEmail(in.AuthorEmail); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	comment := &models.Comment{
		PostID:      in.PostID,
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		Content:     in.Content,
		Status:      models.CommentStatusPending,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListApproved is the public comment thread for a published post.
func (s *CommentService) ListApproved(ctx context.Context, postID uint) ([]models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.ListApprovedByPost(ctx, postID)
}

func (s *CommentService) ListPending(ctx context.Context) ([]models.Comment, error) {
	return s.commentRepo.ListPending(ctx)
}

// Approve marks a comment publicly visible. The transition is
// unconditional: approving an already approved or rejected comment is a
// quiet overwrite, so moderators can change their minds.
func (s *CommentService) Approve(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.moderate(ctx, commentID, models.CommentStatusApproved)
}

// Reject hides a comment. Unconditional, same as Approve.
func (s *CommentService) Reject(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.moderate(ctx, commentID, models.CommentStatusRejected)
}

func (s *CommentService) moderate(ctx context.Context, commentID uint, status models.CommentStatus) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	comment.Status = status
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	middleware.CommentsModerated.WithLabelValues(string(status)).Inc()
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID uint) error {
	return s.commentRepo.Delete(ctx, commentID)
}
