package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
// Anonymous; the comment always enters the moderation queue as pending.
// @Summary Submit a comment on a published post
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Success 201 {object} models.Comment
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AuthorName  string `json:"author_name"`
		AuthorEmail string `json:"author_email"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:      postID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment submitted for moderation",
		"comment": comment,
	})
}

// GetApprovedComments handles GET /api/posts/:id/comments
// @Summary List approved comments on a post
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} object{error=string}
// @Router /posts/{id}/comments [get]
func (s *Server) GetApprovedComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListApproved(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(comments)
}

// GetPendingComments handles GET /api/comments/pending (authenticated)
// Oldest first, so the queue is worked in arrival order.
func (s *Server) GetPendingComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListPending(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(comments)
}

// ApproveComment handles PUT /api/comments/:id/approve (authenticated)
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.Approve(c.UserContext(), commentID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Comment approved", "comment": comment})
}

// RejectComment handles PUT /api/comments/:id/reject (authenticated)
func (s *Server) RejectComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.Reject(c.UserContext(), commentID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Comment rejected", "comment": comment})
}

// DeleteComment handles DELETE /api/comments/:id (authenticated)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), commentID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
