package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postPayload struct {
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	Excerpt         *string `json:"excerpt"`
	FeaturedImage   *string `json:"featured_image"`
	Status          *string `json:"status"`
	CategoryID      *uint   `json:"category_id"`
	ClearCategory   bool    `json:"clear_category"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ListPublishedPosts handles GET /api/posts
// @Summary List published posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} object{posts=[]models.Post,total=int,page=int,per_page=int}
// @Router /posts [get]
func (s *Server) ListPublishedPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	posts, total, err := s.postService.ListPublished(c.UserContext(), p.Page, p.PerPage)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{
		"posts":    posts,
		"total":    total,
		"page":     p.Page,
		"per_page": p.PerPage,
	})
}

// GetPublishedPost handles GET /api/posts/:slug
// @Summary Fetch a published post by slug
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} object{error=string}
// @Router /posts/{slug} [get]
func (s *Server) GetPublishedPost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	post, err := s.postService.GetPublishedBySlug(c.UserContext(), slug)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// ListMyPosts handles GET /api/author/posts
// Returns the caller's posts, drafts included.
func (s *Server) ListMyPosts(c *fiber.Ctx) error {
	userID, _ := requester(c)
	p := parsePagination(c)
	posts, total, err := s.postService.ListByAuthor(c.UserContext(), userID, p.Page, p.PerPage)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{
		"posts":    posts,
		"total":    total,
		"page":     p.Page,
		"per_page": p.PerPage,
	})
}

// CreatePost handles POST /api/author/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} object{error=string}
// @Router /author/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, _ := requester(c)

	var req postPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:        userID,
		Title:           strOrEmpty(req.Title),
		Content:         strOrEmpty(req.Content),
		Excerpt:         strOrEmpty(req.Excerpt),
		FeaturedImage:   strOrEmpty(req.FeaturedImage),
		Status:          models.PostStatus(strOrEmpty(req.Status)),
		CategoryID:      req.CategoryID,
		MetaTitle:       strOrEmpty(req.MetaTitle),
		MetaDescription: strOrEmpty(req.MetaDescription),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/author/posts/:id
// Drafts are only visible to their owner or an admin.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, role := requester(c)

	post, err := s.postService.GetPost(c.UserContext(), postID, userID, role)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/author/posts/:id
// @Summary Update a post (owner or admin)
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Post
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /author/posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, role := requester(c)

	var req postPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdatePostInput{
		PostID:          postID,
		RequesterID:     userID,
		RequesterRole:   role,
		Title:           req.Title,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		CategoryID:      req.CategoryID,
		ClearCategory:   req.ClearCategory,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
	if req.Status != nil {
		status := models.PostStatus(*req.Status)
		in.Status = &status
	}

	post, err := s.postService.UpdatePost(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/author/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, role := requester(c)

	if err := s.postService.DeletePost(c.UserContext(), postID, userID, role); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
