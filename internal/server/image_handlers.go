package server

import (
	"io"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images
// @Summary Upload a featured image
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} object{image=models.Image,url=string}
// @Failure 400 {object} object{error=string}
// @Router /images [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	userID, _ := requester(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	img, err := s.imageService.Upload(c.UserContext(), service.UploadImageInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"image": img,
		"url":   s.imageService.BuildImageURL(img.Hash),
	})
}

// ServeImage handles GET /media/:hash/:file
// Content is immutable per hash, so clients may cache aggressively.
func (s *Server) ServeImage(c *fiber.Ctx) error {
	hash := strings.TrimSpace(c.Params("hash"))
	acceptsWebP := strings.Contains(c.Get("Accept"), "image/webp")

	img, path, err := s.imageService.ResolveForServing(c.UserContext(), hash, acceptsWebP)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	if strings.HasSuffix(path, ".webp") {
		c.Set("Content-Type", "image/webp")
	} else {
		c.Set("Content-Type", img.MimeType)
	}
	return c.SendFile(path)
}

// ListMyImages handles GET /api/images
func (s *Server) ListMyImages(c *fiber.Ctx) error {
	userID, _ := requester(c)
	images, err := s.imageService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(images)
}

// DeleteImage handles DELETE /api/images/:id
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	imageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, role := requester(c)

	if err := s.imageService.DeleteImage(c.UserContext(), imageID, userID, role); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(fiber.Map{"message": "Image deleted"})
}
