package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultUploadDir       = "/tmp/inkwell/uploads"
	DefaultMaxUploadSizeMB = 10
	MasterMaxSize          = 2048
	JPEGQuality            = 82
	WebPQuality            = 70
)

type ImageService struct {
	repo               repository.ImageRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

type UploadImageInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

func NewImageService(repo repository.ImageRepository, cfg *config.Config) *ImageService {
	uploadDir := DefaultUploadDir
	maxUploadSizeMB := DefaultMaxUploadSizeMB
	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.UploadMaxSizeMB > 0 {
			maxUploadSizeMB = cfg.UploadMaxSizeMB
		}
	}
	return &ImageService{
		repo:               repo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates and normalizes an uploaded image. The decoded image
// is downscaled to fit MasterMaxSize and stored twice, a JPEG master
// and a WebP variant, under a content-hash directory. Re-uploading the
// same bytes returns the existing record.
func (s *ImageService) Upload(ctx context.Context, in UploadImageInput) (*models.Image, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)

	encodedJPEG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	sum := sha256.Sum256(encodedJPEG)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	jpegRel := filepath.ToSlash(filepath.Join(hash, "master.jpg"))
	webpRel := filepath.ToSlash(filepath.Join(hash, "master.webp"))
	jpegAbs := filepath.Join(s.uploadDir, jpegRel)
	webpAbs := filepath.Join(s.uploadDir, webpRel)

	if err := writeBytesToFile(jpegAbs, encodedJPEG); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, encodedWebP); err != nil {
		cleanupFiles(jpegAbs, webpAbs)
		return nil, models.NewInternalError(err)
	}

	bounds := master.Bounds()
	record := &models.Image{
		Hash:             hash,
		UserID:           in.UserID,
		OriginalFilename: filepath.Base(in.Filename),
		MimeType:         "image/jpeg",
		SizeBytes:        int64(len(encodedJPEG)),
		Width:            bounds.Dx(),
		Height:           bounds.Dy(),
		Path:             jpegRel,
		WebPPath:         webpRel,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		cleanupFiles(jpegAbs, webpAbs)
		return nil, err
	}
	return record, nil
}

// ResolveForServing maps an image hash to the file to stream back.
// WebP is preferred when the client accepts it.
func (s *ImageService) ResolveForServing(ctx context.Context, hash string, acceptsWebP bool) (*models.Image, string, error) {
	if !isValidImageHash(hash) {
		return nil, "", models.NewValidationError("Invalid image hash")
	}
	img, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, "", err
	}
	if img == nil {
		return nil, "", models.NewNotFoundError("Image", hash)
	}

	rel := img.Path
	if acceptsWebP && img.WebPPath != "" {
		rel = img.WebPPath
	}
	full := filepath.Join(s.uploadDir, rel)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.NewNotFoundError("Image", hash)
		}
		return nil, "", models.NewInternalError(err)
	}
	return img, full, nil
}

func (s *ImageService) ListByUser(ctx context.Context, userID uint) ([]models.Image, error) {
	return s.repo.ListByUser(ctx, userID)
}

// DeleteImage removes the record and best-effort removes the files.
// Owner-or-admin, same rule as posts.
func (s *ImageService) DeleteImage(ctx context.Context, imageID, requesterID uint, requesterRole models.Role) error {
	img, err := s.repo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.UserID != requesterID && requesterRole != models.RoleAdmin {
		return models.NewUnauthorizedError("You can only delete your own images")
	}
	if err := s.repo.Delete(ctx, imageID); err != nil {
		return err
	}
	cleanupFiles(filepath.Join(s.uploadDir, img.Path), filepath.Join(s.uploadDir, img.WebPPath))
	return nil
}

// BuildImageURL returns the public URL for a stored image.
func (s *ImageService) BuildImageURL(hash string) string {
	return fmt.Sprintf("/media/%s/master.jpg", hash)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

// isValidImageHash checks that the hash is strictly lowercase hex so a
// crafted parameter cannot traverse outside the upload directory.
func isValidImageHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func cleanupFiles(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
