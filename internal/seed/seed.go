// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
}

var categoryNames = []string{
	"Technology", "Travel", "Food", "Programming", "Books",
	"Music", "Photography", "Fitness", "Finance", "Science",
}

// Seeder populates the database with realistic development data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll removes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Comment{}, &models.Image{}, &models.Post{},
		&models.Category{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds users, categories, posts and comments.
func (s *Seeder) Run(opts Options) error {
	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	categories, err := s.seedCategories()
	if err != nil {
		return err
	}
	posts, err := s.seedPosts(opts.NumPosts, users, categories)
	if err != nil {
		return err
	}
	if err := s.seedComments(opts.NumComments, posts); err != nil {
		return err
	}
	log.Printf("Seeded %d users, %d categories, %d posts", len(users), len(categories), len(posts))
	return nil
}

func (s *Seeder) seedUsers(n int) ([]models.User, error) {
	// One known admin for local login.
	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := []models.User{{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}}
	for i := 0; i < n; i++ {
		users = append(users, models.User{
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			PasswordHash: string(hash),
			Role:         models.RoleAuthor,
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

func (s *Seeder) seedCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, models.Category{
			Name:        name,
			Slug:        slug.Make(name),
			Description: gofakeit.Sentence(8),
		})
	}
	if err := s.db.Create(&categories).Error; err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return categories, nil
}

func (s *Seeder) seedPosts(n int, users []models.User, categories []models.Category) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		title := gofakeit.Sentence(rand.Intn(5) + 3)

		post := models.Post{
			Title:    title,
			Slug:     fmt.Sprintf("%s-%d", slug.Make(title), i),
			Content:  gofakeit.Paragraph(3, 5, 12, "\n\n"),
			Excerpt:  gofakeit.Sentence(12),
			AuthorID: author.ID,
			Status:   models.PostStatusDraft,
		}
		if rand.Intn(100) < 70 {
			post.Status = models.PostStatusPublished
			publishedAt := gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now())
			post.PublishedAt = &publishedAt
		}
		if rand.Intn(100) < 80 {
			post.CategoryID = &categories[rand.Intn(len(categories))].ID
		}
		posts = append(posts, post)
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	return posts, nil
}

func (s *Seeder) seedComments(n int, posts []models.Post) error {
	if len(posts) == 0 || n == 0 {
		return nil
	}
	statuses := []models.CommentStatus{
		models.CommentStatusPending,
		models.CommentStatusApproved,
		models.CommentStatusApproved,
		models.CommentStatusRejected,
	}

	comments := make([]models.Comment, 0, n)
	for i := 0; i < n; i++ {
		post := posts[rand.Intn(len(posts))]
		comments = append(comments, models.Comment{
			PostID:      post.ID,
			AuthorName:  gofakeit.Name(),
			AuthorEmail: gofakeit.Email(),
			Content:     gofakeit.Sentence(rand.Intn(15) + 5),
			Status:      statuses[rand.Intn(len(statuses))],
		})
	}
	if err := s.db.Create(&comments).Error; err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	return nil
}
