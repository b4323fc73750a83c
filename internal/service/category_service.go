package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/slug"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

type CreateCategoryInput struct {
	Name        string
	Description string
}

type UpdateCategoryInput struct {
	CategoryID  uint
	Name        *string
	Description *string
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(in.Name) > 100 {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}

	assigned, err := s.assignSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        assigned,
		Description: in.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) assignSlug(ctx context.Context, name string) (string, error) {
	if slug.Make(name) == "" {
		return "", models.NewValidationError("Name must contain at least one letter or digit")
	}
	var oracleErr error
	assigned := slug.Assign(name, func(candidate string) bool {
		if oracleErr != nil {
			return false
		}
		exists, err := s.categoryRepo.ExistsBySlug(ctx, candidate)
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

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slugVal string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slugVal)
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != category.Name {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, models.NewValidationError("Name is required")
		}
		assigned, err := s.assignSlug(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		category.Name = *in.Name
		category.Slug = assigned
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
