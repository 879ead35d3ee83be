package service

import (
	"context"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateSubcategory(ctx context.Context, req dto.SubcategoryRequest) (*dto.SubcategoryResponse, error)
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]dto.SubcategoryResponse, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category := model.Category{Name: req.Name, Description: req.Description}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, err
	}
	return categoryToResponse(&category), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryToResponse(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return categoryToResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

func (s *categoryService) CreateSubcategory(ctx context.Context, req dto.SubcategoryRequest) (*dto.SubcategoryResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, invalidInputf("bad category_id %q", req.CategoryID)
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	sub := model.Subcategory{CategoryID: categoryID, Name: req.Name, Description: req.Description}
	if err := s.categories.CreateSubcategory(ctx, &sub); err != nil {
		return nil, err
	}
	return subcategoryToResponse(&sub), nil
}

func (s *categoryService) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]dto.SubcategoryResponse, error) {
	subs, err := s.categories.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubcategoryResponse, 0, len(subs))
	for i := range subs {
		out = append(out, *subcategoryToResponse(&subs[i]))
	}
	return out, nil
}

func (s *categoryService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.DeleteSubcategory(ctx, id)
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Description: c.Description}
}

func subcategoryToResponse(s *model.Subcategory) *dto.SubcategoryResponse {
	return &dto.SubcategoryResponse{
		ID:          s.ID.String(),
		CategoryID:  s.CategoryID.String(),
		Name:        s.Name,
		Description: s.Description,
	}
}
