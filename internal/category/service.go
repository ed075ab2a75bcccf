package category

import (
	"context"
	"database/sql"

	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/logger"
	"sushiwave-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	GetCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	AddCategory(ctx context.Context, input CategoryInput) (*Category, error)
	UpdateCategory(ctx context.Context, id string, input CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context) ([]*Category, error) {
	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get categories", zap.Error(err))
		return nil, err
	}

	if categories == nil {
		categories = []*Category{}
	}
	return categories, nil
}

func (s *service) GetCategory(ctx context.Context, id string) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	c, err := s.repo.GetBySlug(ctx, slug)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *service) AddCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(zap.String("name", input.Name))

	if input.Slug == "" {
		input.Slug = utils.Slugify(input.Name)
	}

	c, err := s.repo.Create(ctx, input)
	if err != nil {
		if httpapi.IsUniqueViolation(err, "categories_slug_key") {
			return nil, ErrSlugExists
		}
		log.Error("failed to add category", zap.Error(err))
		return nil, err
	}

	log.Info("category created", zap.String("category_id", c.ID))
	return c, nil
}

func (s *service) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*Category, error) {
	log := logger.FromCtx(ctx).With(zap.String("category_id", id))

	if input.Slug == "" {
		input.Slug = utils.Slugify(input.Name)
	}

	c, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if httpapi.IsUniqueViolation(err, "categories_slug_key") {
			return nil, ErrSlugExists
		}
		log.Error("failed to update category", zap.Error(err))
		return nil, err
	}

	log.Info("category updated")
	return c, nil
}

// DeleteCategory refuses to remove a category that still owns products.
func (s *service) DeleteCategory(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(zap.String("category_id", id))

	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		log.Error("failed to count category products", zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrHasProducts
	}

	err = s.repo.Delete(ctx, id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		log.Error("failed to delete category", zap.Error(err))
		return err
	}

	log.Info("category deleted")
	return nil
}
