package product

import (
	"context"
	"database/sql"

	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/logger"
	"sushiwave-be/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultLimit = 12
	maxLimit     = 100
)

type Service interface {
	GetProducts(ctx context.Context, opts QueryOptions) ([]*Product, int, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	GetFeatured(ctx context.Context, limit int) (*Featured, error)
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*Product, error)
	PatchProduct(ctx context.Context, id string, input PatchInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// normalize clamps paging to sane bounds; limit is capped at 100.
func normalize(opts QueryOptions) QueryOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}
	return opts
}

func (s *service) GetProducts(ctx context.Context, opts QueryOptions) ([]*Product, int, error) {
	opts = normalize(opts)

	products, total, err := s.repo.GetList(ctx, opts)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get products", zap.Error(err))
		return nil, 0, err
	}

	if products == nil {
		products = []*Product{}
	}
	return products, total, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *service) GetFeatured(ctx context.Context, limit int) (*Featured, error) {
	if limit < 1 || limit > maxLimit {
		limit = 8
	}

	featured, err := s.repo.GetFeatured(ctx, limit)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get featured products", zap.Error(err))
		return nil, err
	}

	if featured.Bestsellers == nil {
		featured.Bestsellers = []*Product{}
	}
	if featured.NewProducts == nil {
		featured.NewProducts = []*Product{}
	}
	return featured, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(zap.String("name", input.Name))

	if input.Slug == "" {
		input.Slug = utils.Slugify(input.Name)
	}

	exists, err := s.repo.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}

	p, err := s.repo.Create(ctx, input)
	if err != nil {
		if httpapi.IsUniqueViolation(err, "products_slug_key") {
			return nil, ErrSlugExists
		}
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(zap.String("product_id", id))

	if input.Slug == "" {
		input.Slug = utils.Slugify(input.Name)
	}

	if input.CategoryID != "" {
		exists, err := s.repo.CategoryExists(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrCategoryNotFound
		}
	}

	p, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if httpapi.IsUniqueViolation(err, "products_slug_key") {
			return nil, ErrSlugExists
		}
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	log.Info("product updated")
	return p, nil
}

func (s *service) PatchProduct(ctx context.Context, id string, input PatchInput) (*Product, error) {
	p, err := s.repo.Patch(ctx, id, input)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(zap.String("product_id", id))

	err := s.repo.Delete(ctx, id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		log.Error("failed to delete product", zap.Error(err))
		return err
	}

	log.Info("product deleted")
	return nil
}
