package product

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetList(ctx context.Context, opts QueryOptions) ([]*Product, int, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Product), args.Int(1), args.Error(2)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetFeatured(ctx context.Context, limit int) (*Featured, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Featured), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, input ProductInput) (*Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Patch(ctx context.Context, id string, input PatchInput) (*Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CategoryExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestNormalize(t *testing.T) {
	opts := normalize(QueryOptions{Page: 0, Limit: 0})
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, defaultLimit, opts.Limit)

	opts = normalize(QueryOptions{Page: 3, Limit: 500})
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, maxLimit, opts.Limit, "limit must be capped at 100")
}

func TestService_GetProducts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("GetList", ctx, QueryOptions{Page: 1, Limit: defaultLimit}).
		Return([]*Product(nil), 0, nil)

	products, total, err := svc.GetProducts(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, products)
}

func TestService_GetProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("GetByID", ctx, "missing").Return(nil, sql.ErrNoRows)

	_, err := svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("CategoryMissing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("CategoryExists", ctx, "ghost").Return(false, nil)

		_, err := svc.CreateProduct(ctx, ProductInput{Name: "Dragon Roll", CategoryID: "ghost"})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateSlug", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("CategoryExists", ctx, "c-1").Return(true, nil)
		repo.On("Create", ctx, mock.Anything).
			Return(nil, &pq.Error{Code: "23505", Constraint: "products_slug_key"})

		_, err := svc.CreateProduct(ctx, ProductInput{Name: "Dragon Roll", CategoryID: "c-1"})
		assert.ErrorIs(t, err, ErrSlugExists)
	})

	t.Run("SlugGenerated", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("CategoryExists", ctx, "c-1").Return(true, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(in ProductInput) bool {
			return in.Slug == "dragon-roll"
		})).Return(&Product{ID: "p-1", Slug: "dragon-roll"}, nil)

		p, err := svc.CreateProduct(ctx, ProductInput{Name: "Dragon Roll", CategoryID: "c-1"})
		require.NoError(t, err)
		assert.Equal(t, "dragon-roll", p.Slug)
	})
}

func TestService_DeleteProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Delete", ctx, "missing").Return(sql.ErrNoRows)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, "missing"), ErrNotFound)
}
