package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/store"
)

const (
	DefaultProductLimit = 20
	MaxProductLimit     = 100
)

// ProductQuery is the raw browse request. Empty fields mean "no filter".
type ProductQuery struct {
	Category  string
	Search    string
	StoreID   string
	Available string // "" or "true" hides sold-out products, "all" shows them
	Sort      string // newest, price_asc, price_desc
	Limit     int
	Offset    int
}

type ProductService interface {
	List(ctx context.Context, query ProductQuery) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
}

type productService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) List(ctx context.Context, query ProductQuery) ([]model.Product, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}
	products, err := retryRead(ctx, "product.list", func() ([]model.Product, error) {
		return s.products.FindWithFilter(ctx, filter)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", ErrNetwork, err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := retryRead(ctx, "product.get", func() (*model.Product, error) {
		return s.products.FindByID(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load product: %v", ErrNetwork, err)
	}
	return product, nil
}

func (q ProductQuery) filter() (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		StoreID: strings.TrimSpace(q.StoreID),
		Search:  strings.TrimSpace(q.Search),
		SortBy:  repository.ProductSortNewest,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}

	if category := strings.ToLower(strings.TrimSpace(q.Category)); category != "" && category != "all" {
		c := model.ProductCategory(category)
		if !c.Valid() {
			return filter, newValidationError("category", "is not a known category")
		}
		filter.Category = &c
	}

	switch strings.ToLower(strings.TrimSpace(q.Available)) {
	case "", "true":
	case "all":
		filter.IncludeUnavailable = true
	default:
		return filter, newValidationError("available", "must be true or all")
	}

	if q.Sort != "" {
		filter.SortBy = repository.ProductSort(q.Sort)
		if !filter.SortBy.Valid() {
			return filter, newValidationError("sort", "must be newest, price_asc or price_desc")
		}
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultProductLimit
	}
	if filter.Limit > MaxProductLimit {
		filter.Limit = MaxProductLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter, nil
}
