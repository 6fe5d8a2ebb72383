package repository

import (
	"context"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
)

func (s ProductSort) Valid() bool {
	return s == ProductSortNewest || s == ProductSortPriceAsc || s == ProductSortPriceDesc
}

type ProductFilter struct {
	Category           *model.ProductCategory
	StoreID            string
	Search             string // matched against title and brand, case-insensitive
	IncludeUnavailable bool
	SortBy             ProductSort
	Limit              int
	Offset             int
}

type ProductRepository interface {
	// FindWithFilter lists products of active stores only.
	FindWithFilter(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// baseQuery joins the owning store so products of inactive or removed stores never surface.
func (r *productRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("products.*").
		Joins("JOIN stores ON stores.id = products.store_id AND stores.deleted_at IS NULL").
		Where("stores.status = ?", model.StoreStatusActive).
		Preload("Store")
}

func (r *productRepository) FindWithFilter(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category":            filter.Category,
		"store_id":            filter.StoreID,
		"search":              filter.Search,
		"include_unavailable": filter.IncludeUnavailable,
		"sort_by":             filter.SortBy,
		"limit":               filter.Limit,
		"offset":              filter.Offset,
	})

	query := r.baseQuery(ctx)

	if filter.Category != nil {
		query = query.Where("products.category = ?", *filter.Category)
	}
	if filter.StoreID != "" {
		query = query.Where("products.store_id = ?", filter.StoreID)
	}
	if !filter.IncludeUnavailable {
		query = query.Where("products.is_available = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(products.title) LIKE ? OR LOWER(products.brand) LIKE ?", like, like)
	}

	switch filter.SortBy {
	case ProductSortPriceAsc:
		query = query.Order("products.price ASC")
	case ProductSortPriceDesc:
		query = query.Order("products.price DESC")
	default:
		query = query.Order("products.created_at DESC")
	}
	query = query.Order("products.id ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category": filter.Category,
			"search":   filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.baseQuery(ctx).Where("products.id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}
