package db

import (
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogProductID is the stable ID of a seeded product, so reseeding never duplicates rows.
func CatalogProductID(slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("clozet:product:"+slug)).String()
}

// SeedCatalog inserts the launch stores and products, skipping rows that
// already exist. flagshipStoreID is the store checkout orders are placed against.
func SeedCatalog(conn *gorm.DB, flagshipStoreID string) error {
	stores := catalogStores(flagshipStoreID)
	products := catalogProducts(flagshipStoreID)

	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&stores).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
	})
	if err != nil {
		logger.Error("Failed to seed catalog", err, map[string]interface{}{
			"flagship_store_id": flagshipStoreID,
		})
		return err
	}

	logger.Info("Catalog seeded", map[string]interface{}{
		"stores":   len(stores),
		"products": len(products),
	})
	return nil
}

func catalogStores(flagshipStoreID string) []model.Store {
	return []model.Store{
		{
			ID:           flagshipStoreID,
			Name:         "Clozet Vellore",
			Rating:       4.8,
			TotalReviews: 1240,
			LogoURL:      "https://cdn.clozet.app/stores/clozet-vellore.png",
			Address:      "Katpadi Road, Vellore, Tamil Nadu 632004",
			LocationLat:  12.9165,
			LocationLng:  79.1325,
			Status:       model.StoreStatusActive,
		},
		{
			ID:           "urban-threads-vellore",
			Name:         "Urban Threads",
			Rating:       4.5,
			TotalReviews: 386,
			LogoURL:      "https://cdn.clozet.app/stores/urban-threads.png",
			Address:      "Officers Line, Vellore, Tamil Nadu 632001",
			LocationLat:  12.9249,
			LocationLng:  79.1353,
			Status:       model.StoreStatusActive,
		},
		{
			ID:           "sole-society-katpadi",
			Name:         "Sole Society",
			Rating:       4.6,
			TotalReviews: 212,
			LogoURL:      "https://cdn.clozet.app/stores/sole-society.png",
			Address:      "Gandhi Nagar, Katpadi, Tamil Nadu 632006",
			LocationLat:  12.9692,
			LocationLng:  79.1455,
			Status:       model.StoreStatusActive,
		},
		{
			ID:           "denim-depot-sathuvachari",
			Name:         "Denim Depot",
			Rating:       4.1,
			TotalReviews: 58,
			Address:      "Sathuvachari, Vellore, Tamil Nadu 632009",
			LocationLat:  12.9338,
			LocationLng:  79.1601,
			Status:       model.StoreStatusInactive,
		},
	}
}

func variants(sizes ...string) []model.ProductVariant {
	out := make([]model.ProductVariant, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, model.ProductVariant{Size: size, Stock: 10})
	}
	return out
}

func catalogProducts(flagshipStoreID string) []model.Product {
	inr := decimal.NewFromInt
	return []model.Product{
		{
			ID:               CatalogProductID("premium-cotton-tshirt"),
			StoreID:          flagshipStoreID,
			Title:            "Premium Cotton T-Shirt",
			Description:      "Heavyweight combed cotton tee with a relaxed fit.",
			Brand:            "Clozet Basics",
			Category:         model.CategoryCasual,
			Price:            inr(899),
			MRP:              inr(1299),
			Images:           []string{"https://cdn.clozet.app/products/premium-cotton-tshirt.jpg"},
			Material:         "100% combed cotton",
			CareInstructions: "Machine wash cold, tumble dry low",
			Variants:         variants("S", "M", "L", "XL"),
			IsAvailable:      true,
		},
		{
			ID:               CatalogProductID("designer-jeans"),
			StoreID:          flagshipStoreID,
			Title:            "Designer Jeans",
			Description:      "Slim tapered selvedge denim in an indigo wash.",
			Brand:            "Indigo Lane",
			Category:         model.CategoryStreetwear,
			Price:            inr(2499),
			MRP:              inr(3499),
			Images:           []string{"https://cdn.clozet.app/products/designer-jeans.jpg"},
			Material:         "98% cotton, 2% elastane",
			CareInstructions: "Wash inside out, line dry",
			Variants:         variants("30", "32", "34", "36"),
			IsAvailable:      true,
		},
		{
			ID:               CatalogProductID("oversized-graphic-hoodie"),
			StoreID:          "urban-threads-vellore",
			Title:            "Oversized Graphic Hoodie",
			Description:      "Brushed fleece hoodie with a screen-printed back graphic.",
			Brand:            "Urban Threads",
			Category:         model.CategoryStreetwear,
			Price:            inr(1799),
			MRP:              inr(2499),
			Images:           []string{"https://cdn.clozet.app/products/oversized-graphic-hoodie.jpg"},
			Material:         "80% cotton, 20% polyester fleece",
			CareInstructions: "Machine wash cold, do not iron print",
			Variants:         variants("M", "L", "XL"),
			IsAvailable:      true,
		},
		{
			ID:               CatalogProductID("classic-white-sneakers"),
			StoreID:          "sole-society-katpadi",
			Title:            "Classic White Sneakers",
			Description:      "Low-top leather sneakers on a cushioned cupsole.",
			Brand:            "Sole Society",
			Category:         model.CategoryFootwear,
			Price:            inr(2999),
			MRP:              inr(3999),
			Images:           []string{"https://cdn.clozet.app/products/classic-white-sneakers.jpg"},
			Material:         "Full-grain leather upper, rubber sole",
			CareInstructions: "Wipe clean with a damp cloth",
			Variants:         variants("7", "8", "9", "10"),
			IsAvailable:      true,
		},
		{
			ID:               CatalogProductID("performance-joggers"),
			StoreID:          "urban-threads-vellore",
			Title:            "Performance Joggers",
			Description:      "Four-way stretch joggers with zip pockets.",
			Brand:            "Motion Lab",
			Category:         model.CategoryAthleisure,
			Price:            inr(1499),
			MRP:              inr(1499),
			Images:           []string{"https://cdn.clozet.app/products/performance-joggers.jpg"},
			Material:         "88% polyester, 12% spandex",
			CareInstructions: "Machine wash cold, no fabric softener",
			Variants:         variants("S", "M", "L"),
			IsAvailable:      true,
		},
		{
			ID:               CatalogProductID("leather-crossbody-bag"),
			StoreID:          flagshipStoreID,
			Title:            "Leather Crossbody Bag",
			Description:      "Compact crossbody in vegetable-tanned leather.",
			Brand:            "Clozet Atelier",
			Category:         model.CategoryAccessories,
			Price:            inr(3499),
			MRP:              inr(4499),
			Images:           []string{"https://cdn.clozet.app/products/leather-crossbody-bag.jpg"},
			Material:         "Vegetable-tanned leather",
			CareInstructions: "Condition every three months, keep dry",
			Variants:         []model.ProductVariant{{Size: "One Size", Color: "Tan", Stock: 6}, {Size: "One Size", Color: "Black", Stock: 4}},
			IsAvailable:      true,
		},
		{
			ID:               CatalogProductID("wool-blend-overcoat"),
			StoreID:          flagshipStoreID,
			Title:            "Wool Blend Overcoat",
			Description:      "Single-breasted overcoat with a notch lapel.",
			Brand:            "Clozet Atelier",
			Category:         model.CategoryOuterwear,
			Price:            inr(5999),
			MRP:              inr(7999),
			Images:           []string{"https://cdn.clozet.app/products/wool-blend-overcoat.jpg"},
			Material:         "70% wool, 30% polyamide",
			CareInstructions: "Dry clean only",
			Variants:         variants("M", "L"),
			IsAvailable:      true,
		},
		{
			ID:               CatalogProductID("silk-evening-blazer"),
			StoreID:          flagshipStoreID,
			Title:            "Silk Evening Blazer",
			Description:      "Tailored mulberry silk blazer. Back in stock soon.",
			Brand:            "Maison Noor",
			Category:         model.CategoryLuxury,
			Price:            inr(8999),
			MRP:              inr(11999),
			Images:           []string{"https://cdn.clozet.app/products/silk-evening-blazer.jpg"},
			Material:         "100% mulberry silk",
			CareInstructions: "Dry clean only",
			Variants:         []model.ProductVariant{},
			IsAvailable:      false,
		},
		{
			ID:               CatalogProductID("raw-denim-jacket"),
			StoreID:          "denim-depot-sathuvachari",
			Title:            "Raw Denim Jacket",
			Description:      "Unwashed trucker jacket.",
			Brand:            "Denim Depot",
			Category:         model.CategoryOuterwear,
			Price:            inr(2799),
			MRP:              inr(2799),
			Images:           []string{"https://cdn.clozet.app/products/raw-denim-jacket.jpg"},
			Material:         "100% cotton raw denim",
			CareInstructions: "Wash rarely, cold and inside out",
			Variants:         variants("M", "L"),
			IsAvailable:      true,
		},
	}
}
