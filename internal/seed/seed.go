// Package seed loads demo products into an empty catalog. It goes through the
// service so seeded data obeys the same validation and sku rules as API writes.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
	repository "github.com/aaravmahajanofficial/product-catalog-service/internal/repositories"
	service "github.com/aaravmahajanofficial/product-catalog-service/internal/services"
)

func ptr[T any](v T) *T { return &v }

// DemoProducts is the catalog written by Run.
func DemoProducts() []models.CreateProductRequest {
	return []models.CreateProductRequest{
		{
			Name:        "Classic T-Shirt",
			Description: "Crew neck tee in combed cotton.",
			BasePrice:   ptr(25.0),
			Category:    "Clothing",
			Brand:       "Basics Co",
			Tags:        []string{"cotton", "summer"},
			Variants: []models.VariantRequest{
				{Color: "Red", Size: "M", Stock: ptr(10), SKU: "TS-RED-M"},
				{Color: "Red", Size: "L", Stock: ptr(6), SKU: "TS-RED-L"},
				{Color: "Black", Size: "M", Stock: ptr(12), SKU: "TS-BLK-M", PriceAdjustment: 2},
			},
		},
		{
			Name:        "Wireless Headphones",
			Description: "Over-ear headphones with noise cancelling.",
			BasePrice:   ptr(149.0),
			Category:    "Electronics",
			Brand:       "SoundLab",
			Tags:        []string{"audio", "bluetooth"},
			Variants: []models.VariantRequest{
				{Color: "Black", Size: "Standard", Stock: ptr(20), SKU: "HP-BLK-STD"},
				{Color: "White", Size: "Standard", Stock: ptr(8), SKU: "HP-WHT-STD", PriceAdjustment: 10},
			},
		},
		{
			Name:        "Trail Running Shoes",
			Description: "Lightweight shoes with a lugged outsole.",
			BasePrice:   ptr(95.0),
			Category:    "Sports",
			Tags:        []string{"running"},
			Variants: []models.VariantRequest{
				{Color: "Blue", Size: "42", Stock: ptr(4), SKU: "SH-BLU-42"},
				{Color: "Blue", Size: "43", Stock: ptr(0), SKU: "SH-BLU-43"},
			},
		},
	}
}

// Run writes DemoProducts when the catalog is empty and reports how many
// products it created. A non-empty catalog is left untouched.
func Run(ctx context.Context, repo repository.ProductRepository, svc service.ProductService) (int, error) {
	count, err := repo.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}

	if count > 0 {
		slog.Info("Catalog already populated, skipping seed", slog.Int64("products", count))
		return 0, nil
	}

	created := 0
	for _, req := range DemoProducts() {
		product, err := svc.CreateProduct(ctx, &req)
		if err != nil {
			return created, fmt.Errorf("seeding %q: %w", req.Name, err)
		}

		slog.Debug("Seeded product", slog.String("productId", product.ID.Hex()), slog.String("name", product.Name))
		created++
	}

	slog.Info("✅ Seeded demo catalog", slog.Int("products", created))

	return created, nil
}
