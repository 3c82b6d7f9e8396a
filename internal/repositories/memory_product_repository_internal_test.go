package repository

import (
	"testing"
	"time"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func shirtWith(skus ...string) *models.Product {
	p := &models.Product{Name: "T-Shirt", Description: "Cotton tee", BasePrice: 25, Category: "Clothing"}
	for _, sku := range skus {
		p.Variants = append(p.Variants, models.Variant{ID: primitive.NewObjectID(), Color: "Red", Size: "M", Stock: 10, SKU: sku})
	}

	return p
}

func TestMutateVariantFollowsMovedSKU(t *testing.T) {
	ctx := t.Context()
	updatedAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Stock update lands on the new owner", func(t *testing.T) {
		repo := NewMemoryProductRepo().(*memoryProductRepository)

		from := shirtWith("MOVING", "STAYS")
		to := shirtWith("OTHER")
		require.NoError(t, repo.CreateProduct(ctx, from))
		require.NoError(t, repo.CreateProduct(ctx, to))

		moved := false
		repo.beforeVariantLock = func(sku string) {
			repo.beforeVariantLock = nil
			moved = true

			require.NoError(t, repo.RemoveVariantBySKU(ctx, sku, updatedAt))
			require.NoError(t, repo.AddVariant(ctx, to.ID, models.Variant{ID: primitive.NewObjectID(), Color: "Blue", Size: "L", Stock: 1, SKU: sku}, updatedAt))
		}

		err := repo.UpdateVariantStock(ctx, "MOVING", 42, updatedAt)

		require.NoError(t, err)
		assert.True(t, moved)

		variant, err := repo.GetVariantBySKU(ctx, "MOVING")
		require.NoError(t, err)
		assert.Equal(t, 42, variant.Stock)
		assert.Equal(t, "Blue", variant.Color)

		got, err := repo.GetProductByID(ctx, from.ID)
		require.NoError(t, err)
		require.Len(t, got.Variants, 1)
		assert.Equal(t, 10, got.Variants[0].Stock)
	})

	t.Run("Removed sku is reported as not found", func(t *testing.T) {
		repo := NewMemoryProductRepo().(*memoryProductRepository)

		product := shirtWith("GONE")
		require.NoError(t, repo.CreateProduct(ctx, product))

		repo.beforeVariantLock = func(sku string) {
			repo.beforeVariantLock = nil
			require.NoError(t, repo.RemoveVariantBySKU(ctx, sku, updatedAt))
		}

		err := repo.UpdateVariantStock(ctx, "GONE", 3, updatedAt)

		assert.ErrorIs(t, err, ErrVariantNotFound)
	})

	t.Run("Deleted owner is reported as not found", func(t *testing.T) {
		repo := NewMemoryProductRepo().(*memoryProductRepository)

		product := shirtWith("ORPHAN")
		require.NoError(t, repo.CreateProduct(ctx, product))

		repo.beforeVariantLock = func(string) {
			repo.beforeVariantLock = nil
			require.NoError(t, repo.DeleteProduct(ctx, product.ID))
		}

		err := repo.RemoveVariantBySKU(ctx, "ORPHAN", updatedAt)

		assert.ErrorIs(t, err, ErrVariantNotFound)
	})
}
