package repository

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryProductRepository stores whole product documents and has no notion of
// positional updates. Every nested mutation is a read-modify-write of one
// document, serialized by a per-product lock. Lock order is always the product
// lock first, then mu.
type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]*models.Product
	order    []primitive.ObjectID
	skus     map[string]primitive.ObjectID

	locks *keyedMutex

	// beforeVariantLock runs between the sku lookup and taking the owner's lock.
	beforeVariantLock func(sku string)
}

func NewMemoryProductRepo() ProductRepository {
	return &memoryProductRepository{
		products: make(map[primitive.ObjectID]*models.Product),
		skus:     make(map[string]primitive.ObjectID),
		locks:    newKeyedMutex(),
	}
}

func (r *memoryProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	normalize(product)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkSKUsLocked(product); err != nil {
		return err
	}

	stored := cloneProduct(product)
	r.products[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	r.indexLocked(stored)

	return nil
}

func (r *memoryProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*models.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.products[id]
		if matches(p, filter) {
			products = append(products, cloneProduct(p))
		}
	}

	return products, nil
}

func (r *memoryProductRepository) ProjectProducts(ctx context.Context, fields []string) ([]models.ProjectedProduct, error) {
	products, err := r.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return nil, err
	}

	out := make([]models.ProjectedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, models.Project(p, fields))
	}

	return out, nil
}

func (r *memoryProductRepository) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	return cloneProduct(p), nil
}

func (r *memoryProductRepository) UpdateProduct(ctx context.Context, id primitive.ObjectID, update *models.ProductUpdate) (*models.Product, error) {
	unlock := r.locks.Lock(id)
	defer unlock()

	product, err := r.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.BasePrice != nil {
		product.BasePrice = *update.BasePrice
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Brand != nil {
		product.Brand = *update.Brand
	}
	if update.Tags != nil {
		product.Tags = slices.Clone(*update.Tags)
	}
	if update.Variants != nil {
		product.Variants = slices.Clone(*update.Variants)
	}
	product.UpdatedAt = update.UpdatedAt
	normalize(product)

	if err := r.replace(product); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *memoryProductRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock := r.locks.Lock(id)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}

	r.unindexLocked(p)
	delete(r.products, id)
	r.order = slices.DeleteFunc(r.order, func(o primitive.ObjectID) bool { return o == id })

	return nil
}

func (r *memoryProductRepository) UpdateVariantStock(ctx context.Context, sku string, stock int, updatedAt time.Time) error {
	return r.mutateVariant(ctx, sku, func(p *models.Product, i int) {
		p.Variants[i].Stock = stock
		p.UpdatedAt = updatedAt
	})
}

func (r *memoryProductRepository) AddVariant(ctx context.Context, productID primitive.ObjectID, variant models.Variant, updatedAt time.Time) error {
	unlock := r.locks.Lock(productID)
	defer unlock()

	product, err := r.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}

	product.Variants = append(product.Variants, variant)
	product.UpdatedAt = updatedAt

	return r.replace(product)
}

func (r *memoryProductRepository) RemoveVariantBySKU(ctx context.Context, sku string, updatedAt time.Time) error {
	return r.mutateVariant(ctx, sku, func(p *models.Product, i int) {
		p.Variants = slices.Delete(p.Variants, i, i+1)
		p.UpdatedAt = updatedAt
	})
}

func (r *memoryProductRepository) GetVariantBySKU(ctx context.Context, sku string) (*models.Variant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.skus[sku]
	if !ok {
		return nil, ErrVariantNotFound
	}

	p := r.products[owner]
	if i := variantIndex(p, sku); i >= 0 {
		v := p.Variants[i]
		return &v, nil
	}

	return nil, ErrVariantNotFound
}

func (r *memoryProductRepository) FindExistingSKUs(ctx context.Context, skus []string, excludeID primitive.ObjectID) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var existing []string
	for _, sku := range skus {
		if owner, ok := r.skus[sku]; ok && owner != excludeID && !slices.Contains(existing, sku) {
			existing = append(existing, sku)
		}
	}

	return existing, nil
}

func (r *memoryProductRepository) CountProducts(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.products)), nil
}

// mutateVariant locates the product owning sku, locks it and applies fn to the
// matched element. The owner is resolved before the lock is taken, so a sku
// that moved to another product in between is looked up again.
func (r *memoryProductRepository) mutateVariant(ctx context.Context, sku string, fn func(p *models.Product, i int)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.mu.RLock()
		owner, ok := r.skus[sku]
		r.mu.RUnlock()

		if !ok {
			return ErrVariantNotFound
		}

		if r.beforeVariantLock != nil {
			r.beforeVariantLock(sku)
		}

		// The sku index and the documents change together under mu, so a
		// miss here means another writer moved the sku and the loop makes progress.
		if done, err := r.mutateOwned(ctx, owner, sku, fn); done {
			return err
		}
	}
}

// mutateOwned applies fn under owner's lock. It reports false when owner no
// longer holds sku.
func (r *memoryProductRepository) mutateOwned(ctx context.Context, owner primitive.ObjectID, sku string, fn func(p *models.Product, i int)) (bool, error) {
	unlock := r.locks.Lock(owner)
	defer unlock()

	product, err := r.GetProductByID(ctx, owner)
	if errors.Is(err, ErrProductNotFound) {
		return false, nil
	}
	if err != nil {
		return true, err
	}

	i := variantIndex(product, sku)
	if i < 0 {
		return false, nil
	}

	fn(product, i)

	return true, r.replace(product)
}

// replace swaps the stored document for product, re-checking sku uniqueness
// against every other product.
func (r *memoryProductRepository) replace(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}

	if err := r.checkSKUsLocked(product); err != nil {
		return err
	}

	stored := cloneProduct(product)
	r.unindexLocked(old)
	r.products[product.ID] = stored
	r.indexLocked(stored)

	return nil
}

func (r *memoryProductRepository) checkSKUsLocked(p *models.Product) error {
	seen := make(map[string]struct{}, len(p.Variants))

	for _, v := range p.Variants {
		if _, dup := seen[v.SKU]; dup {
			return ErrDuplicateSKU
		}
		seen[v.SKU] = struct{}{}

		if owner, ok := r.skus[v.SKU]; ok && owner != p.ID {
			return ErrDuplicateSKU
		}
	}

	return nil
}

func (r *memoryProductRepository) indexLocked(p *models.Product) {
	for _, v := range p.Variants {
		r.skus[v.SKU] = p.ID
	}
}

func (r *memoryProductRepository) unindexLocked(p *models.Product) {
	for _, v := range p.Variants {
		if r.skus[v.SKU] == p.ID {
			delete(r.skus, v.SKU)
		}
	}
}

func matches(p *models.Product, filter models.ProductFilter) bool {
	if filter.Category != "" && p.Category != filter.Category {
		return false
	}

	if filter.VariantColor != "" {
		return slices.ContainsFunc(p.Variants, func(v models.Variant) bool {
			return v.Color == filter.VariantColor
		})
	}

	return true
}

func variantIndex(p *models.Product, sku string) int {
	return slices.IndexFunc(p.Variants, func(v models.Variant) bool { return v.SKU == sku })
}

func cloneProduct(p *models.Product) *models.Product {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.Variants = slices.Clone(p.Variants)

	return &c
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[primitive.ObjectID]*keyedLock)}
}

// Lock blocks until the lock for key is held and returns its release func.
func (k *keyedMutex) Lock(key primitive.ObjectID) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
