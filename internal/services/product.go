package service

import (
	"context"
	"errors"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/product-catalog-service/internal/errors"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/metrics"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
	repository "github.com/aaravmahajanofficial/product-catalog-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	ProjectProducts(ctx context.Context, fields []string) ([]models.ProjectedProduct, error)
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	UpdateVariantStock(ctx context.Context, sku string, stock int) error
	AddVariant(ctx context.Context, productID primitive.ObjectID, req *models.VariantRequest) (*models.Variant, error)
	RemoveVariantBySKU(ctx context.Context, sku string) error
	GetVariantBySKU(ctx context.Context, sku string) (*models.Variant, error)
}

type productService struct {
	repo repository.ProductRepository
	now  func() time.Time
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo, now: utcNow}
}

// utcNow is truncated to BSON date precision so timestamps returned by a write
// match the ones read back from the store.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (product *models.Product, err error) {
	defer func() { metrics.RecordCatalogOperation("create", err) }()

	if err := validateCreate(req); err != nil {
		return nil, err
	}

	variants := buildVariants(req.Variants)

	if err := s.ensureSKUsAvailable(ctx, variants, primitive.NilObjectID); err != nil {
		return nil, err
	}

	now := s.now()
	product = &models.Product{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   *req.BasePrice,
		Category:    req.Category,
		Brand:       req.Brand,
		Tags:        req.Tags,
		Variants:    variants,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, translate(err, "Failed to create product")
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) (products []*models.Product, err error) {
	defer func() { metrics.RecordCatalogOperation("list", err) }()

	products, err = s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, translate(err, "Failed to fetch products")
	}

	return products, nil
}

// ProjectProducts returns every product shaped down to fields. An empty field
// list selects the default projection.
func (s *productService) ProjectProducts(ctx context.Context, fields []string) (out []models.ProjectedProduct, err error) {
	defer func() { metrics.RecordCatalogOperation("project", err) }()

	if len(fields) == 0 {
		fields = models.DefaultProjection
	}

	selected := make([]string, 0, len(fields))
	for _, f := range fields {
		if !models.IsProjectableField(f) {
			return nil, appErrors.AddValidationError(f, "field cannot be projected").
				WithDetail("allowed fields: " + strings.Join(models.ProjectableFields, ", "))
		}
		if !contains(selected, f) {
			selected = append(selected, f)
		}
	}

	out, err = s.repo.ProjectProducts(ctx, selected)
	if err != nil {
		return nil, translate(err, "Failed to project products")
	}

	return out, nil
}

func (s *productService) GetProductByID(ctx context.Context, id primitive.ObjectID) (product *models.Product, err error) {
	defer func() { metrics.RecordCatalogOperation("get", err) }()

	product, err = s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Failed to get product")
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id primitive.ObjectID, req *models.UpdateProductRequest) (product *models.Product, err error) {
	defer func() { metrics.RecordCatalogOperation("update", err) }()

	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	update := &models.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Category:    req.Category,
		Brand:       req.Brand,
		Tags:        req.Tags,
		UpdatedAt:   s.now(),
	}

	if req.Variants != nil {
		variants := buildVariants(*req.Variants)

		if err := s.ensureSKUsAvailable(ctx, variants, id); err != nil {
			return nil, err
		}

		update.Variants = &variants
	}

	product, err = s.repo.UpdateProduct(ctx, id, update)
	if err != nil {
		return nil, translate(err, "Failed to update product")
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id primitive.ObjectID) (err error) {
	defer func() { metrics.RecordCatalogOperation("delete", err) }()

	if err = s.repo.DeleteProduct(ctx, id); err != nil {
		return translate(err, "Failed to delete product")
	}

	return nil
}

// UpdateVariantStock rewrites the stock of the variant holding sku. Siblings and
// the parent's other fields are left as they are.
func (s *productService) UpdateVariantStock(ctx context.Context, sku string, stock int) (err error) {
	defer func() { metrics.RecordCatalogOperation("update_stock", err) }()

	if strings.TrimSpace(sku) == "" {
		return appErrors.AddValidationError("sku", "is required")
	}
	if stock < 0 {
		return appErrors.AddValidationError("stock", "must be greater than or equal to 0")
	}

	if err = s.repo.UpdateVariantStock(ctx, sku, stock, s.now()); err != nil {
		return translate(err, "Failed to update stock")
	}

	return nil
}

func (s *productService) AddVariant(ctx context.Context, productID primitive.ObjectID, req *models.VariantRequest) (variant *models.Variant, err error) {
	defer func() { metrics.RecordCatalogOperation("add_variant", err) }()

	if err := validateVariant("variant", req); err != nil {
		return nil, err
	}

	v := newVariant(req)

	// No product is excluded: the sku must not exist anywhere, including the target.
	if err := s.ensureSKUsAvailable(ctx, []models.Variant{v}, primitive.NilObjectID); err != nil {
		return nil, err
	}

	if err = s.repo.AddVariant(ctx, productID, v, s.now()); err != nil {
		return nil, translate(err, "Failed to add variant")
	}

	return &v, nil
}

func (s *productService) RemoveVariantBySKU(ctx context.Context, sku string) (err error) {
	defer func() { metrics.RecordCatalogOperation("remove_variant", err) }()

	if strings.TrimSpace(sku) == "" {
		return appErrors.AddValidationError("sku", "is required")
	}

	if err = s.repo.RemoveVariantBySKU(ctx, sku, s.now()); err != nil {
		return translate(err, "Failed to remove variant")
	}

	return nil
}

func (s *productService) GetVariantBySKU(ctx context.Context, sku string) (variant *models.Variant, err error) {
	defer func() { metrics.RecordCatalogOperation("get_variant", err) }()

	variant, err = s.repo.GetVariantBySKU(ctx, sku)
	if err != nil {
		return nil, translate(err, "Failed to get variant")
	}

	return variant, nil
}

func (s *productService) ensureSKUsAvailable(ctx context.Context, variants []models.Variant, exclude primitive.ObjectID) error {
	if len(variants) == 0 {
		return nil
	}

	skus := make([]string, 0, len(variants))
	for _, v := range variants {
		skus = append(skus, v.SKU)
	}

	taken, err := s.repo.FindExistingSKUs(ctx, skus, exclude)
	if err != nil {
		return translate(err, "Failed to check sku uniqueness")
	}

	if len(taken) > 0 {
		return appErrors.ValidationError("SKU already exists").
			WithDetail(strings.Join(taken, ", "))
	}

	return nil
}

func buildVariants(reqs []models.VariantRequest) []models.Variant {
	variants := make([]models.Variant, 0, len(reqs))
	for i := range reqs {
		variants = append(variants, newVariant(&reqs[i]))
	}

	return variants
}

func newVariant(req *models.VariantRequest) models.Variant {
	return models.Variant{
		ID:              primitive.NewObjectID(),
		Color:           req.Color,
		Size:            req.Size,
		Stock:           *req.Stock,
		SKU:             req.SKU,
		PriceAdjustment: req.PriceAdjustment,
	}
}

// translate maps store errors onto the API error taxonomy.
func translate(err error, message string) error {
	if _, ok := appErrors.IsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return appErrors.NotFoundError("Product not found").WithError(err)
	case errors.Is(err, repository.ErrVariantNotFound):
		return appErrors.NotFoundError("Variant not found").WithError(err)
	case errors.Is(err, repository.ErrDuplicateSKU):
		return appErrors.ValidationError("SKU already exists").WithError(err)
	case errors.Is(err, repository.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return appErrors.StoreUnavailableError("Catalog store is unavailable").WithError(err)
	default:
		return appErrors.DatabaseError(message).WithError(err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
