package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrDuplicateSKU     = errors.New("sku already exists")
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	ProjectProducts(ctx context.Context, fields []string) ([]models.ProjectedProduct, error)
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, update *models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	UpdateVariantStock(ctx context.Context, sku string, stock int, updatedAt time.Time) error
	AddVariant(ctx context.Context, productID primitive.ObjectID, variant models.Variant, updatedAt time.Time) error
	RemoveVariantBySKU(ctx context.Context, sku string, updatedAt time.Time) error
	GetVariantBySKU(ctx context.Context, sku string) (*models.Variant, error)
	// FindExistingSKUs returns the subset of skus already held by products other than excludeID.
	FindExistingSKUs(ctx context.Context, skus []string, excludeID primitive.ObjectID) ([]string, error)
	CountProducts(ctx context.Context) (int64, error)
}

type productRepository struct {
	coll *mongo.Collection
}

func NewProductRepo(coll *mongo.Collection) ProductRepository {
	return &productRepository{coll: coll}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	normalize(product)

	if _, err := r.coll.InsertOne(dbCtx, product); err != nil {
		return fmt.Errorf("inserting product: %w", mapMongoError(err))
	}

	return nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := bson.D{}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: filter.Category})
	}
	if filter.VariantColor != "" {
		query = append(query, bson.E{Key: "variants.color", Value: filter.VariantColor})
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	return r.find(dbCtx, query, opts)
}

func (r *productRepository) ProjectProducts(ctx context.Context, fields []string) ([]models.ProjectedProduct, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	projection := bson.D{}
	for _, f := range fields {
		projection = append(projection, bson.E{Key: f, Value: 1})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(projection)

	products, err := r.find(dbCtx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	// The store has already dropped the unrequested fields; shaping keeps the
	// JSON identical to the memory store's.
	out := make([]models.ProjectedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, models.Project(p, fields))
	}

	return out, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	err := r.coll.FindOne(dbCtx, bson.D{{Key: "_id", Value: id}}).Decode(product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying product %s: %w", id.Hex(), mapMongoError(err))
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, id primitive.ObjectID, update *models.ProductUpdate) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	set := bson.D{{Key: "updated_at", Value: update.UpdatedAt}}

	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}
	if update.BasePrice != nil {
		set = append(set, bson.E{Key: "base_price", Value: *update.BasePrice})
	}
	if update.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *update.Category})
	}
	if update.Brand != nil {
		set = append(set, bson.E{Key: "brand", Value: *update.Brand})
	}
	if update.Tags != nil {
		tags := *update.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: "tags", Value: tags})
	}
	if update.Variants != nil {
		variants := *update.Variants
		if variants == nil {
			variants = []models.Variant{}
		}
		set = append(set, bson.E{Key: "variants", Value: variants})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	product := &models.Product{}

	err := r.coll.FindOneAndUpdate(dbCtx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating product %s: %w", id.Hex(), mapMongoError(err))
	}

	return product, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(dbCtx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", id.Hex(), mapMongoError(err))
	}

	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateVariantStock rewrites the stock of the one variant holding sku through
// the positional operator; siblings and parent fields are not touched.
func (r *productRepository) UpdateVariantStock(ctx context.Context, sku string, stock int, updatedAt time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.D{{Key: "variants.sku", Value: sku}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "variants.$.stock", Value: stock},
		{Key: "updated_at", Value: updatedAt},
	}}}

	res, err := r.coll.UpdateOne(dbCtx, filter, update)
	if err != nil {
		return fmt.Errorf("updating stock of %s: %w", sku, mapMongoError(err))
	}

	if res.MatchedCount == 0 {
		return ErrVariantNotFound
	}

	return nil
}

func (r *productRepository) AddVariant(ctx context.Context, productID primitive.ObjectID, variant models.Variant, updatedAt time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// The $ne guard rejects a sku already present in this document; the unique
	// index only covers collisions across documents.
	filter := bson.D{
		{Key: "_id", Value: productID},
		{Key: "variants.sku", Value: bson.D{{Key: "$ne", Value: variant.SKU}}},
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "variants", Value: variant}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
	}

	res, err := r.coll.UpdateOne(dbCtx, filter, update)
	if err != nil {
		return fmt.Errorf("adding variant %s: %w", variant.SKU, mapMongoError(err))
	}

	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(dbCtx, bson.D{{Key: "_id", Value: productID}})
	if err != nil {
		return fmt.Errorf("checking product %s: %w", productID.Hex(), mapMongoError(err))
	}

	if n == 0 {
		return ErrProductNotFound
	}

	return ErrDuplicateSKU
}

// RemoveVariantBySKU pulls the element matching sku; other variants keep their order.
func (r *productRepository) RemoveVariantBySKU(ctx context.Context, sku string, updatedAt time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.D{{Key: "variants.sku", Value: sku}}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "variants", Value: bson.D{{Key: "sku", Value: sku}}}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
	}

	res, err := r.coll.UpdateOne(dbCtx, filter, update)
	if err != nil {
		return fmt.Errorf("removing variant %s: %w", sku, mapMongoError(err))
	}

	if res.MatchedCount == 0 {
		return ErrVariantNotFound
	}

	return nil
}

func (r *productRepository) GetVariantBySKU(ctx context.Context, sku string) (*models.Variant, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.D{{Key: "variants.$", Value: 1}})

	var product models.Product

	err := r.coll.FindOne(dbCtx, bson.D{{Key: "variants.sku", Value: sku}}, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying variant %s: %w", sku, mapMongoError(err))
	}

	for i := range product.Variants {
		if product.Variants[i].SKU == sku {
			return &product.Variants[i], nil
		}
	}

	return nil, ErrVariantNotFound
}

func (r *productRepository) FindExistingSKUs(ctx context.Context, skus []string, excludeID primitive.ObjectID) ([]string, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID}}},
		{Key: "variants.sku", Value: bson.D{{Key: "$in", Value: skus}}},
	}
	opts := options.Find().SetProjection(bson.D{{Key: "variants.sku", Value: 1}})

	products, err := r.find(dbCtx, filter, opts)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(skus))
	for _, s := range skus {
		wanted[s] = struct{}{}
	}

	var existing []string
	for _, p := range products {
		for _, v := range p.Variants {
			if _, ok := wanted[v.SKU]; ok {
				existing = append(existing, v.SKU)
				delete(wanted, v.SKU)
			}
		}
	}

	return existing, nil
}

func (r *productRepository) CountProducts(ctx context.Context) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(dbCtx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", mapMongoError(err))
	}

	return n, nil
}

func (r *productRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", mapMongoError(err))
	}

	defer cursor.Close(ctx)

	products := make([]*models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", mapMongoError(err))
	}

	return products, nil
}

// normalize replaces nil slices so the stored document holds arrays, which
// $push and $pull require.
func normalize(p *models.Product) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Variants == nil {
		p.Variants = []models.Variant{}
	}
}

func mapMongoError(err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateSKU, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}
