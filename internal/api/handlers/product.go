package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/api/middleware"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/errors"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
	service "github.com/aaravmahajanofficial/product-catalog-service/internal/services"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/utils"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Creates a product with its initial variant list. Every sku must be unused across the catalog.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.Product				"Product created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or sku collision"
//	@Failure		429		{object}	response.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created successfully", slog.String("productId", product.ID.Hex()))
		response.Success(w, http.StatusCreated, product)
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Returns every product in insertion order. An empty catalog yields an empty list.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		models.Product			"Products"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, models.ProductFilter{})
	}
}

// ListProductsByCategory godoc
//
//	@Summary		List products in a category
//	@Tags			Products
//	@Produce		json
//	@Param			category	path		string					true	"Category (exact match)"
//	@Success		200			{array}		models.Product			"Products"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/category/{category} [get]
func (h *ProductHandler) ListProductsByCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, models.ProductFilter{Category: r.PathValue("category")})
	}
}

// ListProductsByVariantColor godoc
//
//	@Summary		List products having a variant of a color
//	@Tags			Products
//	@Produce		json
//	@Param			color	path		string					true	"Variant color (exact match)"
//	@Success		200		{array}		models.Product			"Products"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/variants/color/{color} [get]
func (h *ProductHandler) ListProductsByVariantColor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, models.ProductFilter{VariantColor: r.PathValue("color")})
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, filter models.ProductFilter) {
	logger := middleware.LoggerFromContext(r.Context()).With(
		slog.String("category", filter.Category),
		slog.String("variantColor", filter.VariantColor),
	)

	products, err := h.productService.ListProducts(r.Context(), filter)
	if err != nil {
		logger.Error("Failed to list products", slog.Any("error", err))
		response.Error(w, err)
		return
	}

	logger.Info("Products listed successfully", slog.Int("count", len(products)))
	response.Success(w, http.StatusOK, products)
}

// ProjectProducts godoc
//
//	@Summary		Project product and variant fields
//	@Description	Returns only the requested fields of every product. Variant sub-fields use the "variants." prefix. Defaults to name, base_price, category and variant color, size, stock, sku.
//	@Tags			Products
//	@Produce		json
//	@Param			fields	query		string					false	"Comma separated field list, e.g. name,variants.sku"
//	@Success		200		{array}		object					"Projected products"
//	@Failure		400		{object}	response.ErrorResponse	"Unknown field"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/variants/details [get]
func (h *ProductHandler) ProjectProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		fields := utils.SplitCSV(r.URL.Query().Get("fields"))

		projected, err := h.productService.ProjectProducts(r.Context(), fields)
		if err != nil {
			logger.Warn("Failed to project products", slog.Any("fields", fields), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, projected)
	}
}

// GetProduct godoc
//
//	@Summary		Get a product by ID
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (hex ObjectID)"
//	@Success		200	{object}	models.Product			"Product"
//	@Failure		400	{object}	response.ErrorResponse	"Malformed product ID"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		product, ok := h.fetchProduct(w, r, logger)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// GetProductVariants godoc
//
//	@Summary		List the variants of a product
//	@Tags			Variants
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (hex ObjectID)"
//	@Success		200	{array}		models.Variant			"Variants"
//	@Failure		400	{object}	response.ErrorResponse	"Malformed product ID"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id}/variants [get]
func (h *ProductHandler) GetProductVariants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		product, ok := h.fetchProduct(w, r, logger)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, product.Variants)
	}
}

func (h *ProductHandler) fetchProduct(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*models.Product, bool) {
	id, err := utils.ParseObjectID(r, "id")
	if err != nil {
		logger.Warn("Invalid product id", slog.String("id", r.PathValue("id")))
		response.Error(w, err)
		return nil, false
	}

	product, err := h.productService.GetProductByID(r.Context(), id)
	if err != nil {
		logger.Warn("Failed to get product", slog.String("productId", id.Hex()), slog.Any("error", err))
		response.Error(w, err)
		return nil, false
	}

	return product, true
}

// UpdateProduct godoc
//
//	@Summary		Update a product
//	@Description	Merges the provided top-level fields. A variants array, when present, replaces the existing list.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID (hex ObjectID)"
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to update"
//	@Success		200		{object}	models.Product				"Updated product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or malformed ID"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		429		{object}	response.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseObjectID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("productId", id.Hex()))

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated successfully")
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//
//	@Summary		Delete a product
//	@Description	Deletes the product together with all of its variants.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (hex ObjectID)"
//	@Success		200	{object}	response.StatusMessage	"Product deleted"
//	@Failure		400	{object}	response.ErrorResponse	"Malformed product ID"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		429	{object}	response.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseObjectID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Failed to delete product", slog.String("productId", id.Hex()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted successfully", slog.String("productId", id.Hex()))
		response.Message(w, http.StatusOK, "Product deleted successfully")
	}
}

// UpdateVariantStock godoc
//
//	@Summary		Set the stock of a variant
//	@Description	Rewrites only the stock of the variant holding the sku. Sibling variants are untouched.
//	@Tags			Variants
//	@Accept			json
//	@Produce		json
//	@Param			sku		path		string						true	"Variant SKU"
//	@Param			stock	body		models.UpdateStockRequest	true	"New stock level"
//	@Success		200		{object}	response.StatusMessage		"Stock updated"
//	@Failure		400		{object}	response.ErrorResponse		"Negative or missing stock"
//	@Failure		404		{object}	response.ErrorResponse		"Variant not found"
//	@Failure		429		{object}	response.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/products/variants/{sku}/stock [patch]
func (h *ProductHandler) UpdateVariantStock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sku := r.PathValue("sku")
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("sku", sku))

		var req models.UpdateStockRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid stock update input")
			return
		}

		if err := h.productService.UpdateVariantStock(r.Context(), sku, *req.Stock); err != nil {
			logger.Error("Failed to update variant stock", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Variant stock updated", slog.Int("stock", *req.Stock))
		response.Message(w, http.StatusOK, "Stock updated successfully")
	}
}

// AddVariant godoc
//
//	@Summary		Add a variant to a product
//	@Tags			Variants
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Product ID (hex ObjectID)"
//	@Param			variant	body		models.VariantRequest	true	"Variant details"
//	@Success		201		{object}	models.Variant			"Variant added"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error, sku collision or malformed ID"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		429		{object}	response.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id}/variants [post]
func (h *ProductHandler) AddVariant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseObjectID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("productId", id.Hex()))

		var req models.VariantRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add variant input")
			return
		}

		variant, err := h.productService.AddVariant(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to add variant", slog.String("sku", req.SKU), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Variant added successfully", slog.String("sku", variant.SKU))
		response.Success(w, http.StatusCreated, variant)
	}
}

// RemoveVariant godoc
//
//	@Summary		Remove a variant by SKU
//	@Description	Pulls exactly the variant holding the sku from its product. Other variants keep their order.
//	@Tags			Variants
//	@Produce		json
//	@Param			sku	path		string					true	"Variant SKU"
//	@Success		200	{object}	response.StatusMessage	"Variant removed"
//	@Failure		404	{object}	response.ErrorResponse	"Variant not found"
//	@Failure		429	{object}	response.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/variants/{sku} [delete]
func (h *ProductHandler) RemoveVariant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sku := r.PathValue("sku")
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("sku", sku))

		if err := h.productService.RemoveVariantBySKU(r.Context(), sku); err != nil {
			logger.Error("Failed to remove variant", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Variant removed successfully")
		response.Message(w, http.StatusOK, "Variant removed successfully")
	}
}

// GetVariant godoc
//
//	@Summary		Get a variant by SKU
//	@Tags			Variants
//	@Produce		json
//	@Param			sku	path		string					true	"Variant SKU"
//	@Success		200	{object}	models.Variant			"Variant"
//	@Failure		404	{object}	response.ErrorResponse	"Variant not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/variants/sku/{sku} [get]
func (h *ProductHandler) GetVariant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sku := r.PathValue("sku")
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("sku", sku))

		variant, err := h.productService.GetVariantBySKU(r.Context(), sku)
		if err != nil {
			logger.Warn("Failed to get variant", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, variant)
	}
}

// productSubresource serves GET /products/{id}/{sub}. ServeMux cannot hold
// both /products/category/{category} and /products/{id}/variants, so the two
// are told apart here by their literal segment.
func (h *ProductHandler) productSubresource() http.HandlerFunc {
	byCategory := h.ListProductsByCategory()
	variants := h.GetProductVariants()

	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.PathValue("id") == "category":
			r.SetPathValue("category", r.PathValue("sub"))
			byCategory(w, r)
		case r.PathValue("sub") == "variants":
			variants(w, r)
		default:
			response.Error(w, errors.NotFoundError("Resource not found"))
		}
	}
}
