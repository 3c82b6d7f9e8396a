package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/product-catalog-service/internal/errors"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
	repository "github.com/aaravmahajanofficial/product-catalog-service/internal/repositories"
	service "github.com/aaravmahajanofficial/product-catalog-service/internal/services"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/services/mocks"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/testutils"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "body: %s", rr.Body.String())

	return resp
}

func TestCreateProduct(t *testing.T) {
	t.Run("Success - Product Created", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)
		expected := &models.Product{ID: primitive.NewObjectID(), Name: "T-Shirt", BasePrice: 25, Category: "Clothing"}

		mockService.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req *models.CreateProductRequest) bool {
			return req.Name == "T-Shirt" && *req.BasePrice == 25 && len(req.Variants) == 1
		})).Return(expected, nil).Once()

		body := `{"name":"T-Shirt","description":"tee","base_price":25,"category":"Clothing",
			"variants":[{"color":"Red","size":"M","stock":10,"sku":"TS-RED-M"}]}`
		req := testutils.CreateTestRequest(http.MethodPost, "/products", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		// Act
		productHandler.CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var got models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &got))
		assert.Equal(t, expected.ID, got.ID)
		assert.Equal(t, "T-Shirt", got.Name)
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		body := `{"name":"T-Shirt","description":"tee","base_price":-1,"category":"Furniture"}`
		req := testutils.CreateTestRequest(http.MethodPost, "/products", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		productHandler.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "Field base_price must be greater than or equal to 0")
		assert.Contains(t, resp.Error.Details, "Field category must be a known category")
		mockService.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Malformed JSON", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		req := testutils.CreateTestRequest(http.MethodPost, "/products", strings.NewReader(`{"name":`), nil)
		rr := httptest.NewRecorder()

		productHandler.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, decodeResponse(t, rr).Error.Code)
	})

	t.Run("Failure - Store Unavailable", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		mockService.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, appErrors.StoreUnavailableError("Catalog store is unavailable")).Once()

		body := `{"name":"T-Shirt","description":"tee","base_price":25,"category":"Clothing"}`
		req := testutils.CreateTestRequest(http.MethodPost, "/products", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		productHandler.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, appErrors.ErrCodeStoreUnavailable, decodeResponse(t, rr).Error.Code)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("Failure - Malformed ID", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		req := testutils.CreateTestRequest(http.MethodGet, "/products/not-an-id", nil, map[string]string{"id": "not-an-id"})
		rr := httptest.NewRecorder()

		productHandler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeInvalidKey, decodeResponse(t, rr).Error.Code)
		mockService.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)
		id := primitive.NewObjectID()

		mockService.On("GetProductByID", mock.Anything, id).Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/products/"+id.Hex(), nil, map[string]string{"id": id.Hex()})
		rr := httptest.NewRecorder()

		productHandler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, appErrors.ErrCodeNotFound, decodeResponse(t, rr).Error.Code)
	})

	t.Run("Success - Variants Only", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)
		id := primitive.NewObjectID()
		product := &models.Product{ID: id, Variants: []models.Variant{{SKU: "TS-RED-M", Color: "Red", Size: "M", Stock: 10}}}

		mockService.On("GetProductByID", mock.Anything, id).Return(product, nil).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/products/"+id.Hex()+"/variants", nil, map[string]string{"id": id.Hex()})
		rr := httptest.NewRecorder()

		productHandler.GetProductVariants().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var variants []models.Variant
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &variants))
		assert.Equal(t, product.Variants, variants)
	})
}

func TestProjectProducts(t *testing.T) {
	t.Run("Fields come from the query string", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		mockService.On("ProjectProducts", mock.Anything, []string{"name", "variants.sku"}).
			Return([]models.ProjectedProduct{{"name": "T-Shirt"}}, nil).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/products/variants/details?fields=name,%20variants.sku,", nil, nil)
		rr := httptest.NewRecorder()

		productHandler.ProjectProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Unknown field", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		mockService.On("ProjectProducts", mock.Anything, []string{"secret"}).
			Return(nil, appErrors.AddValidationError("secret", "field cannot be projected")).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/products/variants/details?fields=secret", nil, nil)
		rr := httptest.NewRecorder()

		productHandler.ProjectProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateVariantStock(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		mockService.On("UpdateVariantStock", mock.Anything, "TS-RED-M", 3).Return(nil).Once()

		req := testutils.CreateTestRequest(http.MethodPatch, "/products/variants/TS-RED-M/stock", strings.NewReader(`{"stock":3}`), map[string]string{"sku": "TS-RED-M"})
		rr := httptest.NewRecorder()

		productHandler.UpdateVariantStock().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var msg response.StatusMessage
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &msg))
		assert.Equal(t, "Stock updated successfully", msg.Message)
	})

	t.Run("Missing stock", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		req := testutils.CreateTestRequest(http.MethodPatch, "/products/variants/TS-RED-M/stock", strings.NewReader(`{}`), map[string]string{"sku": "TS-RED-M"})
		rr := httptest.NewRecorder()

		productHandler.UpdateVariantStock().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, rr).Error.Code)
	})

	t.Run("Unknown sku", func(t *testing.T) {
		mockService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockService)

		mockService.On("UpdateVariantStock", mock.Anything, "NOPE", 1).Return(appErrors.NotFoundError("Variant not found")).Once()

		req := testutils.CreateTestRequest(http.MethodPatch, "/products/variants/NOPE/stock", strings.NewReader(`{"stock":1}`), map[string]string{"sku": "NOPE"})
		rr := httptest.NewRecorder()

		productHandler.UpdateVariantStock().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// newRouter serves the catalog from an in-memory store on both route prefixes.
func newRouter() *http.ServeMux {
	productService := service.NewProductService(repository.NewMemoryProductRepo())
	productHandler := handlers.NewProductHandler(productService)

	mux := http.NewServeMux()
	productHandler.RegisterRoutes(mux, "/api/v1", nil)
	productHandler.RegisterRoutes(mux, "", nil)

	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	return rr
}

func TestCatalogRoutes(t *testing.T) {
	t.Run("T-Shirt lifecycle", func(t *testing.T) {
		router := newRouter()

		rr := do(t, router, http.MethodPost, "/products", `{"name":"T-Shirt","description":"Cotton","base_price":25,"category":"Clothing",
			"variants":[{"color":"Red","size":"M","stock":10,"sku":"TS-RED-M"}]}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var created models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &created))
		require.False(t, created.ID.IsZero())

		rr = do(t, router, http.MethodPatch, "/products/variants/TS-RED-M/stock", `{"stock":3}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = do(t, router, http.MethodGet, "/products/variants/sku/TS-RED-M", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var variant models.Variant
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &variant))
		assert.Equal(t, 3, variant.Stock)

		rr = do(t, router, http.MethodDelete, "/products/variants/TS-RED-M", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = do(t, router, http.MethodGet, "/products/"+created.ID.Hex(), "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var fetched models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &fetched))
		assert.NotNil(t, fetched.Variants)
		assert.Empty(t, fetched.Variants)
		assert.Contains(t, rr.Body.String(), `"variants":[]`)
	})

	t.Run("Malformed id is a client error", func(t *testing.T) {
		rr := do(t, newRouter(), http.MethodGet, "/api/v1/products/badid", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeInvalidKey, decodeResponse(t, rr).Error.Code)
	})

	t.Run("Category and variant routes share a prefix", func(t *testing.T) {
		router := newRouter()

		rr := do(t, router, http.MethodPost, "/api/v1/products", `{"name":"Lamp","description":"Desk lamp","base_price":30,"category":"Home & Garden",
			"variants":[{"color":"White","size":"One","stock":2,"sku":"LMP-WHT"}]}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var created models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &created))

		rr = do(t, router, http.MethodGet, "/api/v1/products/category/Home%20&%20Garden", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var byCategory []models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &byCategory))
		require.Len(t, byCategory, 1)
		assert.Equal(t, created.ID, byCategory[0].ID)

		rr = do(t, router, http.MethodGet, "/api/v1/products/"+created.ID.Hex()+"/variants", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var variants []models.Variant
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &variants))
		require.Len(t, variants, 1)
		assert.Equal(t, "LMP-WHT", variants[0].SKU)

		rr = do(t, router, http.MethodGet, "/api/v1/products/variants/color/White", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var byColor []models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &byColor))
		assert.Len(t, byColor, 1)

		rr = do(t, router, http.MethodGet, "/api/v1/products/"+created.ID.Hex()+"/reviews", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Projection and sku collisions", func(t *testing.T) {
		router := newRouter()

		for i, name := range []string{"First", "Second"} {
			rr := do(t, router, http.MethodPost, "/products", fmt.Sprintf(`{"name":%q,"description":"d","base_price":%d,"category":"Toys",
				"variants":[{"color":"Red","size":"S","stock":1,"sku":"DUP-SKU"}]}`, name, i+1))

			if i == 0 {
				require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
				continue
			}

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, rr).Error.Code)
		}

		rr := do(t, router, http.MethodGet, "/products/variants/details?fields=name,variants.sku", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var projected []map[string]any
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &projected))
		require.Len(t, projected, 1)
		assert.Equal(t, "First", projected[0]["name"])
		assert.NotContains(t, projected[0], "base_price")
		assert.Equal(t, []any{map[string]any{"sku": "DUP-SKU"}}, projected[0]["variants"])

		rr = do(t, router, http.MethodGet, "/products/variants/details?fields=password", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Empty catalog lists an empty array", func(t *testing.T) {
		rr := do(t, newRouter(), http.MethodGet, "/products", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true,"data":[]}`, rr.Body.String())
	})

	t.Run("Update and delete", func(t *testing.T) {
		router := newRouter()

		rr := do(t, router, http.MethodPost, "/products", `{"name":"Ball","description":"Football","base_price":15,"category":"Sports"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var created models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &created))

		rr = do(t, router, http.MethodPut, "/products/"+created.ID.Hex(), `{"base_price":18,"tags":["outdoor"]}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var updated models.Product
		require.NoError(t, testutils.DecodeData(rr.Body.Bytes(), &updated))
		assert.Equal(t, 18.0, updated.BasePrice)
		assert.Equal(t, "Football", updated.Description)
		assert.Equal(t, []string{"outdoor"}, updated.Tags)

		rr = do(t, router, http.MethodPost, "/products/"+created.ID.Hex()+"/variants", `{"color":"White","size":"5","stock":4,"sku":"BALL-5"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		rr = do(t, router, http.MethodDelete, "/products/"+created.ID.Hex(), "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = do(t, router, http.MethodGet, "/products/"+created.ID.Hex(), "")
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = do(t, router, http.MethodGet, "/products/variants/sku/BALL-5", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = do(t, router, http.MethodDelete, "/products/"+created.ID.Hex(), "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
