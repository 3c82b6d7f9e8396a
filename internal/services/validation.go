package service

import (
	"fmt"
	"strings"

	appErrors "github.com/aaravmahajanofficial/product-catalog-service/internal/errors"
	"github.com/aaravmahajanofficial/product-catalog-service/internal/models"
)

// The handlers already run struct validation; these checks keep the service
// safe for callers that bypass HTTP, such as the seeder.

func validateCreate(req *models.CreateProductRequest) error {
	if req == nil {
		return appErrors.ValidationError("Request body is required")
	}

	if strings.TrimSpace(req.Name) == "" {
		return appErrors.AddValidationError("name", "is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return appErrors.AddValidationError("description", "is required")
	}
	if req.BasePrice == nil {
		return appErrors.AddValidationError("base_price", "is required")
	}
	if *req.BasePrice < 0 {
		return appErrors.AddValidationError("base_price", "must be greater than or equal to 0")
	}
	if !models.IsValidCategory(req.Category) {
		return invalidCategory(req.Category)
	}

	return validateVariants(req.Variants)
}

func validateUpdate(req *models.UpdateProductRequest) error {
	if req == nil {
		return appErrors.ValidationError("Request body is required")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return appErrors.AddValidationError("name", "cannot be empty")
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return appErrors.AddValidationError("description", "cannot be empty")
	}
	if req.BasePrice != nil && *req.BasePrice < 0 {
		return appErrors.AddValidationError("base_price", "must be greater than or equal to 0")
	}
	if req.Category != nil && !models.IsValidCategory(*req.Category) {
		return invalidCategory(*req.Category)
	}

	if req.Variants != nil {
		return validateVariants(*req.Variants)
	}

	return nil
}

// validateVariants checks every variant and rejects a sku repeated within the list.
func validateVariants(variants []models.VariantRequest) error {
	seen := make(map[string]struct{}, len(variants))

	for i := range variants {
		if err := validateVariant(fmt.Sprintf("variants[%d]", i), &variants[i]); err != nil {
			return err
		}

		if _, dup := seen[variants[i].SKU]; dup {
			return appErrors.AddValidationError(fmt.Sprintf("variants[%d].sku", i), "duplicate sku "+variants[i].SKU)
		}
		seen[variants[i].SKU] = struct{}{}
	}

	return nil
}

func validateVariant(field string, v *models.VariantRequest) error {
	if v == nil {
		return appErrors.AddValidationError(field, "is required")
	}

	switch {
	case strings.TrimSpace(v.SKU) == "":
		return appErrors.AddValidationError(field+".sku", "is required")
	case strings.TrimSpace(v.Color) == "":
		return appErrors.AddValidationError(field+".color", "is required")
	case strings.TrimSpace(v.Size) == "":
		return appErrors.AddValidationError(field+".size", "is required")
	case v.Stock == nil:
		return appErrors.AddValidationError(field+".stock", "is required")
	case *v.Stock < 0:
		return appErrors.AddValidationError(field+".stock", "must be greater than or equal to 0")
	}

	return nil
}

func invalidCategory(category string) error {
	return appErrors.AddValidationError("category", fmt.Sprintf("%q is not a known category", category)).
		WithDetail("allowed categories: " + strings.Join(models.Categories, ", "))
}
