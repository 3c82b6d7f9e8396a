package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories accepted for Product.Category.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Garden",
	"Sports",
	"Toys",
	"Beauty",
	"Automotive",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}

	return false
}

// Variant is embedded in a Product and has no lifecycle of its own.
type Variant struct {
	ID              primitive.ObjectID `json:"id" bson:"id"`
	Color           string             `json:"color" bson:"color"`
	Size            string             `json:"size" bson:"size"`
	Stock           int                `json:"stock" bson:"stock"`
	SKU             string             `json:"sku" bson:"sku"`
	PriceAdjustment float64            `json:"price_adjustment" bson:"price_adjustment"`
}

type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	BasePrice   float64            `json:"base_price" bson:"base_price"`
	Category    string             `json:"category" bson:"category"`
	Brand       string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Tags        []string           `json:"tags" bson:"tags"`
	Variants    []Variant          `json:"variants" bson:"variants"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// ProductFilter is an exact-match restriction for listing. Empty fields are ignored.
type ProductFilter struct {
	Category     string
	VariantColor string
}

// ProductUpdate carries the top-level fields to merge into a stored Product.
// A non-nil Variants replaces the embedded list wholesale.
type ProductUpdate struct {
	Name        *string
	Description *string
	BasePrice   *float64
	Category    *string
	Brand       *string
	Tags        *[]string
	Variants    *[]Variant
	UpdatedAt   time.Time
}

type VariantRequest struct {
	Color           string  `json:"color" validate:"required,max=50"`
	Size            string  `json:"size" validate:"required,max=20"`
	Stock           *int    `json:"stock" validate:"required,gte=0"`
	SKU             string  `json:"sku" validate:"required,min=3,max=64"`
	PriceAdjustment float64 `json:"price_adjustment,omitempty"`
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description" validate:"required,max=2000"`
	BasePrice   *float64         `json:"base_price" validate:"required,gte=0"`
	Category    string           `json:"category" validate:"required,category"`
	Brand       string           `json:"brand,omitempty" validate:"omitempty,max=100"`
	Tags        []string         `json:"tags,omitempty" validate:"omitempty,dive,required,max=50"`
	Variants    []VariantRequest `json:"variants,omitempty" validate:"omitempty,dive"`
}

type UpdateProductRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string           `json:"description,omitempty" validate:"omitempty,max=2000"`
	BasePrice   *float64          `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	Category    *string           `json:"category,omitempty" validate:"omitempty,category"`
	Brand       *string           `json:"brand,omitempty" validate:"omitempty,max=100"`
	Tags        *[]string         `json:"tags,omitempty"`
	Variants    *[]VariantRequest `json:"variants,omitempty"`
}

type UpdateStockRequest struct {
	Stock *int `json:"stock" validate:"required"`
}
