package models

import "strings"

// ProjectedProduct is a read-only shaping of a Product holding only the
// requested fields, keyed by their JSON names. "id" is always present.
type ProjectedProduct map[string]any

const variantFieldPrefix = "variants."

// ProjectableFields lists the fields a projection may request.
var ProjectableFields = []string{
	"name",
	"description",
	"base_price",
	"category",
	"brand",
	"tags",
	"created_at",
	"updated_at",
	"variants.id",
	"variants.color",
	"variants.size",
	"variants.stock",
	"variants.sku",
	"variants.price_adjustment",
}

// DefaultProjection is used when the caller does not name any fields.
var DefaultProjection = []string{
	"name",
	"base_price",
	"category",
	"variants.color",
	"variants.size",
	"variants.stock",
	"variants.sku",
}

func IsProjectableField(field string) bool {
	for _, f := range ProjectableFields {
		if f == field {
			return true
		}
	}

	return false
}

// SplitProjection separates top-level fields from variant sub-fields
// ("variants.color" -> "color").
func SplitProjection(fields []string) (top []string, variant []string) {
	for _, f := range fields {
		if sub, ok := strings.CutPrefix(f, variantFieldPrefix); ok {
			variant = append(variant, sub)
			continue
		}
		top = append(top, f)
	}

	return top, variant
}

// Project shapes p down to fields. Used by stores that cannot project natively.
func Project(p *Product, fields []string) ProjectedProduct {
	top, variantFields := SplitProjection(fields)

	out := ProjectedProduct{"id": p.ID}

	for _, f := range top {
		switch f {
		case "name":
			out[f] = p.Name
		case "description":
			out[f] = p.Description
		case "base_price":
			out[f] = p.BasePrice
		case "category":
			out[f] = p.Category
		case "brand":
			out[f] = p.Brand
		case "tags":
			out[f] = p.Tags
		case "created_at":
			out[f] = p.CreatedAt
		case "updated_at":
			out[f] = p.UpdatedAt
		}
	}

	if len(variantFields) == 0 {
		return out
	}

	variants := make([]map[string]any, 0, len(p.Variants))
	for _, v := range p.Variants {
		pv := make(map[string]any, len(variantFields))
		for _, f := range variantFields {
			switch f {
			case "id":
				pv[f] = v.ID
			case "color":
				pv[f] = v.Color
			case "size":
				pv[f] = v.Size
			case "stock":
				pv[f] = v.Stock
			case "sku":
				pv[f] = v.SKU
			case "price_adjustment":
				pv[f] = v.PriceAdjustment
			}
		}
		variants = append(variants, pv)
	}
	out["variants"] = variants

	return out
}
