package handlers

import "net/http"

// RegisterRoutes mounts the catalog routes under prefix ("" or "/api/v1").
// writeGuard wraps every mutating route; pass nil to leave them unguarded.
func (h *ProductHandler) RegisterRoutes(mux *http.ServeMux, prefix string, writeGuard func(http.Handler) http.Handler) {
	guard := func(next http.HandlerFunc) http.Handler {
		if writeGuard == nil {
			return next
		}
		return writeGuard(next)
	}

	mux.HandleFunc("GET "+prefix+"/products", h.ListProducts())
	mux.HandleFunc("GET "+prefix+"/products/variants/color/{color}", h.ListProductsByVariantColor())
	mux.HandleFunc("GET "+prefix+"/products/variants/details", h.ProjectProducts())
	mux.HandleFunc("GET "+prefix+"/products/variants/sku/{sku}", h.GetVariant())
	mux.HandleFunc("GET "+prefix+"/products/{id}", h.GetProduct())
	mux.HandleFunc("GET "+prefix+"/products/{id}/{sub}", h.productSubresource())

	mux.Handle("POST "+prefix+"/products", guard(h.CreateProduct()))
	mux.Handle("PUT "+prefix+"/products/{id}", guard(h.UpdateProduct()))
	mux.Handle("DELETE "+prefix+"/products/{id}", guard(h.DeleteProduct()))
	mux.Handle("PATCH "+prefix+"/products/variants/{sku}/stock", guard(h.UpdateVariantStock()))
	mux.Handle("POST "+prefix+"/products/{id}/variants", guard(h.AddVariant()))
	mux.Handle("DELETE "+prefix+"/products/variants/{sku}", guard(h.RemoveVariant()))
}
