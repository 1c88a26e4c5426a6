package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wompi-checkout/internal/checkout"
)

type ProductsHandler struct {
	Store checkout.Store
	Log   *zap.Logger
}

type createProductReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price"`
	Stock       int    `json:"stock"`
	Image       string `json:"image"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Post("/products/preload", h.preloadProducts)
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Store.Products().List(ctx)
	if err != nil {
		h.Log.Error("list products failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al buscar productos")
		return
	}
	writeData(w, http.StatusOK, ps)
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.PriceCents < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := checkout.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		Image:       req.Image,
	}
	if err := h.Store.Products().Insert(ctx, &p); err != nil {
		h.Log.Error("create product failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al guardar el producto")
		return
	}
	writeData(w, http.StatusCreated, p)
}

// preloadProducts seeds the demo catalog.
func (h *ProductsHandler) preloadProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	demo := []checkout.Product{
		{Name: "Laptop ASUS", Description: "Laptop ideal para estudiantes y profesionales", PriceCents: 380000000, Stock: 15, Image: "https://example.com/laptop-asus.jpg"},
		{Name: "Smartphone Samsung Galaxy", Description: "Teléfono inteligente con cámara de alta calidad", PriceCents: 400000000, Stock: 20, Image: "https://example.com/smartphone-samsung.jpg"},
		{Name: "Auriculares Sony WH-1000XM4", Description: "Auriculares inalámbricos con cancelación de ruido", PriceCents: 66400000, Stock: 30, Image: "https://example.com/auriculares-sony.jpg"},
	}
	out := make([]checkout.Product, 0, len(demo))
	for _, p := range demo {
		p.ID = uuid.NewString()
		if err := h.Store.Products().Insert(ctx, &p); err != nil {
			h.Log.Error("preload products failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Error al guardar el producto")
			return
		}
		out = append(out, p)
	}
	writeData(w, http.StatusCreated, out)
}
