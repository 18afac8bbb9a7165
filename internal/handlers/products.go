package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/models"
	"gorm.io/gorm"
)

func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	activeOnly := req.URL.Query().Get("active") == "true"
	products, err := r.store.ListProducts(req.Context(), activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (r *Router) getProduct(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := r.store.ProductByID(req.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var product models.Product
	if err := json.NewDecoder(req.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Locally created products never carry an ERP identity, which
	// keeps them invisible to the sync engine.
	product.ID = 0
	product.ExternalID = nil
	now := time.Now()
	product.LastModifiedLocallyAt = &now

	if err := r.store.CreateProduct(req.Context(), &product); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (r *Router) updateProduct(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := r.store.ProductByID(req.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	externalID := product.ExternalID
	if err := json.NewDecoder(req.Body).Decode(product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = id
	product.ExternalID = externalID
	now := time.Now()
	product.LastModifiedLocallyAt = &now

	if err := r.store.UpdateProduct(req.Context(), product); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (r *Router) deleteProduct(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := r.store.DeleteProduct(req.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
