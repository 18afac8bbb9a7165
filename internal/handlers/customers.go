package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/models"
	"github.com/bl4ckh4nd/simplecrm/internal/services/printer"
	"gorm.io/gorm"
)

func (r *Router) listCustomers(w http.ResponseWriter, req *http.Request) {
	customers, err := r.store.ListCustomers(req.Context(), req.URL.Query().Get("q"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (r *Router) getCustomer(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := r.store.CustomerByID(req.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (r *Router) createCustomer(w http.ResponseWriter, req *http.Request) {
	var customer models.Customer
	if err := json.NewDecoder(req.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Locally created customers never carry an ERP identity.
	customer.ID = 0
	customer.ExternalID = nil
	now := time.Now()
	customer.LastModifiedLocallyAt = &now

	if err := r.store.CreateCustomer(req.Context(), &customer); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (r *Router) updateCustomer(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := r.store.CustomerByID(req.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// ExternalID is immutable once set; restore it after the decode.
	externalID := customer.ExternalID
	if err := json.NewDecoder(req.Body).Decode(customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	customer.ID = id
	customer.ExternalID = externalID
	now := time.Now()
	customer.LastModifiedLocallyAt = &now

	if err := r.store.UpdateCustomer(req.Context(), customer); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (r *Router) deleteCustomer(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	if err := r.store.DeleteCustomer(req.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// customerSheet streams a printable PDF contact sheet.
func (r *Router) customerSheet(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := r.store.CustomerByID(req.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	pdf, err := printer.CustomerSheetPDF(customer)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="customer-%d.pdf"`, id))
	w.Write(pdf)
}
