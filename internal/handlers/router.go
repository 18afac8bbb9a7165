package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bl4ckh4nd/simplecrm/internal/config"
	"github.com/bl4ckh4nd/simplecrm/internal/middleware"
	"github.com/bl4ckh4nd/simplecrm/internal/store"
	"github.com/bl4ckh4nd/simplecrm/internal/sync"
	"github.com/bl4ckh4nd/simplecrm/internal/utils"
	"github.com/bl4ckh4nd/simplecrm/internal/websocket"
	"github.com/gorilla/mux"
)

// Router wraps the mux router with its collaborators
type Router struct {
	*mux.Router
	store       *store.Store
	syncService *sync.Service
	reporter    *sync.Reporter
	hub         *websocket.Hub
	cfg         *config.Config
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(st *store.Store, svc *sync.Service, rep *sync.Reporter, hub *websocket.Hub, cfg *config.Config) *Router {
	r := &Router{
		Router:      mux.NewRouter(),
		store:       st,
		syncService: svc,
		reporter:    rep,
		hub:         hub,
		cfg:         cfg,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	r.HandleFunc("/auth/login", r.login).Methods("POST")

	// Event stream stays outside the auth middleware: browser
	// websocket clients cannot set an Authorization header.
	r.HandleFunc("/api/sync/events", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(hub, w, req)
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Sync control endpoints
	api.HandleFunc("/sync/run", r.runSync).Methods("POST")
	api.HandleFunc("/sync/status", r.getSyncStatus).Methods("GET")
	api.HandleFunc("/sync/errors", r.getSyncErrors).Methods("GET")

	// Customer routes
	api.HandleFunc("/customers", r.listCustomers).Methods("GET")
	api.HandleFunc("/customers", r.createCustomer).Methods("POST")
	api.HandleFunc("/customers/{id}", r.getCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", r.updateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", r.deleteCustomer).Methods("DELETE")
	api.HandleFunc("/customers/{id}/sheet.pdf", r.customerSheet).Methods("GET")

	// Product routes
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products", r.createProduct).Methods("POST")
	api.HandleFunc("/products/{id}", r.getProduct).Methods("GET")
	api.HandleFunc("/products/{id}", r.updateProduct).Methods("PUT")
	api.HandleFunc("/products/{id}", r.deleteProduct).Methods("DELETE")

	// Deal routes
	api.HandleFunc("/deals", r.listDeals).Methods("GET")
	api.HandleFunc("/deals", r.createDeal).Methods("POST")
	api.HandleFunc("/deals/{id}", r.updateDeal).Methods("PUT")
	api.HandleFunc("/deals/{id}", r.deleteDeal).Methods("DELETE")

	// Task routes
	api.HandleFunc("/tasks", r.listTasks).Methods("GET")
	api.HandleFunc("/tasks", r.createTask).Methods("POST")
	api.HandleFunc("/tasks/{id}", r.updateTask).Methods("PUT")
	api.HandleFunc("/tasks/{id}", r.deleteTask).Methods("DELETE")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// login exchanges the admin password for a bearer token
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	if r.cfg.JWTSecret == "" || r.cfg.AdminPasswordHash == "" {
		respondError(w, http.StatusNotImplemented, "authentication is not configured")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !utils.CheckPasswordHash(body.Password, r.cfg.AdminPasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := utils.GenerateToken(r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// pathID parses the {id} route variable
func pathID(req *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
