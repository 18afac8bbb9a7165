package handlers

import (
	"context"
	"net/http"

	"github.com/bl4ckh4nd/simplecrm/internal/sync"
)

// runSync triggers one synchronous sync pass and returns its outcome.
// The run is detached from the request context: once started, a sync
// proceeds to completion or failure even if the caller disconnects.
func (r *Router) runSync(w http.ResponseWriter, req *http.Request) {
	result := r.syncService.Run(context.Background())

	status := http.StatusOK
	if result.Status == sync.StatusSkipped {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}

// getSyncStatus returns the persisted last known status plus whether a
// run is currently in flight.
func (r *Router) getSyncStatus(w http.ResponseWriter, req *http.Request) {
	snapshot := r.reporter.GetLastSyncStatus(req.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    snapshot.Status,
		"message":   snapshot.Message,
		"timestamp": snapshot.Timestamp,
		"syncing":   r.syncService.Syncing(),
	})
}

// getSyncErrors lists the per-record failures of the most recent run.
func (r *Router) getSyncErrors(w http.ResponseWriter, req *http.Request) {
	errs, err := r.store.SyncErrors(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(errs),
		"errors": errs,
	})
}
