package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bl4ckh4nd/simplecrm/internal/models"
	"gorm.io/gorm"
)

func queryUint(req *http.Request, key string) uint {
	n, _ := strconv.ParseUint(req.URL.Query().Get(key), 10, 32)
	return uint(n)
}

func (r *Router) listDeals(w http.ResponseWriter, req *http.Request) {
	deals, err := r.store.ListDeals(req.Context(), queryUint(req, "customer_id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, deals)
}

func (r *Router) createDeal(w http.ResponseWriter, req *http.Request) {
	var deal models.Deal
	if err := json.NewDecoder(req.Body).Decode(&deal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	deal.ID = 0
	if deal.Status == "" {
		deal.Status = models.DealStatusOpen
	}
	if err := r.store.CreateDeal(req.Context(), &deal); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, deal)
}

func (r *Router) updateDeal(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	deal, err := r.store.DealByID(req.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "deal not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := json.NewDecoder(req.Body).Decode(deal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	deal.ID = id

	if err := r.store.UpdateDeal(req.Context(), deal); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, deal)
}

func (r *Router) deleteDeal(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	if err := r.store.DeleteDeal(req.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (r *Router) listTasks(w http.ResponseWriter, req *http.Request) {
	openOnly := req.URL.Query().Get("open") == "true"
	tasks, err := r.store.ListTasks(req.Context(), queryUint(req, "customer_id"), openOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (r *Router) createTask(w http.ResponseWriter, req *http.Request) {
	var task models.Task
	if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task.ID = 0
	if err := r.store.CreateTask(req.Context(), &task); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (r *Router) updateTask(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := r.store.TaskByID(req.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := json.NewDecoder(req.Body).Decode(task); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task.ID = id

	if err := r.store.UpdateTask(req.Context(), task); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (r *Router) deleteTask(w http.ResponseWriter, req *http.Request) {
	id, ok := pathID(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	if err := r.store.DeleteTask(req.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
