package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"workboard-service/models"
	"workboard-service/services"
)

type SubmissionHandler struct {
	service *services.SubmissionService
}

func NewSubmissionHandler(service *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var submission models.TaskSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Submit(r.Context(), submission)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	submission, err := h.service.GetSubmission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) ByTask(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.service.ByTask(r.Context(), mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.service.ByUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) RecentForCreator(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleCreator); err != nil {
		writeError(w, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	submissions, err := h.service.RecentForCreator(r.Context(), mux.Vars(r)["username"], limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkCompleted(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SubmissionHandler) MarkLatestCompletedForTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkLatestCompletedForTask(r.Context(), mux.Vars(r)["taskId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SubmissionHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSubmission(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
