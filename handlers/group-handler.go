package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"workboard-service/models"
	"workboard-service/services"
)

type GroupHandler struct {
	service *services.GroupService
}

func NewGroupHandler(service *services.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleCreator); err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		Name            string   `json:"name"`
		CreatorUsername string   `json:"creatorUsername"`
		Members         []string `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	group, err := h.service.CreateGroup(r.Context(), body.Name, body.CreatorUsername, body.Members)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code     string `json:"code"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	group, err := h.service.JoinByCode(r.Context(), body.Code, body.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.service.GetGroup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleCreator); err != nil {
		writeError(w, err)
		return
	}
	var group models.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	group.ID = mux.Vars(r)["id"]
	if err := h.service.UpdateGroup(r.Context(), group); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleCreator); err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.DeleteGroup(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleCreator); err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.AddMember(r.Context(), mux.Vars(r)["id"], body.Username); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleCreator); err != nil {
		writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	if err := h.service.RemoveMember(r.Context(), vars["id"], vars["username"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) GroupsForUser(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.GroupsForUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) GroupsCreatedBy(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.GroupsCreatedBy(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
