package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"workboard-service/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Store
// failures and revision conflicts are the only server-side conditions.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func checkRole(r *http.Request, allowedRoles ...models.UserRole) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header: %w", models.ErrForbidden)
	}
	for _, role := range allowedRoles {
		if string(role) == userRole {
			return nil
		}
	}
	return fmt.Errorf("user does not have the required role: %w", models.ErrForbidden)
}
