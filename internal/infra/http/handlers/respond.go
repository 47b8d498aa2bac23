package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/etarang/garba-desk/internal/usecase"
)

// Every route answers JSON; failures become a structured {error}, never a raw
// fault.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps the error taxonomy onto HTTP: a DomainError is something the
// operator must correct (422), a TechnicalError is a failed collaborator
// behind this service (502), anything else is a plain 500.
func statusFor(err error) int {
	switch {
	case usecase.IsDomainError(err):
		return http.StatusUnprocessableEntity
	case usecase.IsTechnicalError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
