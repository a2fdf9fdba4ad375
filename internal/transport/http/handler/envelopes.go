package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/otp-auth-api/internal/domain"
)

// Envelope is the response wrapper shared by every endpoint.
type Envelope struct {
	Message string      `json:"message,omitempty"`
	Success bool        `json:"success"`
	User    *PublicUser `json:"user,omitempty"`
	Token   string      `json:"token,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PublicUser is the externally visible slice of a user record. Codes and
// expiries never leave the service.
type PublicUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	ProfileImage string `json:"profile_image,omitempty"`
}

func toPublicUser(u *domain.User) *PublicUser {
	return &PublicUser{
		Name:         u.Name,
		Email:        u.Email,
		Mobile:       u.Mobile,
		ProfileImage: u.ProfileImage,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Message: msg, Success: false})
}

// httpError maps a flow-level error onto its HTTP status and the standard
// failure envelope.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrExpiredCode),
		errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Message: "Server error",
			Success: false,
			Error:   err.Error(),
		})
	}
}
