package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/validate"
)

// SignupService drives the two-step registration flow.
type SignupService interface {
	Initiate(ctx context.Context, req domain.SignupRequest) (*domain.PendingSignup, error)
	Verify(ctx context.Context, req domain.VerifySignupRequest) (*domain.User, string, error)
}

type Signup struct {
	svc SignupService
}

func NewSignup(svc SignupService) *Signup {
	return &Signup{svc: svc}
}

// Initiate handles POST /api/userSignup.
func (h *Signup) Initiate(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Initiate(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Envelope{
		Message: "User created successfully, OTP sent to mobile and email",
		Success: true,
		User:    &PublicUser{Name: p.Name, Email: p.Email, Mobile: p.Mobile},
	})
}

// Verify handles POST /api/verifyUserSignup.
func (h *Signup) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifySignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Message: "User successfully verified and added to the system",
		Success: true,
		User:    toPublicUser(user),
		Token:   token,
	})
}
