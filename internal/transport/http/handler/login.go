package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/validate"
)

// LoginService drives the two-step login flow.
type LoginService interface {
	Initiate(ctx context.Context, req domain.LoginRequest) (*domain.User, error)
	Verify(ctx context.Context, req domain.VerifyLoginRequest) (*domain.User, string, error)
}

type Login struct {
	svc LoginService
}

func NewLogin(svc LoginService) *Login {
	return &Login{svc: svc}
}

// Initiate handles POST /api/userLogin.
func (h *Login) Initiate(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.svc.Initiate(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Message: "OTP sent successfully",
		Success: true,
		User:    toPublicUser(u),
	})
}

// Verify handles POST /api/verifyUserLogin.
func (h *Login) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyLoginRequest
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
		Message: "User successfully verified and logged in",
		Success: true,
		User:    toPublicUser(user),
		Token:   token,
	})
}
