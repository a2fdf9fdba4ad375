package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/otp-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSignupSvc struct{ mock.Mock }

func (m *mockSignupSvc) Initiate(ctx context.Context, req domain.SignupRequest) (*domain.PendingSignup, error) {
	args := m.Called(ctx, req)
	if p, _ := args.Get(0).(*domain.PendingSignup); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSignupSvc) Verify(ctx context.Context, req domain.VerifySignupRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func TestSignupInitiate_InvalidBody(t *testing.T) {
	svc := &mockSignupSvc{}
	h := NewSignup(svc)
	r := httptest.NewRequest(http.MethodPost, "/api/userSignup", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Initiate(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupInitiate_ValidationFailure(t *testing.T) {
	svc := &mockSignupSvc{}
	h := NewSignup(svc)
	body, _ := json.Marshal(domain.SignupRequest{Name: "Alice"}) // missing email and mobile
	r := httptest.NewRequest(http.MethodPost, "/api/userSignup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Initiate(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupInitiate_Conflict(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Initiate", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("email already registered: %w", domain.ErrConflict))
	h := NewSignup(svc)
	body, _ := json.Marshal(domain.SignupRequest{Name: "Alice", Email: "alice@example.com", Mobile: "+15551234567"})
	r := httptest.NewRequest(http.MethodPost, "/api/userSignup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Initiate(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertExpectations(t)
}

func TestSignupInitiate_DeliveryFailure(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Initiate", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("mobile channel: %w", domain.ErrDelivery))
	h := NewSignup(svc)
	body, _ := json.Marshal(domain.SignupRequest{Name: "Alice", Email: "alice@example.com", Mobile: "+15551234567"})
	r := httptest.NewRequest(http.MethodPost, "/api/userSignup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Initiate(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupInitiate_HappyPath(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Initiate", mock.Anything, domain.SignupRequest{
		Name: "Alice", Email: "alice@example.com", Mobile: "+15551234567",
	}).Return(&domain.PendingSignup{
		SignupID: "p1", Name: "Alice", Email: "alice@example.com", Mobile: "+15551234567",
	}, nil)
	h := NewSignup(svc)
	body, _ := json.Marshal(domain.SignupRequest{Name: "Alice", Email: "alice@example.com", Mobile: "+15551234567"})
	r := httptest.NewRequest(http.MethodPost, "/api/userSignup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Initiate(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "User created successfully, OTP sent to mobile and email", resp.Message)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "+15551234567", resp.User.Mobile)
	svc.AssertExpectations(t)
}

func TestSignupVerify_WrongCode(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Verify", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("mobile code does not match: %w", domain.ErrInvalidCode))
	h := NewSignup(svc)
	body, _ := json.Marshal(domain.VerifySignupRequest{
		Email: "alice@example.com", Mobile: "+15551234567", MobileOTP: "111111", EmailOTP: "222222",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/verifyUserSignup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Verify(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupVerify_NoPendingRecord(t *testing.T) {
	svc := &mockSignupSvc{}
	svc.On("Verify", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("no pending signup: %w", domain.ErrNotFound))
	h := NewSignup(svc)
	body, _ := json.Marshal(domain.VerifySignupRequest{
		Email: "alice@example.com", Mobile: "+15551234567", MobileOTP: "111111", EmailOTP: "222222",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/verifyUserSignup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Verify(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSignupVerify_HappyPath(t *testing.T) {
	svc := &mockSignupSvc{}
	u := &domain.User{UserID: "u1", Name: "Alice", Email: "alice@example.com", Mobile: "+15551234567"}
	svc.On("Verify", mock.Anything, mock.Anything).Return(u, "signed-token", nil)
	h := NewSignup(svc)
	body, _ := json.Marshal(domain.VerifySignupRequest{
		Email: "alice@example.com", Mobile: "+15551234567", MobileOTP: "111111", EmailOTP: "222222",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/verifyUserSignup", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Verify(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "signed-token", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	svc.AssertExpectations(t)
}
