package login

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	args := m.Called(ctx, mobile)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) ClearOTP(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, email, mobile string) (string, error) {
	args := m.Called(userID, email, mobile)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func newService(us *mockUserStore, ml *mockMailer, sms *mockSMSSender, sig *mockSigner) Service {
	return NewService(ServiceDeps{UserRepo: us, Mailer: ml, SMSSender: sms, JWTSigner: sig})
}

func alice() *domain.User {
	return &domain.User{
		UserID: "u1",
		Name:   "Alice",
		Email:  "alice@example.com",
		Mobile: "9876543210",
	}
}

// --- Initiate tests ---

func TestInitiate_NotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, nil)
	_, err := svc.Initiate(context.Background(), domain.LoginRequest{Email: "ghost@example.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInitiate_EmailChannel_PersistsCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(alice(), nil)
	var saved map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(2).(map[string]interface{})
	}).Return(nil)

	ml := &mockMailer{}
	ml.On("SendEmail", "alice@example.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(us, ml, nil, nil)
	u, err := svc.Initiate(context.Background(), domain.LoginRequest{Email: "alice@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	require.NotNil(t, saved)
	assert.Len(t, saved["otp"], 6)
	assert.Greater(t, saved["otp_expires_at"].(int64), time.Now().Unix())
	ml.AssertExpectations(t)
	us.AssertExpectations(t)
}

func TestInitiate_MobileOnly_UsesSMSChannel(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByMobile", mock.Anything, "9876543210").Return(alice(), nil)
	us.On("Update", mock.Anything, "u1", mock.Anything).Return(nil)

	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, "9876543210", mock.Anything).Return(nil)

	svc := newService(us, nil, sms, nil)
	_, err := svc.Initiate(context.Background(), domain.LoginRequest{Mobile: "9876543210"})

	require.NoError(t, err)
	sms.AssertExpectations(t)
}

func TestInitiate_DeliveryFailure_NothingPersisted(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(alice(), nil)

	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(us, ml, nil, nil)
	_, err := svc.Initiate(context.Background(), domain.LoginRequest{Email: "alice@example.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDelivery))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- Verify tests ---

func TestVerify_InvalidCode(t *testing.T) {
	u := alice()
	u.OTP = "111111"
	u.OTPExpiresAt = time.Now().Add(5 * time.Minute).Unix()
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)

	svc := newService(us, nil, nil, nil)
	_, _, err := svc.Verify(context.Background(), domain.VerifyLoginRequest{Email: "alice@example.com", OTP: "999999"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

func TestVerify_NoStoredCode_IsInvalid(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(alice(), nil)

	svc := newService(us, nil, nil, nil)
	_, _, err := svc.Verify(context.Background(), domain.VerifyLoginRequest{Email: "alice@example.com", OTP: ""})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

func TestVerify_ExpiredCode(t *testing.T) {
	u := alice()
	u.OTP = "111111"
	u.OTPExpiresAt = time.Now().Add(-time.Minute).Unix()
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)

	svc := newService(us, nil, nil, nil)
	_, _, err := svc.Verify(context.Background(), domain.VerifyLoginRequest{Email: "alice@example.com", OTP: "111111"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExpiredCode))
	assert.False(t, errors.Is(err, domain.ErrInvalidCode))
}

func TestVerify_HappyPath_ClearsCodeAndIssuesToken(t *testing.T) {
	u := alice()
	u.OTP = "111111"
	u.OTPExpiresAt = time.Now().Add(5 * time.Minute).Unix()
	us := &mockUserStore{}
	us.On("GetByMobile", mock.Anything, "9876543210").Return(u, nil)
	us.On("ClearOTP", mock.Anything, "u1").Return(nil)

	sig := &mockSigner{}
	sig.On("Sign", "u1", "alice@example.com", "9876543210").Return("tok", nil)

	svc := newService(us, nil, nil, sig)
	got, token, err := svc.Verify(context.Background(), domain.VerifyLoginRequest{Mobile: "9876543210", OTP: "111111"})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "u1", got.UserID)
	us.AssertExpectations(t)
	sig.AssertExpectations(t)
}
