package login

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/otp"
)

// codeTTL is how long a login code stays valid.
const codeTTL = 10 * time.Minute

type Service interface {
	// Initiate generates a code for an existing user and dispatches it over
	// the email channel when an email was supplied, else over SMS.
	Initiate(ctx context.Context, req domain.LoginRequest) (*domain.User, error)
	// Verify checks the stored code and issues a session token.
	Verify(ctx context.Context, req domain.VerifyLoginRequest) (*domain.User, string, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	ClearOTP(ctx context.Context, userID string) error
}

type mailSender interface {
	SendEmail(to, subject, htmlBody string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type tokenSigner interface {
	Sign(userID, email, mobile string) (string, error)
}

type service struct {
	users  userStore
	mailer mailSender
	sms    smsSender
	signer tokenSigner
}

type ServiceDeps struct {
	UserRepo  userStore
	Mailer    mailSender
	SMSSender smsSender
	JWTSigner tokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:  deps.UserRepo,
		mailer: deps.Mailer,
		sms:    deps.SMSSender,
		signer: deps.JWTSigner,
	}
}

func (s *service) Initiate(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	u, err := s.findUser(ctx, req.Email, req.Mobile)
	if err != nil {
		return nil, err
	}

	code, err := otp.New()
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := s.mailer.SendEmail(u.Email, mailSubject, mailBody(code)); err != nil {
			slog.Warn("login email dispatch failed", "email", u.Email, "err", err)
			return nil, fmt.Errorf("email channel: %w", domain.ErrDelivery)
		}
	} else {
		if err := s.sms.SendSMS(ctx, u.Mobile, smsMessage(code)); err != nil {
			slog.Warn("login SMS dispatch failed", "mobile", u.Mobile, "err", err)
			return nil, fmt.Errorf("mobile channel: %w", domain.ErrDelivery)
		}
	}

	err = s.users.Update(ctx, u.UserID, map[string]interface{}{
		"otp":            code,
		"otp_expires_at": time.Now().Add(codeTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Verify(ctx context.Context, req domain.VerifyLoginRequest) (*domain.User, string, error) {
	u, err := s.findUser(ctx, req.Email, req.Mobile)
	if err != nil {
		return nil, "", err
	}

	if u.OTP == "" || u.OTP != req.OTP {
		return nil, "", fmt.Errorf("invalid OTP: %w", domain.ErrInvalidCode)
	}
	if u.OTPExpiresAt < time.Now().Unix() {
		return nil, "", fmt.Errorf("OTP has expired: %w", domain.ErrExpiredCode)
	}

	// Clear the code immediately so it cannot be replayed for the rest of
	// its window.
	if err := s.users.ClearOTP(ctx, u.UserID); err != nil {
		slog.Warn("failed to clear login OTP", "user_id", u.UserID, "err", err)
	}

	token, err := s.signer.Sign(u.UserID, u.Email, u.Mobile)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) findUser(ctx context.Context, email, mobile string) (*domain.User, error) {
	if email != "" {
		return s.users.GetByEmail(ctx, email)
	}
	return s.users.GetByMobile(ctx, mobile)
}

const mailSubject = "Login OTP"

func smsMessage(code string) string {
	return fmt.Sprintf("Your OTP to log in to your account is %s.", code)
}

func mailBody(code string) string {
	return fmt.Sprintf(
		"<p>Your One-Time Password (OTP) to log in is: <b>%s</b></p><p>If you did not request this, please ignore this email.</p>",
		code,
	)
}
