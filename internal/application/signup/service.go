package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/id"
	"github.com/otp-auth-api/internal/pkg/otp"
)

// codeTTL is how long each issued code stays valid.
const codeTTL = 10 * time.Minute

// recordTTL bounds the life of an abandoned pending record. Generous on
// purpose: expiry decisions belong to the flow, the table TTL only reaps
// attempts nobody will ever verify.
const recordTTL = 24 * time.Hour

type Service interface {
	// Initiate registers a provisional signup and dispatches one code per channel.
	Initiate(ctx context.Context, req domain.SignupRequest) (*domain.PendingSignup, error)
	// Verify checks both codes and promotes the pending record to a verified user.
	Verify(ctx context.Context, req domain.VerifySignupRequest) (*domain.User, string, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type signupStore interface {
	Upsert(ctx context.Context, p *domain.PendingSignup) error
	GetByEmail(ctx context.Context, email string) (*domain.PendingSignup, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.PendingSignup, error)
	Delete(ctx context.Context, signupID string) error
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
	users   userStore
	signups signupStore
	mailer  mailSender
	sms     smsSender
	signer  tokenSigner
}

type ServiceDeps struct {
	UserRepo   userStore
	SignupRepo signupStore
	Mailer     mailSender
	SMSSender  smsSender
	JWTSigner  tokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:   deps.UserRepo,
		signups: deps.SignupRepo,
		mailer:  deps.Mailer,
		sms:     deps.SMSSender,
		signer:  deps.JWTSigner,
	}
}

func (s *service) Initiate(ctx context.Context, req domain.SignupRequest) (*domain.PendingSignup, error) {
	// A store failure here must not read as "no user" — that would let a
	// duplicate identity slip through the uniqueness check.
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists with this email: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByMobile(ctx, req.Mobile); err == nil {
		return nil, fmt.Errorf("user already exists with this mobile: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	mobileCode, err := otp.New()
	if err != nil {
		return nil, err
	}
	emailCode, err := otp.New()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	codeExpiry := now.Add(codeTTL).Unix()
	p := &domain.PendingSignup{
		Name:               req.Name,
		Email:              req.Email,
		Mobile:             req.Mobile,
		MobileOTP:          mobileCode,
		EmailOTP:           emailCode,
		MobileOTPExpiresAt: codeExpiry,
		EmailOTPExpiresAt:  codeExpiry,
		ExpiresAt:          now.Add(recordTTL).Unix(),
	}
	if err := s.signups.Upsert(ctx, p); err != nil {
		return nil, err
	}

	// Both channels are always attempted; a failure on one never cancels
	// the other, and the reported error names the channel(s) that failed.
	smsErr := s.sms.SendSMS(ctx, req.Mobile, smsMessage(mobileCode))
	mailErr := s.mailer.SendEmail(req.Email, mailSubject, mailBody(emailCode))
	if smsErr != nil {
		slog.Warn("signup SMS dispatch failed", "mobile", req.Mobile, "err", smsErr)
	}
	if mailErr != nil {
		slog.Warn("signup email dispatch failed", "email", req.Email, "err", mailErr)
	}
	switch {
	case smsErr != nil && mailErr != nil:
		return nil, fmt.Errorf("mobile and email channels: %w", domain.ErrDelivery)
	case smsErr != nil:
		return nil, fmt.Errorf("mobile channel: %w", domain.ErrDelivery)
	case mailErr != nil:
		return nil, fmt.Errorf("email channel: %w", domain.ErrDelivery)
	}

	return p, nil
}

func (s *service) Verify(ctx context.Context, req domain.VerifySignupRequest) (*domain.User, string, error) {
	p, err := s.signups.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		p, err = s.signups.GetByMobile(ctx, req.Mobile)
	}
	if err != nil {
		return nil, "", err
	}

	// Mobile is checked before email; the first failing condition wins.
	now := time.Now().Unix()
	if p.MobileOTP != req.MobileOTP {
		return nil, "", fmt.Errorf("invalid mobile OTP: %w", domain.ErrInvalidCode)
	}
	if p.MobileOTPExpiresAt < now {
		return nil, "", fmt.Errorf("mobile OTP has expired: %w", domain.ErrExpiredCode)
	}
	if p.EmailOTP != req.EmailOTP {
		return nil, "", fmt.Errorf("invalid email OTP: %w", domain.ErrInvalidCode)
	}
	if p.EmailOTPExpiresAt < now {
		return nil, "", fmt.Errorf("email OTP has expired: %w", domain.ErrExpiredCode)
	}

	created := time.Now().UTC()
	u := &domain.User{
		UserID:    id.New(),
		Name:      p.Name,
		Email:     p.Email,
		Mobile:    p.Mobile,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, "", err
	}
	if err := s.signups.Delete(ctx, p.SignupID); err != nil {
		slog.Warn("failed to delete pending signup after promotion", "signup_id", p.SignupID, "err", err)
	}

	token, err := s.signer.Sign(u.UserID, u.Email, u.Mobile)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

const mailSubject = "OTP Verification"

func smsMessage(code string) string {
	return fmt.Sprintf("Your OTP to verify your account is %s.", code)
}

func mailBody(code string) string {
	return fmt.Sprintf(
		"<h1>Welcome!</h1><p>Your One-Time Password (OTP) for verification is: <b>%s</b></p><p>If you did not request this, please ignore this email.</p>",
		code,
	)
}
