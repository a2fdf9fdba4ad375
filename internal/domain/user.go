package domain

import "time"

// User is a verified account. Email and mobile are unique across the table
// (each backed by a GSI); a User only ever comes into existence through a
// successful signup verification.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	Mobile       string    `json:"mobile" dynamodbav:"mobile"`
	OTP          string    `json:"-" dynamodbav:"otp,omitempty"`
	OTPExpiresAt int64     `json:"-" dynamodbav:"otp_expires_at,omitempty"` // Unix seconds
	ProfileImage string    `json:"profile_image,omitempty" dynamodbav:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type SignupRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required"`
}

type VerifySignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Mobile    string `json:"mobile" validate:"required"`
	MobileOTP string `json:"mobileOtp" validate:"required"`
	EmailOTP  string `json:"emailOtp" validate:"required"`
}

// LoginRequest needs at least one of email/mobile.
type LoginRequest struct {
	Email  string `json:"email" validate:"required_without=Mobile,omitempty,email"`
	Mobile string `json:"mobile" validate:"required_without=Email"`
}

type VerifyLoginRequest struct {
	Email  string `json:"email" validate:"required_without=Mobile,omitempty,email"`
	Mobile string `json:"mobile" validate:"required_without=Email"`
	OTP    string `json:"otp" validate:"required"`
}

// UpdateUserRequest is a partial patch; nil fields are left untouched.
// The all-fields-absent case is rejected by the profile service.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Mobile *string `json:"mobile"`
}
