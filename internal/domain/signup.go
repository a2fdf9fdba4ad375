package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// PendingSignup is a provisional registration awaiting dual-channel OTP
// confirmation. Exactly one record exists per (email, mobile) identity;
// every signup attempt overwrites it with fresh codes and expiries.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL so abandoned
// attempts are reaped without an explicit cleanup job.
type PendingSignup struct {
	SignupID           string `json:"signup_id" dynamodbav:"signup_id"`
	Name               string `json:"name" dynamodbav:"name"`
	Email              string `json:"email" dynamodbav:"email"`
	Mobile             string `json:"mobile" dynamodbav:"mobile"`
	MobileOTP          string `json:"-" dynamodbav:"mobile_otp"`
	EmailOTP           string `json:"-" dynamodbav:"email_otp"`
	MobileOTPExpiresAt int64  `json:"-" dynamodbav:"mobile_otp_expires_at"` // Unix seconds
	EmailOTPExpiresAt  int64  `json:"-" dynamodbav:"email_otp_expires_at"`  // Unix seconds
	ExpiresAt          int64  `json:"-" dynamodbav:"expires_at"`            // TTL (Unix seconds)
}

// SignupKey derives the deterministic partition key for a pending signup.
// Keying on the (email, mobile) pair makes each retry an atomic PutItem
// overwrite instead of a read-modify-write.
func SignupKey(email, mobile string) string {
	sum := sha256.Sum256([]byte(email + "|" + mobile))
	return hex.EncodeToString(sum[:16])
}
