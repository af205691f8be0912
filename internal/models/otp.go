package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP is a one-time email verification code.
type OTP struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email      string             `bson:"email" json:"email"`
	Code       string             `bson:"code" json:"-"`
	ExpiresAt  time.Time          `bson:"expires_at" json:"expiresAt"`
	Used       bool               `bson:"used" json:"used"`
	Attempts   int                `bson:"attempts" json:"attempts"`
	VerifiedAt *time.Time         `bson:"verified_at,omitempty" json:"verifiedAt,omitempty"`
	Consumed   bool               `bson:"consumed" json:"-"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// Expired reports whether the code is past its expiry at now.
func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// SendOTPRequest represents the request body for sending a code
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest represents the request body for verifying a code
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// VerifyEmailRequest confirms an account's email after a verified OTP
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}
