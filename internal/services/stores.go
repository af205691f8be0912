package services

import (
	"context"
	"time"

	"github.com/entescheme/ente-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileStore persists citizen profiles keyed by user id.
type ProfileStore interface {
	// InsertProfile returns models.ErrDuplicateProfile when the user already has one.
	InsertProfile(ctx context.Context, profile *models.Profile) error
	FindProfile(ctx context.Context, userID string) (*models.Profile, error)
	// ReplaceProfile writes profile only if the stored version equals
	// expectedVersion, otherwise models.ErrVersionConflict.
	ReplaceProfile(ctx context.Context, profile *models.Profile, expectedVersion int64) error
}

// SchemeStore persists the scheme catalogue.
type SchemeStore interface {
	InsertScheme(ctx context.Context, scheme *models.Scheme) error
	FindScheme(ctx context.Context, id primitive.ObjectID) (*models.Scheme, error)
	// ListSchemes returns every scheme in creation order.
	ListSchemes(ctx context.Context) ([]models.Scheme, error)
	ReplaceScheme(ctx context.Context, scheme *models.Scheme, expectedVersion int64) error
	DeleteScheme(ctx context.Context, id primitive.ObjectID) error
}

// NewsStore persists news items.
type NewsStore interface {
	InsertNews(ctx context.Context, news *models.News) error
	FindNews(ctx context.Context, id primitive.ObjectID) (*models.News, error)
	// ListNews returns every item, newest first.
	ListNews(ctx context.Context) ([]models.News, error)
	ReplaceNews(ctx context.Context, news *models.News) error
	DeleteNews(ctx context.Context, id primitive.ObjectID) error
}

// UserStore persists accounts.
type UserStore interface {
	// InsertUser returns models.ErrEmailTaken or models.ErrUsernameTaken on conflicts.
	InsertUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetEmailVerified(ctx context.Context, email string, at time.Time) error
}

// OTPStore keeps at most one live code per email.
type OTPStore interface {
	// ReplaceOTP removes any previous code for the email and stores otp.
	ReplaceOTP(ctx context.Context, otp *models.OTP) error
	// FindOTP returns the current code for the email or nil when there is none.
	FindOTP(ctx context.Context, email string) (*models.OTP, error)
	UpdateOTP(ctx context.Context, otp *models.OTP) error
}

// AuditSink receives batches of audit records.
type AuditSink interface {
	WriteAudit(ctx context.Context, records []models.AuditRecord) error
}
