package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/utils"
	"go.uber.org/zap"
)

// maxUnversionedUpdateAttempts bounds the reload loop of last-write-wins updates.
const maxUnversionedUpdateAttempts = 3

// ProfileService validates and persists citizen profiles.
type ProfileService struct {
	store  ProfileStore
	logger *logging.SafeLogger
	clock  utils.Clock
}

// ProfileServiceOption configures a ProfileService.
type ProfileServiceOption func(*ProfileService)

// WithProfileClock overrides the clock used for ages and timestamps.
func WithProfileClock(clock utils.Clock) ProfileServiceOption {
	return func(s *ProfileService) {
		s.clock = clock
	}
}

// NewProfileService creates a new profile service
func NewProfileService(store ProfileStore, logger *logging.SafeLogger, opts ...ProfileServiceOption) *ProfileService {
	s := &ProfileService{
		store:  store,
		logger: logger,
		clock:  utils.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProfile stores the first profile of userID.
func (s *ProfileService) CreateProfile(ctx context.Context, userID string, in *models.ProfileInput) (*models.Profile, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "profile.create", map[string]interface{}{"user_id": userID})
	defer cleanup()

	if in == nil {
		in = &models.ProfileInput{}
	}

	if _, err := s.store.FindProfile(ctx, userID); err == nil {
		observability.ProfileWrites.WithLabelValues("create", "duplicate").Inc()
		return nil, models.ErrDuplicateProfile
	} else if !errors.Is(err, models.ErrProfileNotFound) {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	verr := in.MissingRequired()
	profile := &models.Profile{UserID: userID}
	_, applyErr := in.ApplyTo(profile)
	mergeNewFields(verr, applyErr)

	now := s.clock()
	profile.Normalize()
	mergeNewFields(verr, validateProfile(profile, now))
	if err := verr.Err(); err != nil {
		observability.ProfileWrites.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	profile.RefreshAge(now)
	profile.CreatedAt = now
	profile.UpdatedAt = now
	profile.Version = 1

	if err := s.store.InsertProfile(ctx, profile); err != nil {
		if errors.Is(err, models.ErrDuplicateProfile) {
			observability.ProfileWrites.WithLabelValues("create", "duplicate").Inc()
			return nil, err
		}
		utils.RecordErrorInSpan(span, err, nil)
		observability.ProfileWrites.WithLabelValues("create", "error").Inc()
		s.logger.Error("failed to insert profile", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	observability.ProfileWrites.WithLabelValues("create", "success").Inc()
	fields := []zap.Field{
		zap.String("user_id", userID),
		zap.String("district", string(profile.District)),
	}
	if profile.Phone != "" {
		fields = append(fields, zap.String("phone", observability.MaskPhone(profile.Phone)))
	}
	if profile.AadhaarNumber != "" {
		fields = append(fields, zap.String("aadhaar", observability.MaskAadhaar(profile.AadhaarNumber)))
	}
	s.logger.Info("profile created", fields...)
	return profile, nil
}

// GetProfile returns the profile of userID with its age current.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.store.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	profile.RefreshAge(s.clock())
	return profile, nil
}

// UpdateProfile merges the present fields of in into the stored profile.
// A non-nil expectedVersion must equal the stored version; without one the
// write is last-write-wins.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in *models.ProfileInput, expectedVersion *int64) (*models.Profile, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "profile.update", map[string]interface{}{"user_id": userID})
	defer cleanup()

	if in == nil {
		in = &models.ProfileInput{}
	}

	attempts := maxUnversionedUpdateAttempts
	if expectedVersion != nil {
		attempts = 1
	}

	var updated models.Profile
	var dobChanged bool
	err := utils.RetryOnConflict(ctx, attempts, func(int) error {
		current, err := s.store.FindProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, models.ErrProfileNotFound) {
				return err
			}
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if expectedVersion != nil && *expectedVersion != current.Version {
			return models.ErrVersionConflict
		}

		updated = *current
		var verr *models.ValidationError
		dobChanged, verr = in.ApplyTo(&updated)
		now := s.clock()
		updated.Normalize()
		mergeNewFields(verr, validateProfile(&updated, now))
		if err := verr.Err(); err != nil {
			return err
		}

		updated.RefreshAge(now)
		updated.UpdatedAt = now
		updated.Version = current.Version + 1
		return s.store.ReplaceProfile(ctx, &updated, current.Version)
	})

	var verr *models.ValidationError
	switch {
	case err == nil:
		observability.ProfileWrites.WithLabelValues("update", "success").Inc()
		s.logger.Info("profile updated",
			zap.String("user_id", userID),
			zap.Int64("version", updated.Version),
			zap.Bool("dob_changed", dobChanged))
		return &updated, nil
	case errors.As(err, &verr):
		observability.ProfileWrites.WithLabelValues("update", "invalid").Inc()
		return nil, err
	case errors.Is(err, models.ErrVersionConflict):
		observability.ProfileWrites.WithLabelValues("update", "conflict").Inc()
		return nil, err
	case errors.Is(err, models.ErrProfileNotFound):
		return nil, err
	}

	utils.RecordErrorInSpan(span, err, nil)
	observability.ProfileWrites.WithLabelValues("update", "error").Inc()
	s.logger.Error("failed to update profile", zap.Error(err), zap.String("user_id", userID))
	return nil, fmt.Errorf("failed to update profile: %w", err)
}

// validateProfile checks p after normalisation and rewrites the phone to E.164.
func validateProfile(p *models.Profile, now time.Time) *models.ValidationError {
	verr := utils.ValidateStruct(p)

	if !p.DateOfBirth.IsZero() && p.DateOfBirth.After(now) {
		verr.Add("dateOfBirth", "cannot be in the future")
	}
	if p.IsDisabled {
		if p.DisabilityType == "" {
			verr.Add("disabilityType", "is required when disabled")
		}
		if p.DisabilityPercentage <= 0 {
			verr.Add("disabilityPercentage", "is required when disabled")
		}
	}
	if p.Phone != "" && !verr.Has("phone") {
		if phone, err := utils.NormalizeIndianPhone(p.Phone); err == nil {
			p.Phone = phone
		}
	}
	return verr
}

// mergeNewFields adds src failures for fields dst does not already report.
func mergeNewFields(dst, src *models.ValidationError) {
	if src == nil {
		return
	}
	for _, f := range src.Fields {
		if !dst.Has(f.Field) {
			dst.Add(f.Field, f.Message)
		}
	}
}
