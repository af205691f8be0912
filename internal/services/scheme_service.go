package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SchemeService manages the scheme catalogue.
type SchemeService struct {
	store  SchemeStore
	cache  *SchemeCache
	logger *logging.SafeLogger
	clock  utils.Clock
}

// SchemeServiceOption configures a SchemeService.
type SchemeServiceOption func(*SchemeService)

// WithSchemeClock overrides the clock used for timestamps.
func WithSchemeClock(clock utils.Clock) SchemeServiceOption {
	return func(s *SchemeService) {
		s.clock = clock
	}
}

// NewSchemeService creates a new scheme service. cache may be nil.
func NewSchemeService(store SchemeStore, cache *SchemeCache, logger *logging.SafeLogger, opts ...SchemeServiceOption) *SchemeService {
	s := &SchemeService{
		store:  store,
		cache:  cache,
		logger: logger,
		clock:  utils.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseObjectID converts a hex id from a URL into an ObjectID.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", models.ErrInvalidID, id)
	}
	return oid, nil
}

// CreateScheme validates and stores a new scheme.
func (s *SchemeService) CreateScheme(ctx context.Context, in *models.SchemeInput) (*models.Scheme, error) {
	if err := validateSchemeInput(in).Err(); err != nil {
		return nil, err
	}

	now := s.clock()
	scheme := in.ToScheme()
	scheme.CreatedAt = now
	scheme.UpdatedAt = now
	scheme.Version = 1

	if err := s.store.InsertScheme(ctx, scheme); err != nil {
		s.logger.Error("failed to insert scheme", zap.Error(err), zap.String("name", scheme.Name))
		return nil, fmt.Errorf("failed to create scheme: %w", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("scheme created", zap.String("id", scheme.ID.Hex()), zap.String("name", scheme.Name))
	return scheme, nil
}

// UpdateScheme replaces every field of the scheme with in.
func (s *SchemeService) UpdateScheme(ctx context.Context, id string, in *models.SchemeInput, expectedVersion *int64) (*models.Scheme, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	if err := validateSchemeInput(in).Err(); err != nil {
		return nil, err
	}

	attempts := maxUnversionedUpdateAttempts
	if expectedVersion != nil {
		attempts = 1
	}

	var updated *models.Scheme
	err = utils.RetryOnConflict(ctx, attempts, func(int) error {
		current, err := s.store.FindScheme(ctx, oid)
		if err != nil {
			return wrapNotFound(err, models.ErrSchemeNotFound, "failed to load scheme")
		}
		if expectedVersion != nil && *expectedVersion != current.Version {
			return models.ErrVersionConflict
		}

		updated = in.ToScheme()
		updated.ID = current.ID
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = s.clock()
		updated.Version = current.Version + 1
		return s.store.ReplaceScheme(ctx, updated, current.Version)
	})
	if err != nil {
		if errors.Is(err, models.ErrVersionConflict) || errors.Is(err, models.ErrSchemeNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update scheme", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to update scheme: %w", err)
	}

	s.cache.Invalidate(ctx)
	s.logger.Info("scheme updated", zap.String("id", id), zap.Int64("version", updated.Version))
	return updated, nil
}

// DeleteScheme removes a scheme.
func (s *SchemeService) DeleteScheme(ctx context.Context, id string) error {
	oid, err := ParseObjectID(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteScheme(ctx, oid); err != nil {
		return wrapNotFound(err, models.ErrSchemeNotFound, "failed to delete scheme")
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("scheme deleted", zap.String("id", id))
	return nil
}

// GetScheme returns one scheme.
func (s *SchemeService) GetScheme(ctx context.Context, id string) (*models.Scheme, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	scheme, err := s.store.FindScheme(ctx, oid)
	if err != nil {
		return nil, wrapNotFound(err, models.ErrSchemeNotFound, "failed to load scheme")
	}
	return scheme, nil
}

// ListSchemes returns the whole catalogue in creation order.
func (s *SchemeService) ListSchemes(ctx context.Context) ([]models.Scheme, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	schemes, err := s.store.ListSchemes(ctx)
	if err != nil {
		s.logger.Error("failed to list schemes", zap.Error(err))
		return nil, fmt.Errorf("failed to list schemes: %w", err)
	}
	schemes = nonNilSchemes(schemes)
	s.cache.Set(ctx, schemes)
	return schemes, nil
}

// ListActiveSchemes returns the schemes whose validity window contains now.
func (s *SchemeService) ListActiveSchemes(ctx context.Context, now time.Time) ([]models.Scheme, error) {
	schemes, err := s.ListSchemes(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]models.Scheme, 0, len(schemes))
	for i := range schemes {
		if schemes[i].ActiveAt(now) {
			active = append(active, schemes[i])
		}
	}
	return active, nil
}

func validateSchemeInput(in *models.SchemeInput) *models.ValidationError {
	if in == nil {
		return models.NewValidationError("body", "is required")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Department = strings.TrimSpace(in.Department)
	verr := utils.ValidateStruct(in)

	start, hasStart := models.ParseDate(in.StartDate)
	end, hasEnd := models.ParseDate(in.EndDate)
	if hasStart && hasEnd && end.Before(start) {
		verr.Add("endDate", "must not be before startDate")
	}

	r := in.Eligibility
	if r.MinAge != nil && r.MaxAge != nil && *r.MinAge > *r.MaxAge {
		verr.Add("eligibility.maxAge", "must not be below minAge")
	}
	return verr
}

// wrapNotFound passes notFound through and wraps every other error.
func wrapNotFound(err, notFound error, msg string) error {
	if errors.Is(err, notFound) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
