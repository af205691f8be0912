package services

import (
	"context"
	"time"

	"github.com/entescheme/ente-api/internal/eligibility"
	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfileReader loads a citizen profile.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// SchemeReader loads schemes for evaluation.
type SchemeReader interface {
	GetScheme(ctx context.Context, id string) (*models.Scheme, error)
	ListActiveSchemes(ctx context.Context, now time.Time) ([]models.Scheme, error)
}

// EligibilityService runs the evaluator for stored profiles and schemes.
type EligibilityService struct {
	profiles ProfileReader
	schemes  SchemeReader
	logger   *logging.SafeLogger
	clock    utils.Clock
}

// EligibilityServiceOption configures an EligibilityService.
type EligibilityServiceOption func(*EligibilityService)

// WithEligibilityClock overrides the clock that decides which schemes are active.
func WithEligibilityClock(clock utils.Clock) EligibilityServiceOption {
	return func(s *EligibilityService) {
		s.clock = clock
	}
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService(profiles ProfileReader, schemes SchemeReader, logger *logging.SafeLogger, opts ...EligibilityServiceOption) *EligibilityService {
	s := &EligibilityService{
		profiles: profiles,
		schemes:  schemes,
		logger:   logger,
		clock:    utils.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MatchForUser returns the active schemes the user qualifies for, in
// catalogue order.
func (s *EligibilityService) MatchForUser(ctx context.Context, userID string) ([]eligibility.Match, error) {
	start := time.Now()
	profile, schemes, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches := eligibility.MatchSchemes(profile, schemes)
	s.record(len(matches), len(schemes)-len(matches), start)

	s.logger.Debug("matched schemes",
		zap.String("user_id", userID),
		zap.Int("schemes", len(schemes)),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// EvaluateAllForUser returns a verdict for every active scheme.
func (s *EligibilityService) EvaluateAllForUser(ctx context.Context, userID string) ([]eligibility.Match, error) {
	start := time.Now()
	profile, schemes, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	all := eligibility.EvaluateAll(profile, schemes)
	eligible := 0
	for _, m := range all {
		if m.Eligible {
			eligible++
		}
	}
	s.record(eligible, len(all)-eligible, start)
	return all, nil
}

// ExplainForUser evaluates one scheme for the user regardless of its
// validity window.
func (s *EligibilityService) ExplainForUser(ctx context.Context, userID, schemeID string) (*eligibility.Result, error) {
	start := time.Now()

	var (
		profile *models.Profile
		scheme  *models.Scheme
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.profiles.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		scheme, err = s.schemes.GetScheme(gctx, schemeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := eligibility.Evaluate(profile, scheme)
	if result.Eligible {
		s.record(1, 0, start)
	} else {
		s.record(0, 1, start)
	}
	return &result, nil
}

// load fetches the profile and the active schemes in parallel.
func (s *EligibilityService) load(ctx context.Context, userID string) (*models.Profile, []models.Scheme, error) {
	ctx, span := utils.TraceBusinessLogic(ctx, "eligibility_load")
	defer span.End()
	start := time.Now()

	var (
		profile *models.Profile
		schemes []models.Scheme
	)
	now := s.clock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.profiles.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		schemes, err = s.schemes.ListActiveSchemes(gctx, now)
		return err
	})
	if err := g.Wait(); err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"user_id": userID})
		return nil, nil, err
	}
	utils.AddSpanAttribute(span, "eligibility.active_schemes", len(schemes))
	utils.AddTimingToSpan(span, start)
	return profile, schemes, nil
}

func (s *EligibilityService) record(eligible, ineligible int, start time.Time) {
	observability.EligibilityEvaluations.WithLabelValues("eligible").Add(float64(eligible))
	observability.EligibilityEvaluations.WithLabelValues("ineligible").Add(float64(ineligible))
	observability.EligibilityDuration.Observe(time.Since(start).Seconds())
}
