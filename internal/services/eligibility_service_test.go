package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type eligibilityFixture struct {
	svc      *EligibilityService
	profiles *ProfileService
	schemes  *SchemeService
}

func newEligibilityFixture(t *testing.T) *eligibilityFixture {
	t.Helper()
	store := memory.NewStore()
	clock := newTestClock()
	profiles := NewProfileService(store, logging.Logger, WithProfileClock(clock.Now))
	schemes := NewSchemeService(store, NewSchemeCache(nil, time.Minute, time.Minute, logging.Logger), logging.Logger, WithSchemeClock(clock.Now))
	return &eligibilityFixture{
		svc:      NewEligibilityService(profiles, schemes, logging.Logger, WithEligibilityClock(clock.Now)),
		profiles: profiles,
		schemes:  schemes,
	}
}

func (f *eligibilityFixture) scheme(t *testing.T, name string, rules models.EligibilityRules, mutate ...func(*models.SchemeInput)) *models.Scheme {
	t.Helper()
	in := &models.SchemeInput{
		Name:        name,
		Department:  "Local Self Government",
		Category:    "Welfare",
		Eligibility: rules,
	}
	for _, m := range mutate {
		m(in)
	}
	s, err := f.schemes.CreateScheme(context.Background(), in)
	require.NoError(t, err)
	return s
}

func TestMatchForUser_KottayamScenario(t *testing.T) {
	f := newEligibilityFixture(t)
	ctx := context.Background()

	_, err := f.profiles.CreateProfile(ctx, "user-1", validProfileInput())
	require.NoError(t, err)

	f.scheme(t, "Kottayam support", models.EligibilityRules{
		MaxIncome: ptr(int64(100000)),
		Districts: []models.District{"Kottayam"},
	})
	f.scheme(t, "Wayanad support", models.EligibilityRules{
		MaxIncome: ptr(int64(100000)),
		Districts: []models.District{"Wayanad"},
	})
	f.scheme(t, "Open to all", models.EligibilityRules{})

	matches, err := f.svc.MatchForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Kottayam support", matches[0].Scheme.Name)
	assert.Equal(t, "Open to all", matches[1].Scheme.Name)

	all, err := f.svc.EvaluateAllForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.False(t, all[1].Eligible)
	assert.Equal(t, []string{"District not in qualifying list"}, all[1].Reasons)
}

func TestMatchForUser_SkipsInactiveSchemes(t *testing.T) {
	f := newEligibilityFixture(t)
	ctx := context.Background()

	_, err := f.profiles.CreateProfile(ctx, "user-1", validProfileInput())
	require.NoError(t, err)

	f.scheme(t, "Closed", models.EligibilityRules{}, func(in *models.SchemeInput) {
		in.EndDate = "2026-03-31"
	})
	closed := f.scheme(t, "Upcoming", models.EligibilityRules{}, func(in *models.SchemeInput) {
		in.StartDate = "2026-11-01"
	})

	matches, err := f.svc.MatchForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.NotNil(t, matches)

	// explain ignores the validity window
	result, err := f.svc.ExplainForUser(ctx, "user-1", closed.ID.Hex())
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Empty(t, result.Reasons)
}

func TestExplainForUser(t *testing.T) {
	f := newEligibilityFixture(t)
	ctx := context.Background()

	_, err := f.profiles.CreateProfile(ctx, "user-1", validProfileInput())
	require.NoError(t, err)

	s := f.scheme(t, "Disability pension", models.EligibilityRules{
		RequiresDisability:      true,
		MinDisabilityPercentage: ptr(40.0),
		MaxIncome:               ptr(int64(50000)),
	}, func(in *models.SchemeInput) {
		in.RequiredDocuments = []models.Document{models.DocumentAadhaar, models.DocumentDisability}
	})

	result, err := f.svc.ExplainForUser(ctx, "user-1", s.ID.Hex())
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Equal(t, []string{
		"Income exceeds ceiling of ₹50,000",
		"Disability required",
	}, result.Reasons)
	assert.Equal(t, []models.Document{models.DocumentDisability}, result.MissingDocuments)
}

func TestEligibilityService_Errors(t *testing.T) {
	f := newEligibilityFixture(t)
	ctx := context.Background()

	_, err := f.svc.MatchForUser(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)

	_, err = f.svc.EvaluateAllForUser(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)

	_, err = f.profiles.CreateProfile(ctx, "user-1", validProfileInput())
	require.NoError(t, err)

	_, err = f.svc.ExplainForUser(ctx, "user-1", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrSchemeNotFound)

	_, err = f.svc.ExplainForUser(ctx, "user-1", "bogus")
	assert.ErrorIs(t, err, models.ErrInvalidID)
}

type stubSchemeReader struct {
	err error
}

func (s stubSchemeReader) GetScheme(ctx context.Context, id string) (*models.Scheme, error) {
	return nil, s.err
}

func (s stubSchemeReader) ListActiveSchemes(ctx context.Context, now time.Time) ([]models.Scheme, error) {
	return nil, s.err
}

func TestMatchForUser_SchemeLoadFailure(t *testing.T) {
	store := memory.NewStore()
	profiles := NewProfileService(store, logging.Logger, WithProfileClock(newTestClock().Now))
	_, err := profiles.CreateProfile(context.Background(), "user-1", validProfileInput())
	require.NoError(t, err)

	boom := errors.New("catalogue unavailable")
	svc := NewEligibilityService(profiles, stubSchemeReader{err: boom}, logging.Logger)

	_, err = svc.MatchForUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, boom)
}
