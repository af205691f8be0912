package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	p := &models.Profile{UserID: "u1", FullName: "Anitha", Version: 1, Documents: []models.Document{models.DocumentAadhaar}}
	require.NoError(t, s.InsertProfile(ctx, p))
	assert.False(t, p.ID.IsZero())

	err := s.InsertProfile(ctx, &models.Profile{UserID: "u1", FullName: "Other"})
	assert.ErrorIs(t, err, models.ErrDuplicateProfile)

	got, err := s.FindProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Anitha", got.FullName)

	// returned copies must not alias stored state
	got.Documents[0] = models.DocumentOther
	again, _ := s.FindProfile(ctx, "u1")
	assert.Equal(t, models.DocumentAadhaar, again.Documents[0])

	got.FullName = "Anitha K"
	got.Version = 2
	assert.ErrorIs(t, s.ReplaceProfile(ctx, got, 5), models.ErrVersionConflict)
	require.NoError(t, s.ReplaceProfile(ctx, got, 1))

	again, _ = s.FindProfile(ctx, "u1")
	assert.Equal(t, "Anitha K", again.FullName)
	assert.Equal(t, int64(2), again.Version)

	_, err = s.FindProfile(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
	assert.ErrorIs(t, s.ReplaceProfile(ctx, &models.Profile{UserID: "missing"}, 1), models.ErrProfileNotFound)
}

func TestStore_SchemesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	names := []string{"Snehapoorvam", "Vidyajyothi", "Kaivalya"}
	for _, n := range names {
		require.NoError(t, s.InsertScheme(ctx, &models.Scheme{Name: n, Version: 1}))
	}

	list, err := s.ListSchemes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, n := range names {
		assert.Equal(t, n, list[i].Name)
	}

	second := list[1]
	require.NoError(t, s.DeleteScheme(ctx, second.ID))
	assert.ErrorIs(t, s.DeleteScheme(ctx, second.ID), models.ErrSchemeNotFound)

	_, err = s.FindScheme(ctx, second.ID)
	assert.ErrorIs(t, err, models.ErrSchemeNotFound)

	first := list[0]
	first.Name = "Snehapoorvam 2026"
	first.Version = 2
	assert.ErrorIs(t, s.ReplaceScheme(ctx, &first, 7), models.ErrVersionConflict)
	require.NoError(t, s.ReplaceScheme(ctx, &first, 1))

	got, err := s.FindScheme(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snehapoorvam 2026", got.Name)
}

func TestStore_NewsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertNews(ctx, &models.News{Title: "old", CreatedAt: base}))
	require.NoError(t, s.InsertNews(ctx, &models.News{Title: "new", CreatedAt: base.Add(48 * time.Hour)}))
	require.NoError(t, s.InsertNews(ctx, &models.News{Title: "mid", CreatedAt: base.Add(24 * time.Hour)}))

	list, err := s.ListNews(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].Title, list[1].Title, list[2].Title})

	assert.ErrorIs(t, s.DeleteNews(ctx, primitive.NewObjectID()), models.ErrNewsNotFound)
	assert.ErrorIs(t, s.ReplaceNews(ctx, &models.News{ID: primitive.NewObjectID()}), models.ErrNewsNotFound)
}

func TestStore_EmptyNewsListIsNotNil(t *testing.T) {
	list, err := NewStore().ListNews(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestStore_UserUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.InsertUser(ctx, &models.User{Username: "anitha", Email: "anitha@example.com"}))
	assert.ErrorIs(t, s.InsertUser(ctx, &models.User{Username: "other", Email: "ANITHA@example.com"}), models.ErrEmailTaken)
	assert.ErrorIs(t, s.InsertUser(ctx, &models.User{Username: "anitha", Email: "x@example.com"}), models.ErrUsernameTaken)

	u, err := s.FindUserByEmail(ctx, "anitha@example.com")
	require.NoError(t, err)
	assert.False(t, u.IsEmailVerified)

	byID, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "anitha", byID.Username)

	require.NoError(t, s.SetEmailVerified(ctx, "anitha@example.com", time.Now()))
	u, _ = s.FindUserByEmail(ctx, "anitha@example.com")
	assert.True(t, u.IsEmailVerified)

	assert.ErrorIs(t, s.SetEmailVerified(ctx, "nobody@example.com", time.Now()), models.ErrUserNotFound)
	_, err = s.FindUserByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestStore_OTPReplaceKeepsOnlyLatest(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	none, err := s.FindOTP(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)

	first := &models.OTP{Email: "a@example.com", Code: "111111"}
	require.NoError(t, s.ReplaceOTP(ctx, first))
	second := &models.OTP{Email: "a@example.com", Code: "222222"}
	require.NoError(t, s.ReplaceOTP(ctx, second))

	got, err := s.FindOTP(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)

	// updating a superseded code is rejected
	first.Attempts = 1
	assert.ErrorIs(t, s.UpdateOTP(ctx, first), models.ErrOTPInvalid)

	got.Used = true
	require.NoError(t, s.UpdateOTP(ctx, got))
	got, _ = s.FindOTP(ctx, "a@example.com")
	assert.True(t, got.Used)
}

func TestStore_WriteAuditConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WriteAudit(ctx, []models.AuditRecord{{Method: "POST"}, {Method: "PUT"}})
		}()
	}
	wg.Wait()

	assert.Len(t, s.AuditRecords(), 40)
}
