package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/entescheme/ente-api/internal/config"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testConfig() *config.Config {
	return &config.Config{
		ProfileCollection: "profiles",
		SchemeCollection:  "schemes",
		NewsCollection:    "news",
		UserCollection:    "users",
		OTPCollection:     "otps",
		AuditCollection:   "audit_logs",
	}
}

func setupStores(t *testing.T) (*Stores, context.Context) {
	t.Helper()
	db := testutil.StartMongo(t)
	cfg := testConfig()
	ctx := context.Background()
	require.NoError(t, config.EnsureIndexes(ctx, db, cfg))
	return New(db, cfg), ctx
}

func sampleProfile(userID string) *models.Profile {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	return &models.Profile{
		UserID:                 userID,
		FullName:               "Anu Thomas",
		DateOfBirth:            time.Date(1970, 3, 15, 0, 0, 0, 0, time.UTC),
		Age:                    56,
		Gender:                 models.GenderFemale,
		AnnualIncome:           90000,
		IsBPL:                  true,
		RationCardType:         models.RationBPL,
		FamilyMembers:          4,
		District:               "Kottayam",
		LocalBodyType:          models.LocalBodyPanchayat,
		Address:                "Pala",
		PinCode:                "686575",
		EducationLevel:         models.EducationSSLC,
		Occupation:             models.OccupationFarmer,
		Documents:              []models.Document{models.DocumentAadhaar},
		PreferredLanguage:      models.LanguageMalayalam,
		NotificationPreference: models.NotifyEmail,
		CreatedAt:              now,
		UpdatedAt:              now,
		Version:                1,
	}
}

func TestProfileStore(t *testing.T) {
	stores, ctx := setupStores(t)
	userID := primitive.NewObjectID().Hex()

	profile := sampleProfile(userID)
	require.NoError(t, stores.Profiles.InsertProfile(ctx, profile))
	assert.ErrorIs(t, stores.Profiles.InsertProfile(ctx, sampleProfile(userID)), models.ErrDuplicateProfile)

	got, err := stores.Profiles.FindProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Anu Thomas", got.FullName)
	assert.Equal(t, int64(90000), got.AnnualIncome)
	assert.True(t, got.DateOfBirth.Equal(profile.DateOfBirth))

	got.AnnualIncome = 120000
	got.Version = 2
	require.NoError(t, stores.Profiles.ReplaceProfile(ctx, got, 1))
	assert.ErrorIs(t, stores.Profiles.ReplaceProfile(ctx, got, 1), models.ErrVersionConflict)

	missing := sampleProfile("nobody")
	assert.ErrorIs(t, stores.Profiles.ReplaceProfile(ctx, missing, 1), models.ErrProfileNotFound)

	_, err = stores.Profiles.FindProfile(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)

	stored, err := stores.Profiles.FindProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), stored.AnnualIncome)
	assert.Equal(t, int64(2), stored.Version)
}

func TestSchemeStore(t *testing.T) {
	stores, ctx := setupStores(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	names := []string{"Kerala Pension", "Fisheries Grant", "Snehapoorvam"}
	ids := make([]primitive.ObjectID, 0, len(names))
	for i, name := range names {
		scheme := &models.Scheme{
			Name:       name,
			Department: "Social Justice",
			Category:   "Welfare",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			Version:    1,
		}
		require.NoError(t, stores.Schemes.InsertScheme(ctx, scheme))
		ids = append(ids, scheme.ID)
	}

	list, err := stores.Schemes.ListSchemes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, s := range list {
		assert.Equal(t, names[i], s.Name)
	}

	scheme, err := stores.Schemes.FindScheme(ctx, ids[1])
	require.NoError(t, err)
	scheme.Description = "Support for fishing households"
	scheme.Version = 2
	require.NoError(t, stores.Schemes.ReplaceScheme(ctx, scheme, 1))
	assert.ErrorIs(t, stores.Schemes.ReplaceScheme(ctx, scheme, 1), models.ErrVersionConflict)

	require.NoError(t, stores.Schemes.DeleteScheme(ctx, ids[0]))
	assert.ErrorIs(t, stores.Schemes.DeleteScheme(ctx, ids[0]), models.ErrSchemeNotFound)
	_, err = stores.Schemes.FindScheme(ctx, ids[0])
	assert.ErrorIs(t, err, models.ErrSchemeNotFound)

	scheme.ID = primitive.NewObjectID()
	assert.ErrorIs(t, stores.Schemes.ReplaceScheme(ctx, scheme, 2), models.ErrSchemeNotFound)
}

func TestNewsStore(t *testing.T) {
	stores, ctx := setupStores(t)

	empty, err := stores.News.ListNews(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	older := &models.News{Title: "Camp", Content: "Aadhaar camp", Category: "Update", CreatedAt: base}
	newer := &models.News{Title: "Deadline", Content: "Last date", Category: "Update", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, stores.News.InsertNews(ctx, older))
	require.NoError(t, stores.News.InsertNews(ctx, newer))

	list, err := stores.News.ListNews(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Deadline", list[0].Title)

	older.IsImportant = true
	require.NoError(t, stores.News.ReplaceNews(ctx, older))
	got, err := stores.News.FindNews(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, got.IsImportant)

	require.NoError(t, stores.News.DeleteNews(ctx, older.ID))
	assert.ErrorIs(t, stores.News.DeleteNews(ctx, older.ID), models.ErrNewsNotFound)
	assert.ErrorIs(t, stores.News.ReplaceNews(ctx, older), models.ErrNewsNotFound)
}

func TestUserStore(t *testing.T) {
	stores, ctx := setupStores(t)

	user := &models.User{Username: "anu", Email: "anu@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, stores.Users.InsertUser(ctx, user))

	dupEmail := &models.User{Username: "other", Email: "anu@example.com", Role: models.RoleUser}
	assert.ErrorIs(t, stores.Users.InsertUser(ctx, dupEmail), models.ErrEmailTaken)

	dupName := &models.User{Username: "anu", Email: "other@example.com", Role: models.RoleUser}
	assert.ErrorIs(t, stores.Users.InsertUser(ctx, dupName), models.ErrUsernameTaken)

	byEmail, err := stores.Users.FindUserByEmail(ctx, "ANU@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	require.NoError(t, stores.Users.SetEmailVerified(ctx, "anu@example.com", at))
	byID, err := stores.Users.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, byID.IsEmailVerified)

	_, err = stores.Users.FindUserByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.ErrorIs(t, stores.Users.SetEmailVerified(ctx, "ghost@example.com", at), models.ErrUserNotFound)
}

func TestOTPStore(t *testing.T) {
	stores, ctx := setupStores(t)
	email := "anu@example.com"

	none, err := stores.OTPs.FindOTP(ctx, email)
	require.NoError(t, err)
	assert.Nil(t, none)

	now := time.Now().UTC().Truncate(time.Millisecond)
	first := &models.OTP{Email: email, Code: "111111", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now}
	require.NoError(t, stores.OTPs.ReplaceOTP(ctx, first))
	second := &models.OTP{Email: email, Code: "222222", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now.Add(time.Second)}
	require.NoError(t, stores.OTPs.ReplaceOTP(ctx, second))

	current, err := stores.OTPs.FindOTP(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "222222", current.Code)

	current.Attempts = 2
	require.NoError(t, stores.OTPs.UpdateOTP(ctx, current))
	again, err := stores.OTPs.FindOTP(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Attempts)

	assert.ErrorIs(t, stores.OTPs.UpdateOTP(ctx, first), models.ErrOTPInvalid)
}

func TestAuditStore(t *testing.T) {
	stores, ctx := setupStores(t)

	require.NoError(t, stores.Audit.WriteAudit(ctx, nil))

	records := []models.AuditRecord{
		{Timestamp: time.Now().UTC(), Method: "POST", Path: "/v1/profile", Status: 201},
		{Timestamp: time.Now().UTC(), Method: "DELETE", Path: "/v1/admin/news/1", Status: 204},
	}
	require.NoError(t, stores.Audit.WriteAudit(ctx, records))

	count, err := stores.Audit.coll.CountDocuments(ctx, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEmptyListsDecodeAsEmpty(t *testing.T) {
	db := testutil.StartMongo(t)
	cfg := testConfig()
	ctx := context.Background()
	require.NoError(t, config.EnsureIndexes(ctx, db, cfg))
	stores := New(db, cfg)

	userID := primitive.NewObjectID().Hex()
	profile := sampleProfile(userID)
	profile.Documents = nil
	profile.Dependents = nil
	require.NoError(t, stores.Profiles.InsertProfile(ctx, profile))

	gotProfile, err := stores.Profiles.FindProfile(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, gotProfile.Documents)
	assert.NotNil(t, gotProfile.Dependents)

	// documents written before the list fields were always stored
	legacyID := primitive.NewObjectID()
	_, err = db.Collection(cfg.SchemeCollection).InsertOne(ctx, bson.M{
		"_id":        legacyID,
		"name":       "Legacy Scheme",
		"department": "Revenue",
		"category":   "Welfare",
		"created_at": time.Now().UTC(),
		"version":    1,
	})
	require.NoError(t, err)

	gotScheme, err := stores.Schemes.FindScheme(ctx, legacyID)
	require.NoError(t, err)
	data, err := json.Marshal(gotScheme)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"requiredDocuments":[]`)

	list, err := stores.Schemes.ListSchemes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].RequiredDocuments)

	data, err = json.Marshal(gotProfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"documents":[]`)
	assert.Contains(t, string(data), `"dependents":[]`)
}
