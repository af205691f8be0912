package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/entescheme/ente-api/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogue(t *testing.T) {
	cat, err := loadCatalogue("catalogue.yaml")
	require.NoError(t, err)

	require.Len(t, cat.Schemes, 6)
	pension := cat.Schemes[0]
	assert.Equal(t, "Karshaka Pension", pension.Name)
	assert.Equal(t, models.SchemeCategory("Pension"), pension.Category)
	require.NotNil(t, pension.Eligibility.MinAge)
	assert.Equal(t, 60, *pension.Eligibility.MinAge)
	require.NotNil(t, pension.Eligibility.MaxIncome)
	assert.Equal(t, int64(100000), *pension.Eligibility.MaxIncome)
	assert.Equal(t, []models.Occupation{models.OccupationFarmer}, pension.Eligibility.Occupations)
	assert.Contains(t, pension.RequiredDocuments, models.DocumentIncome)

	assert.True(t, cat.Schemes[2].Eligibility.RequiresOrphan)

	require.Len(t, cat.News, 2)
	assert.True(t, cat.News[1].IsImportant)
}

func TestLoadCatalogue_Errors(t *testing.T) {
	_, err := loadCatalogue(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("schemes:\n  - name: [unclosed\n"), 0o600))
	_, err = loadCatalogue(bad)
	assert.Error(t, err)
}

func TestSeeder_IsIdempotent(t *testing.T) {
	cat, err := loadCatalogue("catalogue.yaml")
	require.NoError(t, err)

	store := memory.NewStore()
	s := &seeder{
		schemes: services.NewSchemeService(store, nil, nil),
		news:    services.NewNewsService(store, nil),
	}
	ctx := context.Background()

	created, err := s.seedSchemes(ctx, cat.Schemes)
	require.NoError(t, err)
	assert.Equal(t, 6, created)
	created, err = s.seedNews(ctx, cat.News)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = s.seedSchemes(ctx, cat.Schemes)
	require.NoError(t, err)
	assert.Zero(t, created)
	created, err = s.seedNews(ctx, cat.News)
	require.NoError(t, err)
	assert.Zero(t, created)

	list, err := store.ListSchemes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)
}
