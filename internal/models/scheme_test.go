package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheme_ActiveAt(t *testing.T) {
	start := date(2026, time.April, 1)
	end := date(2027, time.March, 31)
	now := date(2026, time.October, 19)

	tests := []struct {
		name   string
		scheme Scheme
		at     time.Time
		want   bool
	}{
		{name: "no window", scheme: Scheme{}, at: now, want: true},
		{name: "inside", scheme: Scheme{StartDate: &start, EndDate: &end}, at: now, want: true},
		{name: "before start", scheme: Scheme{StartDate: &start}, at: date(2026, time.March, 31), want: false},
		{name: "on start", scheme: Scheme{StartDate: &start}, at: start, want: true},
		{name: "last day evening", scheme: Scheme{EndDate: &end}, at: end.Add(20 * time.Hour), want: true},
		{name: "after end", scheme: Scheme{EndDate: &end}, at: date(2027, time.April, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scheme.ActiveAt(tt.at))
		})
	}
}

func TestSchemeInput_ToScheme(t *testing.T) {
	in := &SchemeInput{
		Name:        "  Snehapoorvam ",
		Department:  "Social Justice",
		Category:    "Education",
		StartDate:   "2026-06-01",
		Eligibility: EligibilityRules{RequiresBPL: true},
	}

	s := in.ToScheme()

	assert.Equal(t, "Snehapoorvam", s.Name)
	assert.NotNil(t, s.StartDate)
	assert.Nil(t, s.EndDate)
	assert.True(t, s.Eligibility.RequiresBPL)
	assert.NotNil(t, s.RequiredDocuments)
}

func TestNewsInput_ApplyTo(t *testing.T) {
	in := &NewsInput{Title: "  Deadline extended  ", Content: " Apply by 30 Nov ", EndDate: "2026-11-30"}
	in.Trim()

	var n News
	in.ApplyTo(&n)

	assert.Equal(t, "Deadline extended", n.Title)
	assert.Equal(t, "Apply by 30 Nov", n.Content)
	assert.Equal(t, DefaultNewsCategory, n.Category)
	assert.Nil(t, n.StartDate)
	assert.Equal(t, date(2026, time.November, 30), *n.EndDate)
}

func TestOTP_Expired(t *testing.T) {
	now := date(2026, time.October, 19)
	otp := &OTP{ExpiresAt: now.Add(5 * time.Minute)}

	assert.False(t, otp.Expired(now))
	assert.False(t, otp.Expired(now.Add(4*time.Minute+59*time.Second)))
	assert.True(t, otp.Expired(now.Add(5*time.Minute)))
}

func TestEnums(t *testing.T) {
	assert.Len(t, ValidDistrictOptions(), 14)
	assert.True(t, District("Wayanad").IsValid())
	assert.False(t, DistrictAll.IsValid(), "All is a rule wildcard, not a district")
	assert.False(t, District("wayanad").IsValid())

	assert.True(t, GenderFemale.IsValid())
	assert.False(t, GenderAny.IsValid())

	assert.True(t, RationCardType("AAY").IsValid())
	assert.True(t, Occupation("Self Employed").IsValid())
	assert.True(t, EducationLevel("Plus Two").IsValid())
	assert.True(t, CasteCategory("General-EWS").IsValid())
	assert.True(t, HousingStatus("Own House").IsValid())
	assert.True(t, Document("Bank Passbook").IsValid())
	assert.True(t, SchemeCategory("Pension").IsValid())
	assert.False(t, SchemeCategory("Sports").IsValid())
	assert.True(t, LanguageEnglish.IsValid())
	assert.True(t, NotifyNone.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("root").IsValid())
}

func TestFillEmptyLists(t *testing.T) {
	scheme := &Scheme{}
	scheme.FillEmptyLists()
	assert.NotNil(t, scheme.RequiredDocuments)
	assert.Empty(t, scheme.RequiredDocuments)

	kept := &Scheme{RequiredDocuments: []Document{DocumentAadhaar}}
	kept.FillEmptyLists()
	assert.Equal(t, []Document{DocumentAadhaar}, kept.RequiredDocuments)

	profile := &Profile{Documents: []Document{DocumentIncome}}
	profile.FillEmptyLists()
	assert.NotNil(t, profile.Dependents)
	assert.Empty(t, profile.Dependents)
	assert.Equal(t, []Document{DocumentIncome}, profile.Documents)
}
