package services

import (
	"time"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/utils"
)

var testNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newTestClock() *utils.ManualClock {
	return utils.NewManualClock(testNow)
}

// validProfileInput is a complete create request for a Kottayam farmer.
func validProfileInput() *models.ProfileInput {
	return &models.ProfileInput{
		FullName:       ptr("Anitha Joseph"),
		DateOfBirth:    ptr("1970-03-15"),
		Gender:         ptr(models.GenderFemale),
		AnnualIncome:   ptr(int64(90000)),
		FamilyMembers:  ptr(4),
		RationCardType: ptr(models.RationBPL),
		District:       ptr(models.District("Kottayam")),
		LocalBodyType:  ptr(models.LocalBodyPanchayat),
		Address:        ptr("Kumarakom North, Kottayam"),
		PinCode:        ptr("686563"),
		EducationLevel: ptr(models.EducationSSLC),
		Occupation:     ptr(models.OccupationFarmer),
		Documents:      ptr([]models.Document{models.DocumentAadhaar, models.DocumentRationCard}),
	}
}
