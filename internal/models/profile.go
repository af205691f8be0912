package models

import (
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is a citizen's demographic, financial and category record.
// Exactly one exists per user.
type Profile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID string             `bson:"user_id" json:"userId"`
	Email  string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`

	// Identity
	FullName      string        `bson:"full_name" json:"fullName" validate:"required,max=120"`
	DateOfBirth   time.Time     `bson:"date_of_birth" json:"dateOfBirth" validate:"required"`
	Age           int           `bson:"age" json:"age"`
	Gender        Gender        `bson:"gender" json:"gender" validate:"required,valid_enum"`
	MaritalStatus MaritalStatus `bson:"marital_status,omitempty" json:"maritalStatus,omitempty" validate:"omitempty,valid_enum"`
	AadhaarNumber string        `bson:"aadhaar_number,omitempty" json:"aadhaarNumber,omitempty" validate:"omitempty,len=12,numeric"`
	Phone         string        `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,in_phone"`

	// Financial
	AnnualIncome   int64          `bson:"annual_income" json:"annualIncome" validate:"min=0"`
	IsBPL          bool           `bson:"is_bpl" json:"isBPL"`
	RationCardType RationCardType `bson:"ration_card_type" json:"rationCardType" validate:"required,valid_enum"`
	FamilyMembers  int            `bson:"family_members" json:"familyMembers" validate:"gt=0,max=50"`
	Dependents     []Dependent    `bson:"dependents" json:"dependents" validate:"omitempty,dive,valid_enum"`

	// Location
	District      District      `bson:"district" json:"district" validate:"required,valid_enum"`
	LocalBodyType LocalBodyType `bson:"local_body_type" json:"localBodyType" validate:"required,valid_enum"`
	Address       string        `bson:"address" json:"address" validate:"required,max=500"`
	PinCode       string        `bson:"pin_code" json:"pinCode" validate:"required,pincode"`
	HousingStatus HousingStatus `bson:"housing_status,omitempty" json:"housingStatus,omitempty" validate:"omitempty,valid_enum"`

	// Special categories
	IsWidow              bool    `bson:"is_widow" json:"isWidow"`
	IsSeniorCitizen      bool    `bson:"is_senior_citizen" json:"isSeniorCitizen"`
	IsDisabled           bool    `bson:"is_disabled" json:"isDisabled"`
	DisabilityType       string  `bson:"disability_type,omitempty" json:"disabilityType,omitempty" validate:"max=100"`
	DisabilityPercentage float64 `bson:"disability_percentage,omitempty" json:"disabilityPercentage,omitempty" validate:"min=0,max=100"`
	IsOrphan             bool    `bson:"is_orphan" json:"isOrphan"`
	IsStudent            bool    `bson:"is_student" json:"isStudent"`

	CasteCategory   CasteCategory  `bson:"caste_category,omitempty" json:"casteCategory,omitempty" validate:"omitempty,valid_enum"`
	EducationLevel  EducationLevel `bson:"education_level" json:"educationLevel" validate:"required,valid_enum"`
	Occupation      Occupation     `bson:"occupation" json:"occupation" validate:"required,valid_enum"`
	CurrentCourse   string         `bson:"current_course,omitempty" json:"currentCourse,omitempty" validate:"max=200"`
	MarksPercentage float64        `bson:"marks_percentage,omitempty" json:"marksPercentage,omitempty" validate:"min=0,max=100"`

	Documents []Document `bson:"documents" json:"documents" validate:"omitempty,dive,valid_enum"`

	// Preferences
	PreferredLanguage      Language               `bson:"preferred_language" json:"preferredLanguage" validate:"required,valid_enum"`
	NotificationPreference NotificationPreference `bson:"notification_preference" json:"notificationPreference" validate:"required,valid_enum"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
	Version   int64     `bson:"version" json:"version"`
}

// CalculateAge returns completed years between dob and now.
func CalculateAge(dob, now time.Time) int {
	if dob.IsZero() {
		return 0
	}
	dob = dob.UTC()
	now = now.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// RefreshAge recomputes Age against now.
func (p *Profile) RefreshAge(now time.Time) {
	p.Age = CalculateAge(p.DateOfBirth, now)
}

// Normalize trims free text, applies preference defaults and derives the
// flags that must stay consistent with other fields.
func (p *Profile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Address = strings.TrimSpace(p.Address)
	p.PinCode = strings.TrimSpace(p.PinCode)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.CurrentCourse = strings.TrimSpace(p.CurrentCourse)

	if p.PreferredLanguage == "" {
		p.PreferredLanguage = LanguageMalayalam
	}
	if p.NotificationPreference == "" {
		p.NotificationPreference = NotifyBoth
	}

	p.IsStudent = p.Occupation == OccupationStudent
	if !p.IsDisabled {
		p.DisabilityType = ""
		p.DisabilityPercentage = 0
	}
	p.FillEmptyLists()
}

// FillEmptyLists replaces nil list fields with empty ones so they encode as [].
func (p *Profile) FillEmptyLists() {
	if p.Dependents == nil {
		p.Dependents = []Dependent{}
	}
	if p.Documents == nil {
		p.Documents = []Document{}
	}
}

// HasDocument reports whether the citizen holds d.
func (p *Profile) HasDocument(d Document) bool {
	return slices.Contains(p.Documents, d)
}

// dateLayouts accepted for dateOfBirth and scheme windows.
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseDate parses a calendar date or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
