package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EligibilityRules is the typed rule set of a scheme. A nil pointer, false
// flag or empty list places no constraint on that dimension.
type EligibilityRules struct {
	MinAge    *int   `bson:"min_age,omitempty" json:"minAge,omitempty" validate:"omitempty,min=0,max=150"`
	MaxAge    *int   `bson:"max_age,omitempty" json:"maxAge,omitempty" validate:"omitempty,min=0,max=150"`
	MaxIncome *int64 `bson:"max_income,omitempty" json:"maxIncome,omitempty" validate:"omitempty,min=0"`

	Gender          Gender          `bson:"gender,omitempty" json:"gender,omitempty" validate:"omitempty,valid_enum|eq=Any"`
	MaritalStatuses []MaritalStatus `bson:"marital_statuses,omitempty" json:"maritalStatuses,omitempty" validate:"omitempty,dive,valid_enum"`
	Districts       []District      `bson:"districts,omitempty" json:"districts,omitempty" validate:"omitempty,dive,valid_enum|eq=All"`

	RequiresBPL     bool             `bson:"requires_bpl,omitempty" json:"requiresBPL,omitempty"`
	RationCardTypes []RationCardType `bson:"ration_card_types,omitempty" json:"rationCardTypes,omitempty" validate:"omitempty,dive,valid_enum"`
	CasteCategories []CasteCategory  `bson:"caste_categories,omitempty" json:"casteCategories,omitempty" validate:"omitempty,dive,valid_enum"`

	RequiresDisability      bool     `bson:"requires_disability,omitempty" json:"requiresDisability,omitempty"`
	MinDisabilityPercentage *float64 `bson:"min_disability_percentage,omitempty" json:"minDisabilityPercentage,omitempty" validate:"omitempty,min=0,max=100"`

	Occupations     []Occupation     `bson:"occupations,omitempty" json:"occupations,omitempty" validate:"omitempty,dive,valid_enum"`
	EducationLevels []EducationLevel `bson:"education_levels,omitempty" json:"educationLevels,omitempty" validate:"omitempty,dive,valid_enum"`
	HousingStatuses []HousingStatus  `bson:"housing_statuses,omitempty" json:"housingStatuses,omitempty" validate:"omitempty,dive,valid_enum"`

	RequiresWidow         bool `bson:"requires_widow,omitempty" json:"requiresWidow,omitempty"`
	RequiresSeniorCitizen bool `bson:"requires_senior_citizen,omitempty" json:"requiresSeniorCitizen,omitempty"`
	RequiresOrphan        bool `bson:"requires_orphan,omitempty" json:"requiresOrphan,omitempty"`

	MinMarks *float64 `bson:"min_marks,omitempty" json:"minMarks,omitempty" validate:"omitempty,min=0,max=100"`
}

// Scheme is a government welfare programme and its eligibility rules.
type Scheme struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Department  string             `bson:"department" json:"department"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	URL         string             `bson:"url,omitempty" json:"url,omitempty"`
	Category    SchemeCategory     `bson:"category" json:"category"`
	StartDate   *time.Time         `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`

	Eligibility       EligibilityRules `bson:"eligibility" json:"eligibility"`
	RequiredDocuments []Document       `bson:"required_documents" json:"requiredDocuments"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
	Version   int64     `bson:"version" json:"version"`
}

// ActiveAt reports whether now falls inside the scheme's validity window.
// The end date is inclusive to the end of that day.
func (s *Scheme) ActiveAt(now time.Time) bool {
	if s.StartDate != nil && now.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && now.After(s.EndDate.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return true
}

// FillEmptyLists replaces a nil document list with an empty one so it encodes as [].
func (s *Scheme) FillEmptyLists() {
	if s.RequiredDocuments == nil {
		s.RequiredDocuments = []Document{}
	}
}

// SchemeInput is the admin request body for creating or replacing a scheme.
type SchemeInput struct {
	Name              string           `json:"name" validate:"required,max=200"`
	Department        string           `json:"department" validate:"required,max=200"`
	Description       string           `json:"description" validate:"max=5000"`
	URL               string           `json:"url" validate:"omitempty,url"`
	Category          SchemeCategory   `json:"category" validate:"required,valid_enum"`
	StartDate         string           `json:"startDate" validate:"omitempty,date_value"`
	EndDate           string           `json:"endDate" validate:"omitempty,date_value"`
	Eligibility       EligibilityRules `json:"eligibility"`
	RequiredDocuments []Document       `json:"requiredDocuments" validate:"omitempty,dive,valid_enum"`

	// Version enables optimistic locking on update.
	Version *int64 `json:"version,omitempty"`
}

// ToScheme converts the input into a scheme without metadata. Dates must
// already have been validated.
func (in *SchemeInput) ToScheme() *Scheme {
	s := &Scheme{
		Name:              strings.TrimSpace(in.Name),
		Department:        strings.TrimSpace(in.Department),
		Description:       strings.TrimSpace(in.Description),
		URL:               strings.TrimSpace(in.URL),
		Category:          in.Category,
		Eligibility:       in.Eligibility,
		RequiredDocuments: in.RequiredDocuments,
	}
	if t, ok := ParseDate(in.StartDate); ok {
		s.StartDate = &t
	}
	if t, ok := ParseDate(in.EndDate); ok {
		s.EndDate = &t
	}
	s.FillEmptyLists()
	return s
}
