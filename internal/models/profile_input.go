package models

// ProfileInput is the request body for creating or patching a profile. Nil
// fields are absent; on update they keep the stored value.
type ProfileInput struct {
	Email         *string        `json:"email,omitempty"`
	FullName      *string        `json:"fullName,omitempty"`
	DateOfBirth   *string        `json:"dateOfBirth,omitempty"`
	Gender        *Gender        `json:"gender,omitempty"`
	MaritalStatus *MaritalStatus `json:"maritalStatus,omitempty"`
	AadhaarNumber *string        `json:"aadhaarNumber,omitempty"`
	Phone         *string        `json:"phone,omitempty"`

	AnnualIncome   *int64          `json:"annualIncome,omitempty"`
	IsBPL          *bool           `json:"isBPL,omitempty"`
	RationCardType *RationCardType `json:"rationCardType,omitempty"`
	FamilyMembers  *int            `json:"familyMembers,omitempty"`
	Dependents     *[]Dependent    `json:"dependents,omitempty"`

	District      *District      `json:"district,omitempty"`
	LocalBodyType *LocalBodyType `json:"localBodyType,omitempty"`
	Address       *string        `json:"address,omitempty"`
	PinCode       *string        `json:"pinCode,omitempty"`
	HousingStatus *HousingStatus `json:"housingStatus,omitempty"`

	IsWidow              *bool    `json:"isWidow,omitempty"`
	IsSeniorCitizen      *bool    `json:"isSeniorCitizen,omitempty"`
	IsDisabled           *bool    `json:"isDisabled,omitempty"`
	DisabilityType       *string  `json:"disabilityType,omitempty"`
	DisabilityPercentage *float64 `json:"disabilityPercentage,omitempty"`
	IsOrphan             *bool    `json:"isOrphan,omitempty"`

	CasteCategory   *CasteCategory  `json:"casteCategory,omitempty"`
	EducationLevel  *EducationLevel `json:"educationLevel,omitempty"`
	Occupation      *Occupation     `json:"occupation,omitempty"`
	CurrentCourse   *string         `json:"currentCourse,omitempty"`
	MarksPercentage *float64        `json:"marksPercentage,omitempty"`

	Documents *[]Document `json:"documents,omitempty"`

	PreferredLanguage      *Language               `json:"preferredLanguage,omitempty"`
	NotificationPreference *NotificationPreference `json:"notificationPreference,omitempty"`

	// Version enables optimistic locking on update.
	Version *int64 `json:"version,omitempty"`
}

// MissingRequired reports every required field absent from a create request.
func (in *ProfileInput) MissingRequired() *ValidationError {
	v := &ValidationError{}
	required := []struct {
		field   string
		present bool
	}{
		{"fullName", in.FullName != nil && *in.FullName != ""},
		{"dateOfBirth", in.DateOfBirth != nil && *in.DateOfBirth != ""},
		{"gender", in.Gender != nil && *in.Gender != ""},
		{"annualIncome", in.AnnualIncome != nil},
		{"familyMembers", in.FamilyMembers != nil},
		{"rationCardType", in.RationCardType != nil && *in.RationCardType != ""},
		{"district", in.District != nil && *in.District != ""},
		{"localBodyType", in.LocalBodyType != nil && *in.LocalBodyType != ""},
		{"address", in.Address != nil && *in.Address != ""},
		{"pinCode", in.PinCode != nil && *in.PinCode != ""},
		{"educationLevel", in.EducationLevel != nil && *in.EducationLevel != ""},
		{"occupation", in.Occupation != nil && *in.Occupation != ""},
	}
	for _, r := range required {
		if !r.present {
			v.Add(r.field, "is required")
		}
	}
	return v
}

// ApplyTo merges the present fields into p. It reports whether the date of
// birth changed and any parse failure.
func (in *ProfileInput) ApplyTo(p *Profile) (dobChanged bool, verr *ValidationError) {
	verr = &ValidationError{}

	if in.DateOfBirth != nil {
		dob, ok := ParseDate(*in.DateOfBirth)
		if !ok {
			verr.Add("dateOfBirth", "must be a date in YYYY-MM-DD format")
		} else if !dob.Equal(p.DateOfBirth) {
			p.DateOfBirth = dob
			dobChanged = true
		}
	}

	setValue(&p.Email, in.Email)
	setValue(&p.FullName, in.FullName)
	setValue(&p.Gender, in.Gender)
	setValue(&p.MaritalStatus, in.MaritalStatus)
	setValue(&p.AadhaarNumber, in.AadhaarNumber)
	setValue(&p.Phone, in.Phone)

	setValue(&p.AnnualIncome, in.AnnualIncome)
	setValue(&p.IsBPL, in.IsBPL)
	setValue(&p.RationCardType, in.RationCardType)
	setValue(&p.FamilyMembers, in.FamilyMembers)
	setValue(&p.Dependents, in.Dependents)

	setValue(&p.District, in.District)
	setValue(&p.LocalBodyType, in.LocalBodyType)
	setValue(&p.Address, in.Address)
	setValue(&p.PinCode, in.PinCode)
	setValue(&p.HousingStatus, in.HousingStatus)

	setValue(&p.IsWidow, in.IsWidow)
	setValue(&p.IsSeniorCitizen, in.IsSeniorCitizen)
	setValue(&p.IsDisabled, in.IsDisabled)
	setValue(&p.DisabilityType, in.DisabilityType)
	setValue(&p.DisabilityPercentage, in.DisabilityPercentage)
	setValue(&p.IsOrphan, in.IsOrphan)

	setValue(&p.CasteCategory, in.CasteCategory)
	setValue(&p.EducationLevel, in.EducationLevel)
	setValue(&p.Occupation, in.Occupation)
	setValue(&p.CurrentCourse, in.CurrentCourse)
	setValue(&p.MarksPercentage, in.MarksPercentage)

	setValue(&p.Documents, in.Documents)

	setValue(&p.PreferredLanguage, in.PreferredLanguage)
	setValue(&p.NotificationPreference, in.NotificationPreference)

	return dobChanged, verr
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
