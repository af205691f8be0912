package models

import "slices"

// Gender of a citizen
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
	// GenderAny is only meaningful on scheme rules.
	GenderAny Gender = "Any"
)

// ValidGenderOptions returns the genders a profile may carry
func ValidGenderOptions() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

func (g Gender) IsValid() bool { return slices.Contains(ValidGenderOptions(), g) }

// MaritalStatus of a citizen
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "Single"
	MaritalMarried  MaritalStatus = "Married"
	MaritalDivorced MaritalStatus = "Divorced"
	MaritalWidowed  MaritalStatus = "Widowed"
)

func ValidMaritalStatusOptions() []MaritalStatus {
	return []MaritalStatus{MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed}
}

func (m MaritalStatus) IsValid() bool { return slices.Contains(ValidMaritalStatusOptions(), m) }

// RationCardType issued by the state civil supplies department
type RationCardType string

const (
	RationAPL  RationCardType = "APL"
	RationBPL  RationCardType = "BPL"
	RationAAY  RationCardType = "AAY"
	RationPHH  RationCardType = "PHH"
	RationNPHH RationCardType = "NPHH"
	RationNPS  RationCardType = "NPS"
	RationNone RationCardType = "None"
)

func ValidRationCardTypeOptions() []RationCardType {
	return []RationCardType{RationAPL, RationBPL, RationAAY, RationPHH, RationNPHH, RationNPS, RationNone}
}

func (r RationCardType) IsValid() bool { return slices.Contains(ValidRationCardTypeOptions(), r) }

// Dependent kinds a household may support
type Dependent string

const (
	DependentChildren        Dependent = "Children"
	DependentSeniorCitizens  Dependent = "Senior Citizens"
	DependentDisabledMembers Dependent = "Disabled Members"
	DependentNone            Dependent = "None"
)

func ValidDependentOptions() []Dependent {
	return []Dependent{DependentChildren, DependentSeniorCitizens, DependentDisabledMembers, DependentNone}
}

func (d Dependent) IsValid() bool { return slices.Contains(ValidDependentOptions(), d) }

// District of Kerala
type District string

// DistrictAll on a scheme rule matches every district.
const DistrictAll District = "All"

// ValidDistrictOptions returns the 14 districts of Kerala
func ValidDistrictOptions() []District {
	return []District{
		"Thiruvananthapuram", "Kollam", "Pathanamthitta", "Alappuzha",
		"Kottayam", "Idukki", "Ernakulam", "Thrissur", "Palakkad",
		"Malappuram", "Kozhikode", "Wayanad", "Kannur", "Kasaragod",
	}
}

func (d District) IsValid() bool { return slices.Contains(ValidDistrictOptions(), d) }

// LocalBodyType of the citizen's local self-government
type LocalBodyType string

const (
	LocalBodyUrban     LocalBodyType = "Urban"
	LocalBodyRural     LocalBodyType = "Rural"
	LocalBodyPanchayat LocalBodyType = "Panchayat"
)

func ValidLocalBodyTypeOptions() []LocalBodyType {
	return []LocalBodyType{LocalBodyUrban, LocalBodyRural, LocalBodyPanchayat}
}

func (l LocalBodyType) IsValid() bool { return slices.Contains(ValidLocalBodyTypeOptions(), l) }

// HousingStatus of the household
type HousingStatus string

const (
	HousingOwn      HousingStatus = "Own House"
	HousingRenting  HousingStatus = "Renting"
	HousingHomeless HousingStatus = "Homeless"
)

func ValidHousingStatusOptions() []HousingStatus {
	return []HousingStatus{HousingOwn, HousingRenting, HousingHomeless}
}

func (h HousingStatus) IsValid() bool { return slices.Contains(ValidHousingStatusOptions(), h) }

// CasteCategory for reservation purposes
type CasteCategory string

const (
	CasteSC         CasteCategory = "SC"
	CasteST         CasteCategory = "ST"
	CasteOBC        CasteCategory = "OBC"
	CasteGeneral    CasteCategory = "General"
	CasteGeneralEWS CasteCategory = "General-EWS"
)

func ValidCasteCategoryOptions() []CasteCategory {
	return []CasteCategory{CasteSC, CasteST, CasteOBC, CasteGeneral, CasteGeneralEWS}
}

func (c CasteCategory) IsValid() bool { return slices.Contains(ValidCasteCategoryOptions(), c) }

// EducationLevel is the highest completed level
type EducationLevel string

const (
	EducationSSLC             EducationLevel = "SSLC"
	EducationPlusTwo          EducationLevel = "Plus Two"
	EducationGraduate         EducationLevel = "Graduate"
	EducationPostGraduate     EducationLevel = "Post Graduate"
	EducationCurrentlyStudent EducationLevel = "Currently Student"
)

func ValidEducationLevelOptions() []EducationLevel {
	return []EducationLevel{EducationSSLC, EducationPlusTwo, EducationGraduate, EducationPostGraduate, EducationCurrentlyStudent}
}

func (e EducationLevel) IsValid() bool { return slices.Contains(ValidEducationLevelOptions(), e) }

// Occupation of the citizen
type Occupation string

const (
	OccupationFarmer       Occupation = "Farmer"
	OccupationFisherman    Occupation = "Fisherman"
	OccupationArtisan      Occupation = "Artisan"
	OccupationLabourer     Occupation = "Labourer"
	OccupationStudent      Occupation = "Student"
	OccupationUnemployed   Occupation = "Unemployed"
	OccupationSelfEmployed Occupation = "Self Employed"
	OccupationRetired      Occupation = "Retired"
	OccupationOther        Occupation = "Other"
)

func ValidOccupationOptions() []Occupation {
	return []Occupation{
		OccupationFarmer, OccupationFisherman, OccupationArtisan, OccupationLabourer,
		OccupationStudent, OccupationUnemployed, OccupationSelfEmployed, OccupationRetired, OccupationOther,
	}
}

func (o Occupation) IsValid() bool { return slices.Contains(ValidOccupationOptions(), o) }

// Document a citizen attests to holding
type Document string

const (
	DocumentAadhaar      Document = "Aadhaar Card"
	DocumentRationCard   Document = "Ration Card"
	DocumentIncome       Document = "Income Certificate"
	DocumentCaste        Document = "Caste Certificate"
	DocumentDisability   Document = "Disability Certificate"
	DocumentBankPassbook Document = "Bank Passbook"
	DocumentEducational  Document = "Educational Certificates"
	DocumentOther        Document = "Other Relevant Documents"
)

func ValidDocumentOptions() []Document {
	return []Document{
		DocumentAadhaar, DocumentRationCard, DocumentIncome, DocumentCaste,
		DocumentDisability, DocumentBankPassbook, DocumentEducational, DocumentOther,
	}
}

func (d Document) IsValid() bool { return slices.Contains(ValidDocumentOptions(), d) }

// Language the portal talks to the citizen in
type Language string

const (
	LanguageMalayalam Language = "Malayalam"
	LanguageEnglish   Language = "English"
)

func (l Language) IsValid() bool { return l == LanguageMalayalam || l == LanguageEnglish }

// NotificationPreference channel
type NotificationPreference string

const (
	NotifySMS   NotificationPreference = "SMS"
	NotifyEmail NotificationPreference = "Email"
	NotifyBoth  NotificationPreference = "Both"
	NotifyNone  NotificationPreference = "None"
)

func (n NotificationPreference) IsValid() bool {
	return slices.Contains([]NotificationPreference{NotifySMS, NotifyEmail, NotifyBoth, NotifyNone}, n)
}

// SchemeCategory groups schemes on the catalogue screen
type SchemeCategory string

func ValidSchemeCategoryOptions() []SchemeCategory {
	return []SchemeCategory{"Education", "Healthcare", "Agriculture", "Housing", "Employment", "Welfare", "Pension"}
}

func (c SchemeCategory) IsValid() bool { return slices.Contains(ValidSchemeCategoryOptions(), c) }

// Role of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool { return r == RoleUser || r == RoleAdmin }
