package eligibility

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/entescheme/ente-api/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// criterion returns ok=false with a citizen-facing reason when the profile
// fails that dimension. Absent or malformed rule values always pass.
type criterion func(p *models.Profile, r *models.EligibilityRules) (reason string, ok bool)

// criteria in the order their reasons are reported.
var criteria = []criterion{
	checkAge,
	checkIncome,
	checkGender,
	checkMaritalStatus,
	checkDistrict,
	checkBPL,
	checkRationCard,
	checkCaste,
	checkDisability,
	checkOccupation,
	checkEducation,
	checkHousing,
	checkWidow,
	checkSeniorCitizen,
	checkOrphan,
	checkMinMarks,
}

func pass() (string, bool) { return "", true }

func checkAge(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	minAge, hasMin := r.MinAge, r.MinAge != nil && *r.MinAge >= 0
	maxAge, hasMax := r.MaxAge, r.MaxAge != nil && *r.MaxAge >= 0
	if hasMin && hasMax && *minAge > *maxAge {
		return pass()
	}
	if hasMin && p.Age < *minAge {
		return fmt.Sprintf("Age below minimum of %d", *minAge), false
	}
	if hasMax && p.Age > *maxAge {
		return fmt.Sprintf("Age above maximum of %d", *maxAge), false
	}
	return pass()
}

func checkIncome(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if r.MaxIncome == nil || *r.MaxIncome < 0 {
		return pass()
	}
	if p.AnnualIncome > *r.MaxIncome {
		return formatRupees("Income exceeds ceiling of ₹%d", *r.MaxIncome), false
	}
	return pass()
}

func checkGender(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if r.Gender == "" || r.Gender == models.GenderAny {
		return pass()
	}
	if p.Gender != r.Gender {
		return fmt.Sprintf("Gender must be %s", r.Gender), false
	}
	return pass()
}

func checkMaritalStatus(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	return inList(r.MaritalStatuses, p.MaritalStatus, "Marital status not in qualifying list")
}

func checkDistrict(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if slices.Contains(r.Districts, models.DistrictAll) {
		return pass()
	}
	return inList(r.Districts, p.District, "District not in qualifying list")
}

func checkBPL(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if !r.RequiresBPL {
		return pass()
	}
	if p.IsBPL || p.RationCardType == models.RationBPL || p.RationCardType == models.RationAAY {
		return pass()
	}
	return "Below Poverty Line status required", false
}

func checkRationCard(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	return inList(r.RationCardTypes, p.RationCardType, "Ration card type not in qualifying list")
}

func checkCaste(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	return inList(r.CasteCategories, p.CasteCategory, "Caste category not in qualifying list")
}

func checkDisability(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if !r.RequiresDisability {
		return pass()
	}
	if !p.IsDisabled {
		return "Disability required", false
	}
	minimum := 0.0
	if r.MinDisabilityPercentage != nil && *r.MinDisabilityPercentage >= 0 && *r.MinDisabilityPercentage <= 100 {
		minimum = *r.MinDisabilityPercentage
	}
	if p.DisabilityPercentage < minimum {
		return fmt.Sprintf("Disability percentage below minimum of %s%%", formatPercent(minimum)), false
	}
	return pass()
}

func checkOccupation(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	return inList(r.Occupations, p.Occupation, "Occupation not in qualifying list")
}

func checkEducation(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	return inList(r.EducationLevels, p.EducationLevel, "Education level not in qualifying list")
}

func checkHousing(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	return inList(r.HousingStatuses, p.HousingStatus, "Housing status not in qualifying list")
}

func checkWidow(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if r.RequiresWidow && !p.IsWidow {
		return "Widow or single parent status required", false
	}
	return pass()
}

func checkSeniorCitizen(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if r.RequiresSeniorCitizen && !p.IsSeniorCitizen {
		return "Senior citizen status required", false
	}
	return pass()
}

func checkOrphan(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if r.RequiresOrphan && !p.IsOrphan {
		return "Orphan status required", false
	}
	return pass()
}

// checkMinMarks only binds student applicants of schemes open to students.
// A non-student qualifying through another listed occupation is not marked down.
// "Applies when occupation includes Student" is read as both the rule and the
// profile naming Student; a marks threshold has no meaning for other applicants.
func checkMinMarks(p *models.Profile, r *models.EligibilityRules) (string, bool) {
	if r.MinMarks == nil || *r.MinMarks < 0 || *r.MinMarks > 100 {
		return pass()
	}
	if !slices.Contains(r.Occupations, models.OccupationStudent) || p.Occupation != models.OccupationStudent {
		return pass()
	}
	if p.MarksPercentage < *r.MinMarks {
		return fmt.Sprintf("Marks percentage below minimum of %s%%", formatPercent(*r.MinMarks)), false
	}
	return pass()
}

func inList[T comparable](allowed []T, value T, reason string) (string, bool) {
	if len(allowed) == 0 || slices.Contains(allowed, value) {
		return pass()
	}
	return reason, false
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRupees groups thousands the way the portal prints amounts (₹100,000).
func formatRupees(format string, amount int64) string {
	return message.NewPrinter(language.English).Sprintf(format, amount)
}
