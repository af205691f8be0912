// Package eligibility matches citizen profiles against scheme rule sets.
//
// Everything here is pure: no I/O, no clock, no errors. Callers load the
// profile and schemes and decide what to do with the verdicts.
package eligibility

import (
	"slices"

	"github.com/entescheme/ente-api/internal/models"
)

// Result is the verdict of one profile against one scheme.
type Result struct {
	SchemeID   string `json:"schemeId"`
	SchemeName string `json:"schemeName"`
	Eligible   bool   `json:"eligible"`
	// Reasons lists every unmet criterion in evaluation order.
	Reasons []string `json:"reasons"`
	// MissingDocuments never affects Eligible.
	MissingDocuments []models.Document `json:"missingDocuments"`
}

// Match pairs a scheme with its verdict.
type Match struct {
	Scheme models.Scheme `json:"scheme"`
	Result
}

// Evaluate runs every criterion of the scheme's rules against the profile.
// Criteria are independent and never short-circuit.
func Evaluate(profile *models.Profile, scheme *models.Scheme) Result {
	reasons := []string{}
	for _, check := range criteria {
		if reason, ok := check(profile, &scheme.Eligibility); !ok {
			reasons = append(reasons, reason)
		}
	}

	return Result{
		SchemeID:         schemeID(scheme),
		SchemeName:       scheme.Name,
		Eligible:         len(reasons) == 0,
		Reasons:          reasons,
		MissingDocuments: MissingDocuments(profile, scheme),
	}
}

// MatchSchemes returns the schemes the profile qualifies for, in input order.
func MatchSchemes(profile *models.Profile, schemes []models.Scheme) []Match {
	matches := []Match{}
	for i := range schemes {
		result := Evaluate(profile, &schemes[i])
		if result.Eligible {
			matches = append(matches, Match{Scheme: schemes[i], Result: result})
		}
	}
	return matches
}

// EvaluateAll returns a verdict for every scheme, in input order.
func EvaluateAll(profile *models.Profile, schemes []models.Scheme) []Match {
	all := make([]Match, 0, len(schemes))
	for i := range schemes {
		all = append(all, Match{Scheme: schemes[i], Result: Evaluate(profile, &schemes[i])})
	}
	return all
}

// ExplainScheme returns the unmet criteria. An empty list means the scheme
// is one MatchSchemes would return.
func ExplainScheme(profile *models.Profile, scheme *models.Scheme) []string {
	return Evaluate(profile, scheme).Reasons
}

// MissingDocuments lists the scheme's required documents the citizen has not
// declared, in the scheme's order.
func MissingDocuments(profile *models.Profile, scheme *models.Scheme) []models.Document {
	missing := []models.Document{}
	for _, doc := range scheme.RequiredDocuments {
		if !slices.Contains(profile.Documents, doc) && !slices.Contains(missing, doc) {
			missing = append(missing, doc)
		}
	}
	return missing
}

func schemeID(s *models.Scheme) string {
	if s.ID.IsZero() {
		return ""
	}
	return s.ID.Hex()
}
