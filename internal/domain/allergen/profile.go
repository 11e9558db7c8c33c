package allergen

// Severity grades how serious a registered allergy is. Planning treats
// every severity identically; the grade is informational for the rest
// of the application.
type Severity string

const (
	SeveritySevere      Severity = "severe"
	SeverityModerate    Severity = "moderate"
	SeverityIntolerance Severity = "intolerance"
)

// UserAllergen is a single allergen registered on a user profile.
type UserAllergen struct {
	Type     string
	Severity Severity
}

// Types extracts the allergen type strings from a profile. The planning
// core only consumes the types.
func Types(allergens []UserAllergen) []string {
	out := make([]string, 0, len(allergens))
	for _, a := range allergens {
		out = append(out, a.Type)
	}
	return out
}
