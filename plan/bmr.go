package plan

import (
	"errors"
	"fmt"
	"strings"
)

// Sex selects the constant term of the Mifflin-St Jeor equation.
type Sex string

const (
	Male   Sex = "M"
	Female Sex = "F"
)

// ErrUnknownSex is returned when a sex value is neither "M" nor "F".
var ErrUnknownSex = errors.New("sex must be 'M' or 'F'")

// ParseSex normalizes s (case-insensitive, surrounding spaces ignored) to Male or Female.
func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToUpper(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrUnknownSex, s)
}

// Valid reports whether s is one of the two recognised values.
func (s Sex) Valid() bool {
	return s == Male || s == Female
}

// EstimateBMR returns basal metabolic rate in kcal/day via Mifflin-St Jeor.
// Inputs are assumed validated; an unrecognised sex is a programming error and panics.
func EstimateBMR(weightKG, heightCM float64, ageYears int, sex Sex) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(ageYears)
	switch sex {
	case Male:
		return bmr + 5
	case Female:
		return bmr - 161
	}
	panic(fmt.Sprintf("plan: EstimateBMR called with unknown sex %q", string(sex)))
}
