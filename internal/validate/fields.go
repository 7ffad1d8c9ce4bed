package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/geocoder89/workoutseed/internal/domain/exercise"
)

// MinTemplateNameLen is the minimum rune count of a trimmed template name.
const MinTemplateNameLen = 3

func trim(s string) string { return strings.TrimSpace(s) }

// Required trims raw and fails with EmptyField when nothing is left.
func Required(field, raw string) (string, error) {
	v := trim(raw)
	if v == "" {
		return "", fail(field, EmptyField, raw, "must not be empty")
	}
	return v, nil
}

// Description is Required for the "description" field.
func Description(raw string) (string, error) {
	return Required("description", raw)
}

func TemplateName(raw string) (string, error) {
	v := trim(raw)
	if utf8.RuneCountInString(v) < MinTemplateNameLen {
		return "", fail("name", InvalidLength, raw, "must be at least "+strconv.Itoa(MinTemplateNameLen)+" characters")
	}
	return v, nil
}

// Bool accepts "true" or "false" in any case. Anything else is rejected,
// including "1", "yes" and surrounding garbage.
func Bool(field, raw string) (bool, error) {
	switch strings.ToLower(trim(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fail(field, InvalidBoolean, raw, "must be 'true' or 'false'")
	}
}

func Int(field, raw string) (int64, error) {
	n, err := strconv.ParseInt(trim(raw), 10, 64)
	if err != nil {
		return 0, fail(field, InvalidInteger, raw, "must be an integer")
	}
	return n, nil
}

// ExerciseType matches raw against the declared variants exactly (after trim).
// Unknown values are rejected, never coerced.
func ExerciseType(raw string) (exercise.Type, error) {
	t := exercise.Type(trim(raw))
	if !t.IsValid() {
		names := make([]string, 0, len(exercise.Types()))
		for _, v := range exercise.Types() {
			names = append(names, string(v))
		}
		return "", fail("exercise_type", InvalidEnum, raw, "must be one of "+strings.Join(names, ", "))
	}
	return t, nil
}
