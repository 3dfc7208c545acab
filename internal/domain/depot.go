package domain

import (
	"strings"
	"unicode"
)

// IsValidDepotNumber reports whether s is a depot number: 3 to 6 ASCII digits.
func IsValidDepotNumber(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 || len(s) > 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseDepotNumbers splits free text on whitespace, commas and semicolons.
// Valid numbers are returned once each in first-seen order; every other
// token yields a failed resolution with ErrKindInvalidDepotNumber.
func ParseDepotNumbers(text string) ([]string, []VehicleResolution) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})

	seen := make(map[string]struct{}, len(fields))
	valid := make([]string, 0, len(fields))
	var invalid []VehicleResolution
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}

		if IsValidDepotNumber(f) {
			valid = append(valid, f)
			continue
		}
		invalid = append(invalid, Failed(f, ErrKindInvalidDepotNumber, ""))
	}

	return valid, invalid
}
