package validators

import "strings"

// SanitizeString trims input and truncates it to maxLen bytes when positive.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// OptionalString returns nil for blank form values.
func OptionalString(input string, maxLen int) *string {
	v := SanitizeString(input, maxLen)
	if v == "" {
		return nil
	}
	return &v
}
