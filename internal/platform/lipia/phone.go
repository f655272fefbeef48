package lipia

import "strings"

// NormalizePhone converts a payer phone number to the local 0XXXXXXXXX form
// the aggregator expects: non-digits are stripped, a leading 254 country code
// becomes a leading 0, and a 0 is prepended when missing.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return cleaned
	}

	switch {
	case strings.HasPrefix(cleaned, "254"):
		cleaned = "0" + cleaned[3:]
	case !strings.HasPrefix(cleaned, "0"):
		cleaned = "0" + cleaned
	}
	return cleaned
}
