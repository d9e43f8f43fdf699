package normalize

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const phoneRegion = "FR"

// Phone canonicalizes a raw phone string into the French national 10-digit form
// ("0XXXXXXXXX"). International +33 numbers are folded back to the 0-prefixed
// form. Returns "" when the input cannot be read as a plausible number.
func Phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	number, err := phonenumbers.Parse(raw, phoneRegion)
	if err == nil && phonenumbers.IsValidNumberForRegion(number, phoneRegion) {
		national := phonenumbers.Format(number, phonenumbers.NATIONAL)
		return strings.Map(keepDigit, national)
	}

	// Fallback heuristic for numbers the library rejects but that still look
	// like usable dial strings (short-coded lines, badly OCR'd pages).
	digits := strings.Map(keepDigit, raw)
	if strings.HasPrefix(digits, "0033") {
		digits = "33" + strings.TrimPrefix(digits, "0033")
	}
	if strings.HasPrefix(digits, "33") && len(digits) == 11 {
		return "0" + digits[2:]
	}
	if strings.HasPrefix(digits, "0") && len(digits) == 10 {
		return digits
	}
	if len(digits) >= 10 {
		return digits
	}
	return ""
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}
