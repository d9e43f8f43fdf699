package normalize

import "regexp"

var districtZero = regexp.MustCompile(`^\d{2}000$`)

// PostalCode rewrites degenerate department-wide codes (trailing "000") to the
// first arrondissement variant so the geocoder anchors on a real municipality.
// This is a deliberate approximation: "75000" means "Paris somewhere" to a
// caller, and "75001" is a good enough anchor within any useful radius.
func PostalCode(cp string) string {
	if cp == "75000" {
		return "75001"
	}
	if districtZero.MatchString(cp) {
		return cp[:2] + "01"
	}
	return cp
}
