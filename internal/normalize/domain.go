package normalize

import (
	"strings"

	"golang.org/x/net/idna"
)

// Domain extracts the bare domain from a website URL: scheme stripped, leading
// "www." stripped, everything after the first slash dropped. Internationalized
// hostnames are folded to their ASCII (punycode) form so that comparisons
// against scraped text behave predictably. Returns "" for unusable input.
func Domain(website string) string {
	d := strings.TrimSpace(website)
	if d == "" {
		return ""
	}
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	d = strings.ToLower(strings.TrimSuffix(d, "."))
	if len(d) < 3 || !strings.Contains(d, ".") {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(d); err == nil {
		d = ascii
	}
	return d
}

// Email lowercases an address and trims surrounding junk. Addresses without an
// "@" are rejected.
func Email(raw string) string {
	e := strings.ToLower(strings.Trim(strings.TrimSpace(raw), ".,;:"))
	if !strings.Contains(e, "@") {
		return ""
	}
	return e
}
