package normalize

import "testing"

func TestDomainStripsSchemeAndPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.castorama.fr/magasins/paris", "castorama.fr"},
		{"http://example.com", "example.com"},
		{"www.example.org/", "example.org"},
		{"Example.COM", "example.com"},
		{"https://", ""},
		{"", ""},
		{"ab", ""},
		{"localhost", ""},
	}

	for _, tc := range cases {
		if got := Domain(tc.in); got != tc.want {
			t.Fatalf("Domain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEmailLowercasesAndTrims(t *testing.T) {
	if got := Email(" Contact@Example.FR."); got != "contact@example.fr" {
		t.Fatalf("unexpected email: %q", got)
	}
	if got := Email("not-an-email"); got != "" {
		t.Fatalf("expected empty for invalid address, got %q", got)
	}
}

func TestNAFKeywordFallsBackToPrefixThenDefault(t *testing.T) {
	if got := NAFKeyword("47.52B"); got != "bricolage quincaillerie" {
		t.Fatalf("exact code lookup failed: %q", got)
	}
	if got := NAFKeyword("47.52Z"); got != "bricolage" {
		t.Fatalf("prefix lookup failed: %q", got)
	}
	if got := NAFKeyword("99.99X"); got != "commerce" {
		t.Fatalf("default keyword failed: %q", got)
	}
	if got := NAFKeyword(""); got != "commerce" {
		t.Fatalf("empty code should default: %q", got)
	}
}

func TestPostalCodeRewritesDistrictZeros(t *testing.T) {
	cases := []struct{ in, want string }{
		{"75000", "75001"},
		{"13000", "13001"},
		{"69000", "69001"},
		{"75015", "75015"},
		{"1300", "1300"},
	}
	for _, tc := range cases {
		if got := PostalCode(tc.in); got != tc.want {
			t.Fatalf("PostalCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBrandWebsiteMatchesKnownChains(t *testing.T) {
	if got := BrandWebsite("CASTORAMA VILLENEUVE"); got != "https://www.castorama.fr" {
		t.Fatalf("unexpected override: %q", got)
	}
	if got := BrandWebsite("Boulangerie Dupont"); got != "" {
		t.Fatalf("expected no override, got %q", got)
	}
}

func TestFrenchContactHeuristic(t *testing.T) {
	cases := []struct {
		name  string
		email string
		phone string
		want  bool
	}{
		{"french mobile", "", "0612345678", true},
		{"plus33", "", "+33123456789", true},
		{"foreign prefix", "", "442012345678", false},
		{"fr mailbox", "jean@societe.fr", "", true},
		{"generic com mailbox", "jean@societe.com", "", true},
		{"no coordinates", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FrenchContact(tc.email, tc.phone); got != tc.want {
				t.Fatalf("FrenchContact(%q, %q) = %v, want %v", tc.email, tc.phone, got, tc.want)
			}
		})
	}
}
