package normalize

// nafKeywords maps NAF activity codes (full or two-level prefixes) to the
// free-text keyword injected into Places queries. This is a policy table, not
// an algorithm; unmapped codes fall back to a generic keyword.
var nafKeywords = map[string]string{
	"47.52":  "bricolage",
	"47.52B": "bricolage quincaillerie",
	"47.52A": "bricolage peinture",
	"47.11":  "supermarché",
	"47.19":  "commerce général",
	"47.71":  "habillement",
	"47.72":  "chaussures",
	"56.10":  "restaurant",
	"56.30":  "café bar",
	"68.20":  "immobilier location",
	"62.01":  "informatique développement",
	"62.02":  "conseil informatique",
	"70.22":  "conseil gestion",
	"41.20":  "construction",
	"43.99":  "travaux",
	"45.20":  "entretien véhicules",
	"46.90":  "commerce gros",
}

const defaultNAFKeyword = "commerce"

// NAFKeyword returns the search keyword for an activity code, trying the exact
// code first and then its 5-character prefix.
func NAFKeyword(naf string) string {
	if naf == "" {
		return defaultNAFKeyword
	}
	if kw, ok := nafKeywords[naf]; ok {
		return kw
	}
	if len(naf) >= 5 {
		if kw, ok := nafKeywords[naf[:5]]; ok {
			return kw
		}
	}
	return defaultNAFKeyword
}
