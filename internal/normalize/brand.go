package normalize

import "strings"

// brandWebsites holds manual website overrides for chains whose registry
// entries never carry a site. Matched by substring on the lowercased name.
var brandWebsites = map[string]string{
	"castorama": "https://www.castorama.fr",
	"bricoman":  "https://www.bricoman.fr",
}

// BrandWebsite returns the known website for a recognized brand name, or ""
// when the company is not a known chain.
func BrandWebsite(companyName string) string {
	lower := strings.ToLower(companyName)
	for brand, site := range brandWebsites {
		if strings.Contains(lower, brand) {
			return site
		}
	}
	return ""
}
