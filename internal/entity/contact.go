package entity

// Source identifies which provider produced a piece of data.
type Source string

const (
	SourceRegistry    Source = "API Recherche"
	SourceGoogleMaps  Source = "Google Maps"
	SourceDropcontact Source = "Dropcontact"
	SourceScraping    Source = "Web Scraping"
	SourceHunter      Source = "Hunter"
	SourceRocketReach Source = "RocketReach"
	SourceFullEnrich  Source = "FullEnrich"
)

// Confidence is a coarse reliability tag assigned by the provider that produced
// a contact. It is never upgraded once set.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Contact is a person (or a reception desk) attached to a company.
type Contact struct {
	Name        string     `json:"name"`
	JobTitle    string     `json:"job_title,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	LinkedInURL string     `json:"linkedin_url,omitempty"`
	Source      Source     `json:"source"`
	Confidence  Confidence `json:"confidence"`
}

// HasCoordinates reports whether the contact carries at least one way to be reached.
func (c Contact) HasCoordinates() bool {
	return c.Email != "" || c.Phone != ""
}
