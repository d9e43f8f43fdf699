package entity

// Company represents a business resolved from the national registry, enriched in
// place as providers discover its website, phone and contacts. It lives for the
// duration of one prospect request and is never persisted.
type Company struct {
	Name          string    `json:"name"`
	Siren         string    `json:"siren"`
	NAF           string    `json:"naf"`
	Sector        string    `json:"sector,omitempty"`
	Address       string    `json:"address,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	City          string    `json:"city,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Website       *string   `json:"website,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	FullAddress   *string   `json:"full_address,omitempty"`
	GoogleMapsURL *string   `json:"google_maps_url,omitempty"`
	Contacts      []Contact `json:"contacts"`
}

// EnrichedCompany is a Company plus the list of providers that contributed data.
type EnrichedCompany struct {
	Company
	Sources []string `json:"sources"`
}

// SetWebsite fills the website only when none is known yet.
func (c *Company) SetWebsite(url string) {
	if c.Website == nil && url != "" {
		c.Website = &url
	}
}

// SetPhone fills the phone only when none is known yet.
func (c *Company) SetPhone(phone string) {
	if c.Phone == nil && phone != "" {
		c.Phone = &phone
	}
}
