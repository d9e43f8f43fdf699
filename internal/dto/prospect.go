package dto

import "github.com/octobees/prospector/internal/entity"

// ProspectRequest is the payload of the main prospection endpoint. At least
// one of CompanyName or NAFCode is required, along with a postal code.
type ProspectRequest struct {
	CompanyName string `json:"companyName,omitempty"`
	NAFCode     string `json:"nafCode,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	// Location is a legacy alias for PostalCode kept for older clients.
	Location string `json:"location,omitempty"`
	RadiusKm int    `json:"radiusKm,omitempty"`
}

// AnchorPostalCode returns the postal code, honouring the legacy alias.
func (r ProspectRequest) AnchorPostalCode() string {
	if r.PostalCode != "" {
		return r.PostalCode
	}
	return r.Location
}

// ProspectResponse is the structured result of a prospection run. Target is
// nil when the request searched by activity code alone.
type ProspectResponse struct {
	Data    []entity.EnrichedCompany `json:"data"`
	Target  *entity.Company          `json:"target"`
	Total   int                      `json:"total"`
	Message string                   `json:"message,omitempty"`
}
