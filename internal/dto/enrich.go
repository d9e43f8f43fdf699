package dto

import "github.com/octobees/prospector/internal/entity"

// EnrichContactRequest identifies a single person to enrich through the
// premium provider. Firstname and lastname are required, plus at least one of
// the company hints.
type EnrichContactRequest struct {
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	CompanyName string `json:"company_name,omitempty"`
	Domain      string `json:"domain,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// EnrichContactResponse carries the contacts found for one person.
type EnrichContactResponse struct {
	OK    bool             `json:"ok"`
	Data  []entity.Contact `json:"data"`
	Error string           `json:"error,omitempty"`
}
