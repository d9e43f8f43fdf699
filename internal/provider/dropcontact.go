package provider

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

const defaultDropcontactBaseURL = "https://api.dropcontact.io"

// Dropcontact queries the French contact-enrichment service. It is the first
// contact provider in the waterfall because its coverage of domestic SMEs is
// the best of the set.
type Dropcontact struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// DropcontactOption configures the adapter.
type DropcontactOption func(*Dropcontact)

// WithDropcontactBaseURL overrides the endpoint, used by tests.
func WithDropcontactBaseURL(base string) DropcontactOption {
	return func(d *Dropcontact) {
		d.baseURL = base
	}
}

// NewDropcontact builds the adapter.
func NewDropcontact(httpClient *http.Client, apiKey string, opts ...DropcontactOption) *Dropcontact {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	d := &Dropcontact{httpClient: httpClient, baseURL: defaultDropcontactBaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements Provider.
func (d *Dropcontact) Name() entity.Source { return entity.SourceDropcontact }

type dropcontactRequest struct {
	Data []dropcontactRecord `json:"data"`
}

type dropcontactRecord struct {
	Entreprise string `json:"entreprise"`
	Website    string `json:"website"`
	Siren      string `json:"siren"`
	Ville      string `json:"ville"`
	CodePostal string `json:"code_postal"`
}

type dropcontactResponse struct {
	Data []struct {
		Emails []struct {
			Email     string `json:"email"`
			Prenom    string `json:"prenom"`
			Nom       string `json:"nom"`
			Fonction  string `json:"fonction"`
			Telephone string `json:"telephone"`
			LinkedIn  string `json:"linkedin"`
			Qualite   string `json:"qualite"`
		} `json:"emails"`
	} `json:"data"`
}

// Enrich implements Provider. Requires a website; skips silently without one.
func (d *Dropcontact) Enrich(ctx context.Context, company *entity.Company) []entity.Contact {
	if d.apiKey == "" || company.Website == nil {
		return nil
	}
	if len(normalize.Domain(*company.Website)) < minDomainLength {
		return nil
	}

	payload := dropcontactRequest{Data: []dropcontactRecord{{
		Entreprise: company.Name,
		Website:    *company.Website,
		Siren:      company.Siren,
		Ville:      company.City,
		CodePostal: company.PostalCode,
	}}}

	headers := map[string]string{"X-Access-Token": d.apiKey}

	var resp dropcontactResponse
	if err := postJSON(ctx, d.httpClient, d.baseURL+"/batch", headers, payload, &resp); err != nil {
		log.Printf("dropcontact: batch for %q failed: %v", company.Name, err)
		return nil
	}
	if len(resp.Data) == 0 {
		return nil
	}

	var contacts []entity.Contact
	for _, e := range resp.Data[0].Emails {
		if e.Email == "" {
			continue
		}

		name := strings.TrimSpace(e.Prenom + " " + e.Nom)
		if name == "" {
			name = "Contact commercial"
		}
		job := e.Fonction
		if job == "" {
			job = fallbackJob
		}

		confidence := entity.ConfidenceMedium
		if e.Qualite == "bon" {
			confidence = entity.ConfidenceHigh
		}

		contacts = append(contacts, entity.Contact{
			Name:        name,
			JobTitle:    job,
			Email:       e.Email,
			Phone:       e.Telephone,
			LinkedInURL: e.LinkedIn,
			Source:      entity.SourceDropcontact,
			Confidence:  confidence,
		})
	}
	return contacts
}
