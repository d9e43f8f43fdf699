package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

const (
	defaultRocketReachBaseURL = "https://api.rocketreach.co"
	rocketReachProfileCap     = 15
)

// RocketReach searches people profiles by company domain. The orchestrator
// only calls it when the cheaper providers left fewer than a handful of
// contacts, because every search bills credits.
type RocketReach struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// RocketReachOption configures the adapter.
type RocketReachOption func(*RocketReach)

// WithRocketReachBaseURL overrides the endpoint, used by tests.
func WithRocketReachBaseURL(base string) RocketReachOption {
	return func(r *RocketReach) {
		r.baseURL = base
	}
}

// NewRocketReach builds the adapter.
func NewRocketReach(httpClient *http.Client, apiKey string, opts ...RocketReachOption) *RocketReach {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	r := &RocketReach{httpClient: httpClient, baseURL: defaultRocketReachBaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements Provider.
func (r *RocketReach) Name() entity.Source { return entity.SourceRocketReach }

type rocketReachResponse struct {
	Profiles []struct {
		FirstName    string   `json:"first_name"`
		LastName     string   `json:"last_name"`
		CurrentTitle string   `json:"current_title"`
		Title        string   `json:"title"`
		WorkEmail    string   `json:"work_email"`
		PhoneNumbers []string `json:"phone_numbers"`
		LinkedInURL  string   `json:"linkedin_url"`
	} `json:"profiles"`
}

// Enrich implements Provider. Requires a website; skips silently without one.
// Profiles without a usable name are dropped: a nameless profile with no work
// email carries nothing worth keeping.
func (r *RocketReach) Enrich(ctx context.Context, company *entity.Company) []entity.Contact {
	if r.apiKey == "" || company.Website == nil {
		return nil
	}
	domain := normalize.Domain(*company.Website)
	if len(domain) < minDomainLength {
		return nil
	}

	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", r.apiKey)

	var payload rocketReachResponse
	if err := getJSON(ctx, r.httpClient, r.baseURL+"/v2/api/search?"+q.Encode(), nil, &payload); err != nil {
		log.Printf("rocketreach: search %s failed: %v", domain, err)
		return nil
	}

	profiles := payload.Profiles
	if len(profiles) > rocketReachProfileCap {
		profiles = profiles[:rocketReachProfileCap]
	}

	var contacts []entity.Contact
	for _, p := range profiles {
		name := strings.TrimSpace(p.FirstName + " " + p.LastName)
		if name == "" {
			continue
		}

		job := p.CurrentTitle
		if job == "" {
			job = p.Title
		}
		if job == "" {
			job = fallbackJob
		}

		var phone string
		if len(p.PhoneNumbers) > 0 {
			phone = p.PhoneNumbers[0]
		}

		confidence := entity.ConfidenceLow
		if p.WorkEmail != "" {
			confidence = entity.ConfidenceHigh
		}

		contacts = append(contacts, entity.Contact{
			Name:        name,
			JobTitle:    job,
			Email:       p.WorkEmail,
			Phone:       phone,
			LinkedInURL: p.LinkedInURL,
			Source:      entity.SourceRocketReach,
			Confidence:  confidence,
		})
	}
	return contacts
}
