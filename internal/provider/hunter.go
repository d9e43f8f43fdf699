package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

const (
	defaultHunterBaseURL = "https://api.hunter.io"
	hunterResultCap      = 10
)

// Hunter searches a domain for published mailboxes.
type Hunter struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// HunterOption configures the adapter.
type HunterOption func(*Hunter)

// WithHunterBaseURL overrides the endpoint, used by tests.
func WithHunterBaseURL(base string) HunterOption {
	return func(h *Hunter) {
		h.baseURL = base
	}
}

// NewHunter builds the domain-search adapter.
func NewHunter(httpClient *http.Client, apiKey string, opts ...HunterOption) *Hunter {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	h := &Hunter{httpClient: httpClient, baseURL: defaultHunterBaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements Provider.
func (h *Hunter) Name() entity.Source { return entity.SourceHunter }

type hunterResponse struct {
	Data struct {
		Emails []struct {
			Value      string `json:"value"`
			FirstName  string `json:"first_name"`
			LastName   string `json:"last_name"`
			Position   string `json:"position"`
			Department string `json:"department"`
			LinkedIn   string `json:"linkedin"`
			Confidence int    `json:"confidence"`
		} `json:"emails"`
	} `json:"data"`
}

// Enrich implements Provider. Requires a website; skips silently without one.
func (h *Hunter) Enrich(ctx context.Context, company *entity.Company) []entity.Contact {
	if h.apiKey == "" || company.Website == nil {
		return nil
	}
	domain := normalize.Domain(*company.Website)
	if len(domain) < minDomainLength {
		return nil
	}

	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", h.apiKey)
	q.Set("limit", strconv.Itoa(hunterResultCap))

	var payload hunterResponse
	if err := getJSON(ctx, h.httpClient, h.baseURL+"/v2/domain-search?"+q.Encode(), nil, &payload); err != nil {
		log.Printf("hunter: domain search %s failed: %v", domain, err)
		return nil
	}

	emails := payload.Data.Emails
	if len(emails) > hunterResultCap {
		emails = emails[:hunterResultCap]
	}

	contacts := make([]entity.Contact, 0, len(emails))
	for _, e := range emails {
		if e.Value == "" {
			continue
		}

		name := strings.TrimSpace(e.FirstName + " " + e.LastName)
		if name == "" {
			name = "Contact Hunter"
		}
		job := e.Position
		if job == "" {
			job = e.Department
		}
		if job == "" {
			job = fallbackJob
		}

		confidence := entity.ConfidenceMedium
		if e.Confidence >= 80 {
			confidence = entity.ConfidenceHigh
		}

		contacts = append(contacts, entity.Contact{
			Name:        name,
			JobTitle:    job,
			Email:       e.Value,
			LinkedInURL: e.LinkedIn,
			Source:      entity.SourceHunter,
			Confidence:  confidence,
		})
	}
	return contacts
}
