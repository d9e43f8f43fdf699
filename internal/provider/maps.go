package provider

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

const defaultMapsBaseURL = "https://maps.googleapis.com"

// MapsEnricher looks a company up on Google Places and fills company-level
// gaps (website, phone, formatted address). It contributes no contacts of its
// own; it runs before the contact waterfall so the other adapters have a
// domain to work with.
type MapsEnricher struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// MapsOption configures the enricher.
type MapsOption func(*MapsEnricher)

// WithMapsBaseURL overrides the Places endpoint, used by tests.
func WithMapsBaseURL(base string) MapsOption {
	return func(m *MapsEnricher) {
		m.baseURL = base
	}
}

// NewMapsEnricher builds a Places-backed site enricher.
func NewMapsEnricher(httpClient *http.Client, apiKey string, opts ...MapsOption) *MapsEnricher {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	m := &MapsEnricher{
		httpClient: httpClient,
		baseURL:    defaultMapsBaseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type placesSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID string `json:"place_id"`
	} `json:"results"`
}

type placesDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Website        string `json:"website"`
		FormattedPhone string `json:"formatted_phone_number"`
		FormattedAddr  string `json:"formatted_address"`
		URL            string `json:"url"`
	} `json:"result"`
}

// EnrichSite searches Places with "<name> <naf keyword> <city>", fetches the
// details of the top hit and merges website, phone and address into the
// company without overwriting already-known values. Returns true when Places
// contributed anything.
func (m *MapsEnricher) EnrichSite(ctx context.Context, company *entity.Company) bool {
	if m.apiKey == "" {
		return false
	}

	query := company.Name + " " + normalize.NAFKeyword(company.NAF) + " " + company.City

	q := url.Values{}
	q.Set("query", query)
	q.Set("key", m.apiKey)
	q.Set("language", "fr")

	var search placesSearchResponse
	if err := getJSON(ctx, m.httpClient, m.baseURL+"/maps/api/place/textsearch/json?"+q.Encode(), nil, &search); err != nil {
		log.Printf("maps: text search for %q failed: %v", company.Name, err)
		return false
	}
	if search.Status != "OK" || len(search.Results) == 0 {
		return false
	}

	dq := url.Values{}
	dq.Set("place_id", search.Results[0].PlaceID)
	dq.Set("fields", "name,formatted_address,formatted_phone_number,website,url")
	dq.Set("key", m.apiKey)
	dq.Set("language", "fr")

	var details placesDetailsResponse
	if err := getJSON(ctx, m.httpClient, m.baseURL+"/maps/api/place/details/json?"+dq.Encode(), nil, &details); err != nil {
		log.Printf("maps: details lookup for %q failed: %v", company.Name, err)
		return false
	}
	if details.Status != "OK" {
		return false
	}

	result := details.Result
	company.SetWebsite(result.Website)
	if phone := normalize.Phone(result.FormattedPhone); phone != "" {
		company.SetPhone(phone)
	} else {
		company.SetPhone(result.FormattedPhone)
	}
	if company.FullAddress == nil && result.FormattedAddr != "" {
		company.FullAddress = &result.FormattedAddr
	}
	if company.GoogleMapsURL == nil && result.URL != "" {
		company.GoogleMapsURL = &result.URL
	}

	return result.Website != "" || result.FormattedPhone != "" || result.FormattedAddr != ""
}
