package provider

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

const defaultFullEnrichBaseURL = "https://app.fullenrich.com"

// ErrMissingCredential is returned by the person-enrichment path when no
// FullEnrich API key is configured.
var ErrMissingCredential = errors.New("fullenrich credential not configured")

// FullEnrich submits asynchronous bulk enrichment jobs to the premium
// provider. In the company waterfall the submission is metered fire-and-
// forget: it burns quota, and whatever records the account returns
// synchronously are kept, but no completion is awaited. The person path used
// by the dedicated endpoint parses the synchronous response in full.
type FullEnrich struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// FullEnrichOption configures the adapter.
type FullEnrichOption func(*FullEnrich)

// WithFullEnrichBaseURL overrides the endpoint, used by tests.
func WithFullEnrichBaseURL(base string) FullEnrichOption {
	return func(f *FullEnrich) {
		f.baseURL = base
	}
}

// NewFullEnrich builds the premium adapter.
func NewFullEnrich(httpClient *http.Client, apiKey string, opts ...FullEnrichOption) *FullEnrich {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	f := &FullEnrich{httpClient: httpClient, baseURL: defaultFullEnrichBaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name implements Provider.
func (f *FullEnrich) Name() entity.Source { return entity.SourceFullEnrich }

var fullEnrichFields = []string{
	"contact.emails",
	"contact.personal_emails",
	"contact.phones",
}

type fullEnrichPayload struct {
	Name       string           `json:"name"`
	WebhookURL string           `json:"webhook_url"`
	Datas      []fullEnrichData `json:"datas"`
}

type fullEnrichData struct {
	Firstname    string            `json:"firstname"`
	Lastname     string            `json:"lastname"`
	Domain       string            `json:"domain"`
	CompanyName  string            `json:"company_name"`
	LinkedInURL  string            `json:"linkedin_url"`
	EnrichFields []string          `json:"enrich_fields"`
	Custom       map[string]string `json:"custom"`
}

type fullEnrichResponse struct {
	Datas   []json.RawMessage `json:"datas"`
	Results []json.RawMessage `json:"results"`
}

type fullEnrichContact struct {
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Title          string            `json:"title"`
	Position       string            `json:"position"`
	Emails         []json.RawMessage `json:"emails"`
	PersonalEmails []json.RawMessage `json:"personal_emails"`
	Phones         []string          `json:"phones"`
	Phone          string            `json:"phone"`
	LinkedInURL    string            `json:"linkedin_url"`
}

// Enrich implements Provider. It submits a company-level bulk job and returns
// whatever records came back synchronously, which is usually nothing. The
// orchestrator consumes one quota unit around this call.
func (f *FullEnrich) Enrich(ctx context.Context, company *entity.Company) []entity.Contact {
	if f.apiKey == "" || company.Website == nil {
		return nil
	}
	domain := normalize.Domain(*company.Website)
	if len(domain) < minDomainLength {
		return nil
	}

	payload := fullEnrichPayload{
		Name: "Prospect " + truncate(company.Name, 80),
		Datas: []fullEnrichData{{
			Domain:       domain,
			CompanyName:  truncate(company.Name, 100),
			EnrichFields: fullEnrichFields,
			Custom: map[string]string{
				"source_company_siren": company.Siren,
				"source_company_city":  company.City,
			},
		}},
	}

	resp, err := f.submit(ctx, payload)
	if err != nil {
		log.Printf("fullenrich: bulk submit for %q failed: %v", company.Name, err)
		return nil
	}
	return parseFullEnrichRecords(resp, "", "")
}

// PersonRequest identifies one individual to enrich.
type PersonRequest struct {
	Firstname   string
	Lastname    string
	CompanyName string
	Domain      string
	LinkedInURL string
}

// EnrichPerson submits a single-person job and parses the synchronous
// response. Unlike the waterfall path, upstream failures are surfaced: the
// dedicated endpoint reports them to its caller.
func (f *FullEnrich) EnrichPerson(ctx context.Context, req PersonRequest) ([]entity.Contact, error) {
	if f.apiKey == "" {
		return nil, ErrMissingCredential
	}

	payload := fullEnrichPayload{
		Name: truncate("Enrich "+req.Firstname+" "+req.Lastname+" - "+firstNonEmpty(req.CompanyName, req.Domain), 100),
		Datas: []fullEnrichData{{
			Firstname:    req.Firstname,
			Lastname:     req.Lastname,
			Domain:       req.Domain,
			CompanyName:  req.CompanyName,
			LinkedInURL:  req.LinkedInURL,
			EnrichFields: fullEnrichFields,
			Custom:       map[string]string{},
		}},
	}

	resp, err := f.submit(ctx, payload)
	if err != nil {
		return nil, err
	}
	return parseFullEnrichRecords(resp, req.Firstname, req.Lastname), nil
}

func (f *FullEnrich) submit(ctx context.Context, payload fullEnrichPayload) (*fullEnrichResponse, error) {
	headers := map[string]string{"Authorization": "Bearer " + f.apiKey}

	var resp fullEnrichResponse
	if err := postJSON(ctx, f.httpClient, f.baseURL+"/api/v1/contact/enrich/bulk", headers, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// parseFullEnrichRecords flattens the provider's record envelopes into
// contacts. Each record may nest the person under "contact" or
// "enriched_contact", or be the person itself; emails may be plain strings or
// {email|value} objects.
func parseFullEnrichRecords(resp *fullEnrichResponse, fallbackFirst, fallbackLast string) []entity.Contact {
	records := resp.Datas
	if len(records) == 0 {
		records = resp.Results
	}

	var contacts []entity.Contact
	for _, raw := range records {
		var envelope struct {
			Contact         *fullEnrichContact `json:"contact"`
			EnrichedContact *fullEnrichContact `json:"enriched_contact"`
		}
		_ = json.Unmarshal(raw, &envelope)

		data := envelope.Contact
		if data == nil {
			data = envelope.EnrichedContact
		}
		if data == nil {
			var direct fullEnrichContact
			if err := json.Unmarshal(raw, &direct); err != nil {
				continue
			}
			data = &direct
		}

		name := strings.TrimSpace(firstNonEmpty(data.FirstName, fallbackFirst) + " " + firstNonEmpty(data.LastName, fallbackLast))
		if name == "" {
			name = fallbackName
		}
		job := firstNonEmpty(data.Title, data.Position, fallbackJob)

		var phone string
		if len(data.Phones) > 0 {
			phone = data.Phones[0]
		} else {
			phone = data.Phone
		}

		emails := append(parseFlexibleEmails(data.Emails), parseFlexibleEmails(data.PersonalEmails)...)
		for _, email := range emails {
			contacts = append(contacts, entity.Contact{
				Name:        name,
				JobTitle:    job,
				Email:       email,
				Phone:       phone,
				LinkedInURL: data.LinkedInURL,
				Source:      entity.SourceFullEnrich,
				Confidence:  entity.ConfidenceHigh,
			})
		}

		// A named person without any mailbox is still worth reporting, at
		// low confidence.
		if len(emails) == 0 && (data.FirstName != "" || data.LastName != "") {
			contacts = append(contacts, entity.Contact{
				Name:        name,
				JobTitle:    job,
				LinkedInURL: data.LinkedInURL,
				Source:      entity.SourceFullEnrich,
				Confidence:  entity.ConfidenceLow,
			})
		}
	}
	return contacts
}

func parseFlexibleEmails(raws []json.RawMessage) []string {
	var out []string
	for _, raw := range raws {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			Email string `json:"email"`
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			if email := firstNonEmpty(obj.Email, obj.Value); email != "" {
				out = append(out, email)
			}
		}
	}
	return out
}

// truncate caps s at max runes. Counting runes rather than bytes keeps
// accented company names intact at the boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
