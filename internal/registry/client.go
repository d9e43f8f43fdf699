// Package registry wraps the public business-directory API used to resolve
// free-text company names and to list peer companies by activity code.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/prospector/internal/entity"
)

const (
	defaultBaseURL = "https://recherche-entreprises.api.gouv.fr"
	// pageSize is the per-postal-code result cap enforced by the upstream API.
	pageSize = 50
)

// Client queries the business registry over HTTPS JSON. Requests across
// postal codes are paced to stay friendly with the public API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pacer      *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL points the client at a different registry endpoint, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithPacer overrides the request pacer.
func WithPacer(l *rate.Limiter) Option {
	return func(c *Client) {
		c.pacer = l
	}
}

// NewClient builds a registry client with a bounded-timeout HTTP client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		pacer:      rate.NewLimiter(rate.Every(160*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	NomComplet      string `json:"nom_complet"`
	NomRaisonSoc    string `json:"nom_raison_sociale"`
	Siren           string `json:"siren"`
	Activite        string `json:"activite_principale"`
	LibelleActivite string `json:"libelle_activite_principale"`
	Siege           struct {
		Adresse    string `json:"adresse"`
		CodePostal string `json:"code_postal"`
		Commune    string `json:"commune"`
		Latitude   string `json:"latitude"`
		Longitude  string `json:"longitude"`
	} `json:"siege"`
}

// Resolve looks up a company by free-text name filtered by postal code and
// returns the top-ranked match. A miss, or any upstream failure, yields nil:
// the caller decides the fallback messaging.
func (c *Client) Resolve(ctx context.Context, name, postalCode string) *entity.Company {
	q := url.Values{}
	q.Set("q", name)
	q.Set("code_postal", postalCode)
	q.Set("limite", "1")

	results, err := c.search(ctx, q)
	if err != nil {
		log.Printf("registry: resolve %q failed: %v", name, err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	company := results[0].toCompany()
	return &company
}

// FindPeers accumulates companies sharing the activity code across the given
// postal codes, deduplicated by SIREN, until maxTotal is reached or the codes
// are exhausted. Postal codes are visited in random order so repeated runs do
// not always favour the same municipalities. Failing pages are skipped.
func (c *Client) FindPeers(ctx context.Context, naf string, postalCodes []string, maxTotal int) []entity.Company {
	var peers []entity.Company
	seen := make(map[string]bool)

	shuffled := append([]string(nil), postalCodes...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, cp := range shuffled {
		if len(peers) >= maxTotal {
			break
		}
		if err := c.pacer.Wait(ctx); err != nil {
			break
		}

		q := url.Values{}
		q.Set("activite_principale", naf)
		q.Set("code_postal", cp)
		q.Set("limite", strconv.Itoa(pageSize))

		results, err := c.search(ctx, q)
		if err != nil {
			log.Printf("registry: peers page %s failed: %v", cp, err)
			continue
		}

		for _, r := range results {
			if r.Siren == "" || seen[r.Siren] {
				continue
			}
			seen[r.Siren] = true
			peers = append(peers, r.toCompany())
			if len(peers) >= maxTotal {
				break
			}
		}
	}

	return peers
}

func (c *Client) search(ctx context.Context, query url.Values) ([]searchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("registry status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}
	return payload.Results, nil
}

func (r searchResult) toCompany() entity.Company {
	name := r.NomComplet
	if name == "" {
		name = r.NomRaisonSoc
	}
	if name == "" {
		name = "Nom inconnu"
	}

	return entity.Company{
		Name:       name,
		Siren:      r.Siren,
		NAF:        r.Activite,
		Sector:     r.LibelleActivite,
		Address:    r.Siege.Adresse,
		PostalCode: r.Siege.CodePostal,
		City:       r.Siege.Commune,
		Latitude:   parseCoordinate(r.Siege.Latitude),
		Longitude:  parseCoordinate(r.Siege.Longitude),
		Contacts:   []entity.Contact{},
	}
}

func parseCoordinate(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
