// Package geo converts a postal code plus a radius into the set of postal
// codes covering that radius, by geocoding the anchor and asking the
// administrative-boundary API for every municipality around it.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/octobees/prospector/internal/normalize"
)

const (
	defaultGeocodeBaseURL  = "https://api-adresse.data.gouv.fr"
	defaultCommunesBaseURL = "https://geo.api.gouv.fr"

	// MaxRadiusKm is the hard ceiling applied regardless of caller input.
	MaxRadiusKm = 1000
)

// ErrUnknownPostalCode marks a postal code the geocoder cannot anchor. The
// whole run fails on it: without an anchor there is no radius to search.
var ErrUnknownPostalCode = errors.New("unknown postal code")

// Expander resolves radius searches against the public geocoding APIs.
type Expander struct {
	httpClient      *http.Client
	geocodeBaseURL  string
	communesBaseURL string
}

// Option configures the expander.
type Option func(*Expander)

// WithGeocodeBaseURL overrides the geocoding endpoint, used by tests.
func WithGeocodeBaseURL(base string) Option {
	return func(e *Expander) {
		e.geocodeBaseURL = base
	}
}

// WithCommunesBaseURL overrides the administrative-boundary endpoint, used by tests.
func WithCommunesBaseURL(base string) Option {
	return func(e *Expander) {
		e.communesBaseURL = base
	}
}

// NewExpander builds an expander with a bounded-timeout HTTP client.
func NewExpander(httpClient *http.Client, opts ...Option) *Expander {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	e := &Expander{
		httpClient:      httpClient,
		geocodeBaseURL:  defaultGeocodeBaseURL,
		communesBaseURL: defaultCommunesBaseURL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns the deduplicated postal codes of every municipality within
// radiusKm of the given postal code. The input code is normalized first and
// the radius clamped to MaxRadiusKm.
func (e *Expander) Expand(ctx context.Context, postalCode string, radiusKm int) ([]string, error) {
	normalized := normalize.PostalCode(postalCode)
	if radiusKm > MaxRadiusKm {
		radiusKm = MaxRadiusKm
	}
	if radiusKm <= 0 {
		radiusKm = 1
	}

	lat, lon, err := e.geocode(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return e.communePostalCodes(ctx, lat, lon, radiusKm*1000)
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (e *Expander) geocode(ctx context.Context, postalCode string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("q", postalCode)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.geocodeBaseURL+"/search/?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, 0, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(payload.Features) == 0 || len(payload.Features[0].Geometry.Coordinates) < 2 {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownPostalCode, postalCode)
	}

	coords := payload.Features[0].Geometry.Coordinates
	// GeoJSON order is [longitude, latitude].
	return coords[1], coords[0], nil
}

type commune struct {
	Code         string   `json:"code"`
	Nom          string   `json:"nom"`
	CodesPostaux []string `json:"codesPostaux"`
}

func (e *Expander) communePostalCodes(ctx context.Context, lat, lon float64, radiusMeters int) ([]string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("fields", "code,nom,codesPostaux")
	q.Set("format", "json")
	q.Set("geometry", "centre")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.communesBaseURL+"/communes?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build communes request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("communes request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("communes status %d", resp.StatusCode)
	}

	var communes []commune
	if err := json.NewDecoder(resp.Body).Decode(&communes); err != nil {
		return nil, fmt.Errorf("decode communes response: %w", err)
	}

	seen := make(map[string]bool)
	var codes []string
	for _, c := range communes {
		for _, cp := range c.CodesPostaux {
			if cp == "" || seen[cp] {
				continue
			}
			seen[cp] = true
			codes = append(codes, cp)
		}
	}
	return codes, nil
}
