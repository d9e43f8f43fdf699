// Package provider contains the adapters for the external enrichment
// services. Every adapter obeys the same contract: it takes a partially
// filled company, returns normalized contacts, and never lets a provider
// failure escape: missing credentials, network errors, bad statuses and
// malformed payloads all degrade to an empty contribution, logged for
// diagnostics.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/octobees/prospector/internal/entity"
)

// Provider is one contact source in the enrichment waterfall.
type Provider interface {
	Name() entity.Source
	// Enrich returns the provider's contacts for the company. It must not
	// fail: any internal error yields an empty slice.
	Enrich(ctx context.Context, company *entity.Company) []entity.Contact
}

const (
	defaultTimeout  = 10 * time.Second
	fallbackName    = "Contact à identifier"
	fallbackJob     = "Poste non renseigné"
	minDomainLength = 3
)

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// getJSON performs a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return doJSON(client, req, out)
}

// postJSON performs a POST with a JSON payload and decodes the JSON body into out.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return doJSON(client, req, out)
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, detail)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
