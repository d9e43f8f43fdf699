package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/provider"
)

type stubPersonEnricher struct {
	contacts []entity.Contact
	err      error
	got      dto.EnrichContactRequest
}

func (s *stubPersonEnricher) EnrichPerson(ctx context.Context, req dto.EnrichContactRequest) ([]entity.Contact, error) {
	s.got = req
	return s.contacts, s.err
}

func TestEnrichContactHandlerSuccess(t *testing.T) {
	stub := &stubPersonEnricher{contacts: []entity.Contact{
		{Name: "Jean Dupont", Email: "jean@martin.fr", Source: entity.SourceFullEnrich, Confidence: entity.ConfidenceHigh},
	}}
	h := NewEnrichContactHandler(stub)

	e := echo.New()
	c, rec := postJSON(e, "/enrich-contact", `{"firstname":"Jean","lastname":"Dupont","domain":"martin.fr"}`)
	if err := h.Enrich(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.got.Firstname != "Jean" || stub.got.Domain != "martin.fr" {
		t.Fatalf("request not forwarded: %+v", stub.got)
	}

	var payload dto.EnrichContactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.OK || len(payload.Data) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestEnrichContactHandlerEmptyResultIsOK(t *testing.T) {
	h := NewEnrichContactHandler(&stubPersonEnricher{})

	e := echo.New()
	c, rec := postJSON(e, "/enrich-contact", `{"firstname":"Jean","lastname":"Dupont","company_name":"Martin"}`)
	if err := h.Enrich(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload dto.EnrichContactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.OK || payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected ok with empty data array, got %s", rec.Body.String())
	}
}

func TestEnrichContactHandlerValidation(t *testing.T) {
	h := NewEnrichContactHandler(&stubPersonEnricher{})
	e := echo.New()

	cases := []struct {
		name string
		body string
	}{
		{"missing lastname", `{"firstname":"Jean","domain":"martin.fr"}`},
		{"missing company hint", `{"firstname":"Jean","lastname":"Dupont"}`},
		{"whitespace only", `{"firstname":" ","lastname":"Dupont","domain":"martin.fr"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(e, "/enrich-contact", tc.body)
			if err := h.Enrich(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestEnrichContactHandlerProviderErrors(t *testing.T) {
	e := echo.New()

	t.Run("missing credential", func(t *testing.T) {
		h := NewEnrichContactHandler(&stubPersonEnricher{err: provider.ErrMissingCredential})
		c, rec := postJSON(e, "/enrich-contact", `{"firstname":"Jean","lastname":"Dupont","domain":"martin.fr"}`)
		if err := h.Enrich(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		h := NewEnrichContactHandler(&stubPersonEnricher{err: errors.New("timeout")})
		c, rec := postJSON(e, "/enrich-contact", `{"firstname":"Jean","lastname":"Dupont","domain":"martin.fr"}`)
		if err := h.Enrich(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})
}
