package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	middleware "github.com/octobees/prospector/internal/middleware"
	"github.com/octobees/prospector/internal/provider"
)

// PersonEnricher enriches one named individual through the premium provider.
type PersonEnricher interface {
	EnrichPerson(ctx context.Context, req dto.EnrichContactRequest) ([]entity.Contact, error)
}

// EnrichContactHandler exposes single-person enrichment over HTTP.
type EnrichContactHandler struct {
	enricher PersonEnricher
}

// NewEnrichContactHandler constructs the enrich-contact handler.
func NewEnrichContactHandler(enricher PersonEnricher) *EnrichContactHandler {
	return &EnrichContactHandler{enricher: enricher}
}

// Enrich handles POST /enrich-contact requests.
func (h *EnrichContactHandler) Enrich(c echo.Context) error {
	var req dto.EnrichContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Firstname = strings.TrimSpace(req.Firstname)
	req.Lastname = strings.TrimSpace(req.Lastname)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.Domain = strings.TrimSpace(req.Domain)
	req.LinkedInURL = strings.TrimSpace(req.LinkedInURL)

	if req.Firstname == "" || req.Lastname == "" {
		return Error(c, http.StatusBadRequest, "firstname and lastname are required")
	}
	if req.CompanyName == "" && req.Domain == "" && req.LinkedInURL == "" {
		return Error(c, http.StatusBadRequest, "company_name, domain or linkedin_url is required")
	}

	contacts, err := h.enricher.EnrichPerson(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, provider.ErrMissingCredential) {
			return Error(c, http.StatusServiceUnavailable, "person enrichment is not configured")
		}
		log.Printf("request_id=%s enrich-contact failed: %v", middleware.RequestIDFromContext(c), err)
		return Error(c, http.StatusBadGateway, "enrichment provider unavailable")
	}

	if contacts == nil {
		contacts = []entity.Contact{}
	}
	return c.JSON(http.StatusOK, dto.EnrichContactResponse{OK: true, Data: contacts})
}
