package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/geo"
	middleware "github.com/octobees/prospector/internal/middleware"
	"github.com/octobees/prospector/internal/service"
)

// Prospector runs the full prospection pipeline for one request.
type Prospector interface {
	Prospect(ctx context.Context, req dto.ProspectRequest) (*dto.ProspectResponse, error)
}

// ProspectHandler exposes the prospection pipeline over HTTP.
type ProspectHandler struct {
	prospector Prospector
}

// NewProspectHandler constructs the prospect handler.
func NewProspectHandler(prospector Prospector) *ProspectHandler {
	return &ProspectHandler{prospector: prospector}
}

// Run handles POST /prospect requests.
func (h *ProspectHandler) Run(c echo.Context) error {
	var req dto.ProspectRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.NAFCode = strings.TrimSpace(req.NAFCode)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	req.Location = strings.TrimSpace(req.Location)

	if req.CompanyName == "" && req.NAFCode == "" {
		return Error(c, http.StatusBadRequest, "companyName or nafCode is required")
	}
	if req.AnchorPostalCode() == "" {
		return Error(c, http.StatusBadRequest, "postalCode is required")
	}
	if req.RadiusKm < 0 {
		return Error(c, http.StatusBadRequest, "radiusKm must be positive")
	}

	resp, err := h.prospector.Prospect(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingIndustryCode):
			return Error(c, http.StatusBadRequest, "no industry code found for this company")
		case errors.Is(err, geo.ErrUnknownPostalCode):
			return Error(c, http.StatusBadRequest, "postal code could not be located")
		default:
			log.Printf("request_id=%s prospect failed: %v", middleware.RequestIDFromContext(c), err)
			return Error(c, http.StatusInternalServerError, "prospection failed")
		}
	}

	return c.JSON(http.StatusOK, resp)
}
