package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/entity"
)

// ErrorResponse is the failure envelope shared by every endpoint. Data is
// always present so clients can iterate it without a nil check.
type ErrorResponse struct {
	Error string                   `json:"error"`
	Data  []entity.EnrichedCompany `json:"data"`
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{
		Error: message,
		Data:  []entity.EnrichedCompany{},
	})
}
