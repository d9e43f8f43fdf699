package provider

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/octobees/prospector/internal/entity"
)

func testCompany(website string) *entity.Company {
	c := &entity.Company{
		Name:       "Quincaillerie Martin",
		Siren:      "123456789",
		NAF:        "47.52B",
		City:       "Lyon",
		PostalCode: "69001",
	}
	if website != "" {
		c.Website = &website
	}
	return c
}

// countingServer records how many requests reached it.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}
