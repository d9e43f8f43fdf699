package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/octobees/prospector/internal/entity"
)

func TestFullEnrichCompanySubmissionIsFireAndForget(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer fe-key" {
			t.Errorf("missing bearer token, got %q", got)
		}
		var payload fullEnrichPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if len(payload.Datas) != 1 || payload.Datas[0].Domain != "martin.fr" {
			t.Errorf("unexpected datas: %+v", payload.Datas)
		}
		if payload.Datas[0].Custom["source_company_siren"] != "123456789" {
			t.Errorf("siren not threaded through custom fields: %+v", payload.Datas[0].Custom)
		}
		// Async accounts answer with a job handle only.
		fmt.Fprint(w, `{"enrichment_id":"job-1"}`)
	})

	fe := NewFullEnrich(nil, "fe-key", WithFullEnrichBaseURL(srv.URL))
	contacts := fe.Enrich(context.Background(), testCompany("https://www.martin.fr"))

	if len(contacts) != 0 {
		t.Fatalf("async submission should yield no contacts, got %+v", contacts)
	}
	if *calls != 1 {
		t.Fatalf("expected exactly one submission, made %d", *calls)
	}
}

func TestFullEnrichKeepsSynchronousRecords(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"datas":[{"contact":{
			"first_name":"Luc","last_name":"Bernard","title":"DG",
			"emails":["luc@martin.fr",{"email":"l.bernard@martin.fr"}],
			"phones":["+33698765432"]
		}}]}`)
	})

	fe := NewFullEnrich(nil, "fe-key", WithFullEnrichBaseURL(srv.URL))
	contacts := fe.Enrich(context.Background(), testCompany("https://martin.fr"))

	if len(contacts) != 2 {
		t.Fatalf("expected one contact per mailbox, got %d: %+v", len(contacts), contacts)
	}
	for _, c := range contacts {
		if c.Name != "Luc Bernard" || c.Source != entity.SourceFullEnrich || c.Confidence != entity.ConfidenceHigh {
			t.Fatalf("unexpected contact: %+v", c)
		}
	}
}

func TestFullEnrichSkipsWithoutWebsiteOrCredential(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})

	fe := NewFullEnrich(nil, "fe-key", WithFullEnrichBaseURL(srv.URL))
	if got := fe.Enrich(context.Background(), testCompany("")); got != nil {
		t.Fatalf("expected nil without website, got %+v", got)
	}

	noKey := NewFullEnrich(nil, "", WithFullEnrichBaseURL(srv.URL))
	if got := noKey.Enrich(context.Background(), testCompany("https://martin.fr")); got != nil {
		t.Fatalf("expected nil without credential, got %+v", got)
	}
	if *calls != 0 {
		t.Fatalf("expected no network calls, made %d", *calls)
	}
}

func TestEnrichPersonParsesNestedRecords(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload fullEnrichPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if payload.Datas[0].Firstname != "Jean" || payload.Datas[0].Lastname != "Dupont" {
			t.Errorf("person not forwarded: %+v", payload.Datas[0])
		}
		fmt.Fprint(w, `{"results":[{"enriched_contact":{
			"personal_emails":[{"value":"jean.dupont@gmail.com"}],
			"linkedin_url":"https://linkedin.com/in/jdupont"
		}}]}`)
	})

	fe := NewFullEnrich(nil, "fe-key", WithFullEnrichBaseURL(srv.URL))
	contacts, err := fe.EnrichPerson(context.Background(), PersonRequest{
		Firstname: "Jean",
		Lastname:  "Dupont",
		Domain:    "martin.fr",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	// The request's own name backfills records that omit it.
	if contacts[0].Name != "Jean Dupont" || contacts[0].Email != "jean.dupont@gmail.com" {
		t.Fatalf("unexpected contact: %+v", contacts[0])
	}
}

func TestEnrichPersonSurfacesFailures(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		fe := NewFullEnrich(nil, "")
		if _, err := fe.EnrichPerson(context.Background(), PersonRequest{Firstname: "A", Lastname: "B"}); !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("expected ErrMissingCredential, got %v", err)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"code":"INVALID_ENRICH_FIELDS"}`)
		})
		fe := NewFullEnrich(nil, "fe-key", WithFullEnrichBaseURL(srv.URL))
		if _, err := fe.EnrichPerson(context.Background(), PersonRequest{Firstname: "A", Lastname: "B"}); err == nil {
			t.Fatal("expected upstream error to surface")
		}
	})
}

func TestTruncateRespectsRuneBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii untouched", "Quincaillerie", 80, "Quincaillerie"},
		{"long ascii capped", strings.Repeat("a", 90), 80, strings.Repeat("a", 80)},
		{"accent at boundary kept whole", strings.Repeat("é", 90), 80, strings.Repeat("é", 80)},
		{"multibyte under rune cap", "Société Générale", 80, "Société Générale"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.max)
			if got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
