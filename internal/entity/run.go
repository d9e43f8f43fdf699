package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderAttempt records one provider invocation within an enrichment run.
type ProviderAttempt struct {
	Provider  Source    `json:"provider"`
	Succeeded bool      `json:"succeeded"`
	Contacts  int       `json:"contacts"`
	At        time.Time `json:"at"`
}

// EnrichmentRun is the per-company audit trail of a prospect request: which
// providers were attempted, in which order, and how much premium quota the
// company consumed. It is request-scoped and discarded with the response.
type EnrichmentRun struct {
	ID            uuid.UUID         `json:"id"`
	Siren         string            `json:"siren"`
	Attempts      []ProviderAttempt `json:"attempts"`
	QuotaConsumed int               `json:"quota_consumed"`
	StartedAt     time.Time         `json:"started_at"`
}

// NewEnrichmentRun starts an audit trail for one company.
func NewEnrichmentRun(siren string) *EnrichmentRun {
	return &EnrichmentRun{
		ID:        uuid.New(),
		Siren:     siren,
		StartedAt: time.Now(),
	}
}

// Record appends a provider attempt to the trail.
func (r *EnrichmentRun) Record(provider Source, contacts int, succeeded bool) {
	r.Attempts = append(r.Attempts, ProviderAttempt{
		Provider:  provider,
		Succeeded: succeeded,
		Contacts:  contacts,
		At:        time.Now(),
	})
}
