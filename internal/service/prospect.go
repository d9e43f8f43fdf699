// Package service hosts the enrichment orchestrator: the waterfall of
// provider calls that turns a registry company into an enriched lead.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
	"github.com/octobees/prospector/internal/provider"
	"github.com/octobees/prospector/internal/quota"
)

const (
	// DefaultRadiusKm applies when the caller omits the radius.
	DefaultRadiusKm = 100
	// peerSearchCap bounds how many registry rows are accumulated across
	// postal codes before filtering.
	peerSearchCap = 200
	// peerEnrichCap bounds how many companies go through the waterfall.
	peerEnrichCap = 15
	// batchSearchThreshold gates the people-search stage: it only runs when
	// the cheaper providers produced fewer contacts than this.
	batchSearchThreshold = 3
)

// ErrMissingIndustryCode is returned when neither the request nor the
// resolved target provides an activity code to search peers with.
var ErrMissingIndustryCode = errors.New("no industry code available")

// CompanyResolver resolves companies against the business registry.
type CompanyResolver interface {
	Resolve(ctx context.Context, name, postalCode string) *entity.Company
	FindPeers(ctx context.Context, naf string, postalCodes []string, maxTotal int) []entity.Company
}

// RadiusExpander converts a postal code and radius into covered postal codes.
type RadiusExpander interface {
	Expand(ctx context.Context, postalCode string, radiusKm int) ([]string, error)
}

// SiteEnricher fills company-level gaps (website, phone, address) before the
// contact waterfall runs.
type SiteEnricher interface {
	EnrichSite(ctx context.Context, company *entity.Company) bool
}

// PersonEnricher enriches one named individual.
type PersonEnricher interface {
	EnrichPerson(ctx context.Context, req provider.PersonRequest) ([]entity.Contact, error)
}

// Stage pairs a provider with the predicate deciding whether it runs. Stages
// execute in declaration order; predicates see the number of contacts
// collected so far, which is what makes the waterfall's early-exit gates
// explicit and testable.
type Stage struct {
	Provider provider.Provider
	// When nil, the stage always runs.
	When func(collected int) bool
	// ConsumesQuota marks the premium stage: its gate already claimed one
	// unit of the shared budget, which the run log accounts for.
	ConsumesQuota bool
}

// DefaultStages builds the canonical waterfall order: the domestic provider
// first, then scraping, then domain search, then people search once the
// cheaper stages left fewer than three contacts, and the premium provider as
// a last resort when nothing was found and budget remains. The premium gate
// claims its quota unit inside the predicate so that two concurrent runs can
// never both spend the last one.
func DefaultStages(dropcontact, scraper, hunter, rocketreach, premium provider.Provider, guard *quota.Guard) []Stage {
	return []Stage{
		{Provider: dropcontact},
		{Provider: scraper},
		{Provider: hunter},
		{Provider: rocketreach, When: func(collected int) bool { return collected < batchSearchThreshold }},
		{
			Provider:      premium,
			When:          func(collected int) bool { return collected == 0 && guard.TryConsume() },
			ConsumesQuota: true,
		},
	}
}

// ProspectService orchestrates the whole run: resolution, radius search and
// the per-company enrichment waterfall.
type ProspectService struct {
	resolver CompanyResolver
	expander RadiusExpander
	site     SiteEnricher
	stages   []Stage
	person   PersonEnricher

	// delay between two peer companies; throttling against the upstream
	// providers, not a correctness requirement.
	delay time.Duration
	sleep func(time.Duration)
}

// NewProspectService wires the orchestrator. The premium quota lives inside
// the stage gates, not here.
func NewProspectService(resolver CompanyResolver, expander RadiusExpander, site SiteEnricher, stages []Stage, person PersonEnricher, delay time.Duration) *ProspectService {
	return &ProspectService{
		resolver: resolver,
		expander: expander,
		site:     site,
		stages:   stages,
		person:   person,
		delay:    delay,
		sleep:    time.Sleep,
	}
}

// Prospect runs the full pipeline for one request. Validation errors are
// returned as ErrMissingIndustryCode or wrapped expander failures; resolution
// misses come back as a populated response with an explanatory message.
func (s *ProspectService) Prospect(ctx context.Context, req dto.ProspectRequest) (*dto.ProspectResponse, error) {
	var target *entity.Company
	if req.CompanyName != "" {
		target = s.resolver.Resolve(ctx, req.CompanyName, req.AnchorPostalCode())
		if target == nil {
			return &dto.ProspectResponse{
				Data:    []entity.EnrichedCompany{},
				Message: fmt.Sprintf("Entreprise %q introuvable", req.CompanyName),
			}, nil
		}
	}

	naf := strings.TrimSpace(req.NAFCode)
	if naf == "" && target != nil {
		naf = target.NAF
	}
	if naf == "" {
		return nil, ErrMissingIndustryCode
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}

	postalCodes, err := s.expander.Expand(ctx, req.AnchorPostalCode(), radius)
	if err != nil {
		// No geographic anchor means no run at all.
		return nil, fmt.Errorf("expand radius: %w", err)
	}
	log.Printf("prospect: naf=%s anchor=%s radius=%dkm postal_codes=%d", naf, req.AnchorPostalCode(), radius, len(postalCodes))

	peers := s.resolver.FindPeers(ctx, naf, postalCodes, peerSearchCap)
	total := len(peers)

	candidates := make([]entity.Company, 0, peerEnrichCap)
	for _, peer := range peers {
		if target != nil && peer.Siren == target.Siren {
			continue
		}
		candidates = append(candidates, peer)
		if len(candidates) >= peerEnrichCap {
			break
		}
	}

	if len(candidates) == 0 {
		resp := &dto.ProspectResponse{
			Data:    []entity.EnrichedCompany{},
			Target:  target,
			Total:   total,
			Message: "Aucune entreprise trouvée dans le rayon",
		}
		if target != nil {
			resp.Data = append(resp.Data, entity.EnrichedCompany{Company: *target, Sources: []string{string(entity.SourceRegistry)}})
		}
		return resp, nil
	}

	enriched := make([]entity.EnrichedCompany, 0, len(candidates))
	totalContacts := 0
	for i := range candidates {
		result := s.enrichCompany(ctx, &candidates[i])
		enriched = append(enriched, result)
		totalContacts += len(result.Contacts)
		s.sleep(s.delay)
	}

	return &dto.ProspectResponse{
		Data:    enriched,
		Target:  target,
		Total:   total,
		Message: fmt.Sprintf("%d entreprises enrichies avec %d contacts", len(enriched), totalContacts),
	}, nil
}

// enrichCompany drives one company through the state machine:
// PENDING -> SITE_ENRICHED -> CONTACTS_COLLECTED -> DEDUPED -> DONE.
// A panic inside a provider is contained here so one company never takes the
// batch down with it.
func (s *ProspectService) enrichCompany(ctx context.Context, company *entity.Company) (result entity.EnrichedCompany) {
	run := entity.NewEnrichmentRun(company.Siren)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("prospect: enrichment of %s panicked: %v", company.Siren, r)
			company.Contacts = []entity.Contact{noContactPlaceholder()}
			result = entity.EnrichedCompany{Company: *company, Sources: []string{string(entity.SourceRegistry)}}
		}
	}()

	// PENDING -> SITE_ENRICHED: brand overrides first, then Places fills the
	// remaining gaps without overwriting anything already known.
	if company.Website == nil {
		if site := normalize.BrandWebsite(company.Name); site != "" {
			company.Website = &site
		}
	}
	mapsContributed := s.site.EnrichSite(ctx, company)
	run.Record(entity.SourceGoogleMaps, 0, mapsContributed)

	// SITE_ENRICHED -> CONTACTS_COLLECTED: the waterfall proper. Stages run
	// in order; gates look at the running total, nothing else.
	var collected []entity.Contact
	for _, stage := range s.stages {
		if stage.When != nil && !stage.When(len(collected)) {
			continue
		}
		contacts := stage.Provider.Enrich(ctx, company)
		if stage.ConsumesQuota {
			run.QuotaConsumed++
		}
		run.Record(stage.Provider.Name(), len(contacts), len(contacts) > 0)
		collected = append(collected, contacts...)
	}

	// CONTACTS_COLLECTED -> DEDUPED.
	company.Contacts = DedupContacts(collected)
	if len(company.Contacts) == 0 {
		company.Contacts = []entity.Contact{noContactPlaceholder()}
	}

	// DEDUPED -> DONE: tag which sources contributed.
	sources := contributedSources(company.Contacts, mapsContributed)
	log.Printf("prospect: company=%s contacts=%d attempts=%d quota_used=%d", company.Siren, len(company.Contacts), len(run.Attempts), run.QuotaConsumed)

	return entity.EnrichedCompany{Company: *company, Sources: sources}
}

// EnrichPerson proxies the single-person path to the premium provider and
// normalizes the resulting phone numbers.
func (s *ProspectService) EnrichPerson(ctx context.Context, req dto.EnrichContactRequest) ([]entity.Contact, error) {
	contacts, err := s.person.EnrichPerson(ctx, provider.PersonRequest{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		CompanyName: req.CompanyName,
		Domain:      req.Domain,
		LinkedInURL: req.LinkedInURL,
	})
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if phone := normalize.Phone(contacts[i].Phone); phone != "" {
			contacts[i].Phone = phone
		}
	}
	return contacts, nil
}

// DedupContacts applies the retention rules: one contact per canonical email,
// at most one reception contact per normalized phone number, phones rewritten
// to their canonical form in place, and contacts carrying neither a name nor
// a coordinate dropped. The operation is idempotent.
func DedupContacts(in []entity.Contact) []entity.Contact {
	out := make([]entity.Contact, 0, len(in))
	seenEmails := make(map[string]bool)
	seenReceptionPhones := make(map[string]bool)

	for _, contact := range in {
		emailKey := normalize.Email(contact.Email)
		if phone := normalize.Phone(contact.Phone); phone != "" {
			contact.Phone = phone
		}

		if contact.Name == "" && !contact.HasCoordinates() {
			continue
		}
		if emailKey != "" && seenEmails[emailKey] {
			continue
		}
		if isReception(contact) && contact.Phone != "" {
			if seenReceptionPhones[contact.Phone] {
				continue
			}
			seenReceptionPhones[contact.Phone] = true
		}
		if emailKey != "" {
			seenEmails[emailKey] = true
		}

		out = append(out, contact)
	}
	return out
}

// isReception recognizes switchboard-style contacts, which are deduplicated
// by phone number rather than email.
func isReception(c entity.Contact) bool {
	name := strings.ToLower(c.Name)
	job := strings.ToLower(c.JobTitle)
	return strings.Contains(name, "standard") || strings.Contains(job, "standard") || strings.Contains(job, "accueil")
}

// noContactPlaceholder is the single allowed contact without coordinates,
// emitted when every provider came back empty.
func noContactPlaceholder() entity.Contact {
	return entity.Contact{
		Name:       "Aucun contact trouvé",
		Confidence: entity.ConfidenceLow,
	}
}

// sourceOrder fixes the display order of contributing providers.
var sourceOrder = []entity.Source{
	entity.SourceGoogleMaps,
	entity.SourceDropcontact,
	entity.SourceScraping,
	entity.SourceHunter,
	entity.SourceRocketReach,
	entity.SourceFullEnrich,
}

func contributedSources(contacts []entity.Contact, mapsContributed bool) []string {
	present := make(map[entity.Source]bool)
	for _, c := range contacts {
		if c.Source != "" {
			present[c.Source] = true
		}
	}
	if mapsContributed {
		present[entity.SourceGoogleMaps] = true
	}

	sources := []string{string(entity.SourceRegistry)}
	for _, src := range sourceOrder {
		if present[src] {
			sources = append(sources, string(src))
		}
	}
	return sources
}
