package provider

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

// Conventional contact-page paths, probed in order under the company website.
var contactPagePaths = []string{
	"/contact",
	"/nous-contacter",
	"/contactez-nous",
	"/contact.html",
	"/contacts",
	"/about",
	"/equipe",
	"/team",
}

const (
	scraperPageCap     = 5
	scraperPageTimeout = 5 * time.Second
	scraperUserAgent   = "Mozilla/5.0 (compatible; ProspectBot/1.0)"
	// phonesPerPageCap keeps noisy footers from flooding the result.
	phonesPerPageCap = 5
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// French dial strings: +33 / 0033 / leading 0, then 9 digits in pairs.
	frenchPhonePattern = regexp.MustCompile(`(?:(?:\+|00)33[\s.\-]{0,3}|0)[1-9](?:[\s.\-]?\d{2}){4}`)
)

// Scraper probes a fixed list of conventional contact pages on the company
// website, harvesting addresses that belong to the site's own domain and
// French phone numbers. Discovered emails and phones are paired positionally;
// leftover phones become standalone reception contacts.
type Scraper struct {
	httpClient *http.Client
}

// NewScraper builds the adapter. The per-page timeout is enforced via context
// regardless of the supplied client's own timeout.
func NewScraper(httpClient *http.Client) *Scraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: scraperPageTimeout}
	}
	return &Scraper{httpClient: httpClient}
}

// Name implements Provider.
func (s *Scraper) Name() entity.Source { return entity.SourceScraping }

// Enrich implements Provider. Requires a website; skips silently without one.
// Each page failure is swallowed so one dead URL never costs the others.
func (s *Scraper) Enrich(ctx context.Context, company *entity.Company) []entity.Contact {
	if company.Website == nil {
		return nil
	}
	website := strings.TrimRight(*company.Website, "/")
	domain := normalize.Domain(website)
	if len(domain) < minDomainLength {
		return nil
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}

	var (
		emails     []string
		phones     []string
		seenEmails = make(map[string]bool)
		seenPhones = make(map[string]bool)
	)

	paths := contactPagePaths
	if len(paths) > scraperPageCap {
		paths = paths[:scraperPageCap]
	}

	for _, path := range paths {
		pageEmails, pagePhones := s.scrapePage(ctx, website+path, domain)
		for _, e := range pageEmails {
			if !seenEmails[e] {
				seenEmails[e] = true
				emails = append(emails, e)
			}
		}
		for _, p := range pagePhones {
			if !seenPhones[p] {
				seenPhones[p] = true
				phones = append(phones, p)
			}
		}
	}

	return pairContacts(emails, phones)
}

func (s *Scraper) scrapePage(ctx context.Context, pageURL, domain string) (emails, phones []string) {
	pageCtx, cancel := context.WithTimeout(ctx, scraperPageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pageCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("scraper: parse %s failed: %v", pageURL, err)
		return nil, nil
	}

	// mailto: anchors are the most reliable signal; the raw markup catches
	// addresses rendered as plain text or hidden in attributes.
	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if addr = normalize.Email(addr); addr != "" && emailBelongsToDomain(addr, domain) {
			emails = append(emails, addr)
		}
	})

	raw, err := doc.Html()
	if err != nil {
		return dedupeStrings(emails), nil
	}

	for _, match := range emailPattern.FindAllString(raw, -1) {
		addr := normalize.Email(match)
		if addr != "" && emailBelongsToDomain(addr, domain) {
			emails = append(emails, addr)
		}
	}

	for _, match := range frenchPhonePattern.FindAllString(doc.Text(), -1) {
		if p := normalize.Phone(match); p != "" {
			phones = append(phones, p)
			if len(phones) >= phonesPerPageCap {
				break
			}
		}
	}

	return dedupeStrings(emails), dedupeStrings(phones)
}

// pairContacts matches the i-th email with the i-th phone, then emits the
// remaining phones as standalone reception contacts.
func pairContacts(emails, phones []string) []entity.Contact {
	var contacts []entity.Contact

	for i, email := range emails {
		contact := entity.Contact{
			Name:       "Contact commercial",
			JobTitle:   "Commercial/Support",
			Email:      email,
			Source:     entity.SourceScraping,
			Confidence: entity.ConfidenceHigh,
		}
		if i < len(phones) {
			contact.Phone = phones[i]
		}
		contacts = append(contacts, contact)
	}

	for i := len(emails); i < len(phones); i++ {
		contacts = append(contacts, entity.Contact{
			Name:       "Standard téléphonique",
			JobTitle:   "Accueil",
			Phone:      phones[i],
			Source:     entity.SourceScraping,
			Confidence: entity.ConfidenceMedium,
		})
	}

	return contacts
}

func emailBelongsToDomain(email, domain string) bool {
	return strings.HasSuffix(email, "@"+domain) || strings.HasSuffix(email, "."+domain) || strings.Contains(email, domain)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
