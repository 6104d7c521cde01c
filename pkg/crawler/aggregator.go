package crawler

import (
	"sync"

	"github.com/contactsmith/contactsmith/internal/models"
	"github.com/contactsmith/contactsmith/pkg/extractor"
)

// aggregator is the single mutable result collection for one crawl run.
// Every record method is guarded by one mutex so page-processing workers
// never interleave partial writes. Entries are append-only; phones dedupe
// by normalized digits, emails by lower-cased address, everything else by
// exact string.
type aggregator struct {
	mu sync.Mutex

	emails      []string
	phones      []models.Phone
	names       []string
	addresses   []string
	socialLinks []string

	pagesScraped []string
	contactPages []string

	seenEmail   map[string]bool
	seenPhone   map[string]bool
	seenName    map[string]bool
	seenAddress map[string]bool
	seenSocial  map[string]bool
	seenPage    map[string]bool
	seenContact map[string]bool
}

func newAggregator() *aggregator {
	return &aggregator{
		seenEmail:   make(map[string]bool),
		seenPhone:   make(map[string]bool),
		seenName:    make(map[string]bool),
		seenAddress: make(map[string]bool),
		seenSocial:  make(map[string]bool),
		seenPage:    make(map[string]bool),
		seenContact: make(map[string]bool),
	}
}

// record merges one page's facts into the run's sets.
func (a *aggregator) record(facts extractor.Facts) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, email := range facts.Emails {
		if !a.seenEmail[email] {
			a.seenEmail[email] = true
			a.emails = append(a.emails, email)
		}
	}
	for _, phone := range facts.Phones {
		if !a.seenPhone[phone.Digits] {
			a.seenPhone[phone.Digits] = true
			a.phones = append(a.phones, phone)
		}
	}
	for _, name := range facts.Names {
		if !a.seenName[name] {
			a.seenName[name] = true
			a.names = append(a.names, name)
		}
	}
	for _, addr := range facts.Addresses {
		if !a.seenAddress[addr] {
			a.seenAddress[addr] = true
			a.addresses = append(a.addresses, addr)
		}
	}
	for _, link := range facts.SocialLinks {
		if !a.seenSocial[link] {
			a.seenSocial[link] = true
			a.socialLinks = append(a.socialLinks, link)
		}
	}
}

func (a *aggregator) recordPageVisited(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.seenPage[url] {
		a.seenPage[url] = true
		a.pagesScraped = append(a.pagesScraped, url)
	}
}

func (a *aggregator) recordContactPage(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.seenContact[url] {
		a.seenContact[url] = true
		a.contactPages = append(a.contactPages, url)
	}
}

// snapshot returns an independent copy of every set. Phones serialize as
// their display form; digits stay the dedup key.
func (a *aggregator) snapshot() models.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	phones := make([]string, len(a.phones))
	for i, p := range a.phones {
		phones[i] = p.Display
	}

	return models.Snapshot{
		Emails:       copyStrings(a.emails),
		Phones:       phones,
		Names:        copyStrings(a.names),
		Addresses:    copyStrings(a.addresses),
		SocialLinks:  copyStrings(a.socialLinks),
		PagesScraped: copyStrings(a.pagesScraped),
		ContactPages: copyStrings(a.contactPages),
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
