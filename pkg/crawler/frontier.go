package crawler

import "sync"

// PageRole tags how a frontier entry was discovered.
type PageRole int

const (
	// RoleHomepage is the seed page, depth 0.
	RoleHomepage PageRole = iota
	// RoleContact marks pages reached via a contact-priority link.
	RoleContact
	// RoleGeneral marks every other internal page.
	RoleGeneral
)

func (r PageRole) String() string {
	switch r {
	case RoleHomepage:
		return "homepage"
	case RoleContact:
		return "contact_candidate"
	default:
		return "general"
	}
}

// frontierEntry is one pending fetch.
type frontierEntry struct {
	URL   string
	Role  PageRole
	Depth int
}

// frontier is a two-tier FIFO queue: contact-priority entries always pop
// before general entries. A URL is accepted at most once for the life of
// the frontier, which breaks cycles in the link graph.
type frontier struct {
	mu       sync.Mutex
	contact  []frontierEntry
	general  []frontierEntry
	enqueued map[string]bool
}

func newFrontier() *frontier {
	return &frontier{enqueued: make(map[string]bool)}
}

// push adds an entry unless its URL was already enqueued during this run.
// Returns true if the entry was accepted.
func (f *frontier) push(entry frontierEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.enqueued[entry.URL] {
		return false
	}
	f.enqueued[entry.URL] = true

	if entry.Role == RoleContact || entry.Role == RoleHomepage {
		f.contact = append(f.contact, entry)
	} else {
		f.general = append(f.general, entry)
	}
	return true
}

// pop returns the next entry by priority tier, FIFO within a tier.
func (f *frontier) pop() (frontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.contact) > 0 {
		entry := f.contact[0]
		f.contact = f.contact[1:]
		return entry, true
	}
	if len(f.general) > 0 {
		entry := f.general[0]
		f.general = f.general[1:]
		return entry, true
	}
	return frontierEntry{}, false
}

func (f *frontier) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contact) + len(f.general)
}

// seen reports whether a URL was ever enqueued.
func (f *frontier) seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enqueued[url]
}
