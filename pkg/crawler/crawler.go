package crawler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/contactsmith/contactsmith/internal/models"
	"github.com/contactsmith/contactsmith/pkg/extractor"
)

// ErrConfiguration marks a fatal pre-flight failure: the run aborts
// before the first fetch and no snapshot is produced.
var ErrConfiguration = errors.New("invalid crawl configuration")

// Options contains configuration for one crawl run.
type Options struct {
	MaxDepth        int           // depth ceiling for general links
	LinksPerPage    int           // cap on general links enqueued per page
	MaxPages        int           // total page budget
	Budget          time.Duration // wall-clock budget for the run
	MinDelay        time.Duration // floor of the per-domain delay band
	MaxDelay        time.Duration // ceiling of the per-domain delay band
	RequestTimeout  time.Duration
	MaxWorkers      int
	RequestsPerSec  int
	UserAgent       string // empty rotates through a browser UA pool
	FollowRobotsTxt bool
}

func (o *Options) applyDefaults() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = 2
	}
	if o.LinksPerPage <= 0 {
		o.LinksPerPage = 10
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 40
	}
	if o.Budget <= 0 {
		o.Budget = 60 * time.Second
	}
	if o.MinDelay <= 0 {
		o.MinDelay = 500 * time.Millisecond
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = 3 * o.MinDelay
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 15 * time.Second
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = 4
	}
	if o.RequestsPerSec <= 0 {
		o.RequestsPerSec = 5
	}
}

// domainState serializes fetches to one domain and carries its adaptive
// delay factor.
type domainState struct {
	mu       sync.Mutex
	lastDone time.Time
	backoff  float64
}

const (
	backoffFloor   = 1.0
	backoffCeiling = 4.0
	slowResponse   = 2 * time.Second
)

// Crawler runs one bounded, polite contact-discovery crawl from a single
// seed URL. Create one per company; a Crawler is not reusable across
// runs.
type Crawler struct {
	seed    *url.URL
	company string
	domains map[string]bool
	opts    Options

	fetcher Fetcher
	extract *extractor.Extractor
	robots  *robotsCache
	limiter *rate.Limiter
	logger  *log.Logger

	frontier *frontier
	agg      *aggregator

	visitedMu sync.Mutex
	visited   map[string]bool

	gateMu sync.Mutex
	gates  map[string]*domainState

	pending      int64
	pagesFetched int64
	exhausted    atomic.Bool
}

// New creates a crawler for one seed URL. The internal-domain set is
// derived from the seed's host with any leading www stripped, plus the
// registrable domain when one can be determined.
func New(seedURL, company string, opts Options) (*Crawler, error) {
	opts.applyDefaults()

	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: seed URL %q must be http or https", ErrConfiguration, seedURL)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: seed URL %q has no host", ErrConfiguration, seedURL)
	}

	// Normalize so the seed and links resolved against it compare equal.
	if u.Path == "" {
		u.Path = "/"
	}
	u.Fragment = ""

	host := strings.ToLower(u.Hostname())
	domains := map[string]bool{
		host:                             true,
		strings.TrimPrefix(host, "www."): true,
	}
	if root, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		domains[root] = true
	}

	client := &http.Client{Timeout: opts.RequestTimeout}

	return &Crawler{
		seed:     u,
		company:  company,
		domains:  domains,
		opts:     opts,
		fetcher:  newHTTPFetcher(opts.RequestTimeout, opts.UserAgent),
		extract:  extractor.New(),
		robots:   newRobotsCache(client, opts.UserAgent),
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "crawler"}),
		frontier: newFrontier(),
		agg:      newAggregator(),
		visited:  make(map[string]bool),
		gates:    make(map[string]*domainState),
	}, nil
}

// SetFetcher replaces the HTTP fetcher. Used by tests and callers that
// need custom transport behavior.
func (c *Crawler) SetFetcher(f Fetcher) { c.fetcher = f }

// SetLogger replaces the default logger.
func (c *Crawler) SetLogger(logger *log.Logger) { c.logger = logger }

// Run executes the crawl to a terminal state and returns the aggregated
// snapshot. A partial snapshot with StatusTimedOut is a valid outcome,
// not an error; run-level errors are a bad seed or cancellation of the
// caller's context.
func (c *Crawler) Run(ctx context.Context) (*models.CrawlResult, error) {
	start := time.Now()

	if _, err := net.LookupHost(c.seed.Hostname()); err != nil {
		return nil, fmt.Errorf("%w: cannot resolve seed host %q: %v", ErrConfiguration, c.seed.Hostname(), err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.opts.Budget)
	defer cancel()

	c.enqueue(frontierEntry{URL: c.seed.String(), Role: RoleHomepage, Depth: 0})

	g := new(errgroup.Group)
	for i := 0; i < c.opts.MaxWorkers; i++ {
		g.Go(func() error {
			c.worker(runCtx)
			return nil
		})
	}
	g.Wait()

	status := models.StatusCompleted
	switch {
	case c.exhausted.Load():
		status = models.StatusBudgetExhausted
	case ctx.Err() != nil:
		// The caller canceled; that is not a crawl outcome.
		return nil, ctx.Err()
	case runCtx.Err() != nil:
		status = models.StatusTimedOut
	}

	c.logger.Info("crawl finished",
		"seed", c.seed.String(),
		"status", string(status),
		"pages", atomic.LoadInt64(&c.pagesFetched),
		"duration", time.Since(start))

	return &models.CrawlResult{
		Company:   c.company,
		SeedURL:   c.seed.String(),
		Status:    status,
		Snapshot:  c.agg.snapshot(),
		StartedAt: start,
		Duration:  time.Since(start),
	}, nil
}

func (c *Crawler) worker(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		entry, ok := c.frontier.pop()
		if !ok {
			if atomic.LoadInt64(&c.pending) == 0 {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(25 * time.Millisecond):
			}
			continue
		}
		c.process(ctx, entry)
		atomic.AddInt64(&c.pending, -1)
	}
}

// enqueue pushes a frontier entry, tracking it in the pending count so
// workers know when the run has drained.
func (c *Crawler) enqueue(entry frontierEntry) bool {
	if !c.frontier.push(entry) {
		return false
	}
	atomic.AddInt64(&c.pending, 1)
	return true
}

func (c *Crawler) process(ctx context.Context, entry frontierEntry) {
	u, err := url.Parse(entry.URL)
	if err != nil {
		return
	}

	if !c.markVisited(entry.URL) {
		return
	}

	if c.opts.FollowRobotsTxt && !c.robots.allowed(ctx, u) {
		c.logger.Debug("disallowed by robots policy", "url", entry.URL)
		return
	}

	// Reserve the page-budget slot before fetching; the slot is returned
	// if the fetch never completes. Reserving up front keeps concurrent
	// workers from overshooting the budget.
	reserved := atomic.AddInt64(&c.pagesFetched, 1)
	if reserved > int64(c.opts.MaxPages) {
		atomic.AddInt64(&c.pagesFetched, -1)
		c.exhausted.Store(true)
		return
	}

	if err := c.limiter.Wait(ctx); err != nil {
		atomic.AddInt64(&c.pagesFetched, -1)
		return
	}

	release, ok := c.acquireDomain(ctx, u.Hostname())
	if !ok {
		atomic.AddInt64(&c.pagesFetched, -1)
		return
	}
	fetchStart := time.Now()
	res, err := c.fetcher.Fetch(ctx, entry.URL)
	release(time.Since(fetchStart))

	if err != nil {
		atomic.AddInt64(&c.pagesFetched, -1)
		c.logger.Warn("fetch failed, dropping page", "url", entry.URL, "error", err)
		return
	}

	finalURL := res.FinalURL
	if finalURL != entry.URL {
		c.markVisited(finalURL)
	}

	c.agg.recordPageVisited(finalURL)
	if entry.Role == RoleContact {
		c.agg.recordContactPage(finalURL)
	}

	facts, links := c.extract.Extract(res.Body, finalURL)
	c.agg.record(facts)

	c.logger.Debug("page processed",
		"url", finalURL,
		"role", entry.Role.String(),
		"depth", entry.Depth,
		"emails", len(facts.Emails),
		"phones", len(facts.Phones),
		"names", len(facts.Names))

	// At the cap, leftover frontier entries drain through the reservation
	// check without fetching; in-flight pages are allowed to finish.
	if reserved >= int64(c.opts.MaxPages) {
		c.exhausted.Store(true)
		return
	}

	contactLinks, internalLinks := classifyLinks(links, c.domains)

	// Contact links are always enqueued, regardless of the depth budget.
	for _, link := range contactLinks {
		c.enqueue(frontierEntry{URL: link, Role: RoleContact, Depth: entry.Depth + 1})
	}

	// Contact pages classify their own links but spawn no further
	// general discovery; general pages stop discovering at the depth
	// ceiling.
	if entry.Role == RoleContact || entry.Depth >= c.opts.MaxDepth {
		return
	}
	accepted := 0
	for _, link := range internalLinks {
		if accepted >= c.opts.LinksPerPage {
			break
		}
		if c.enqueue(frontierEntry{URL: link, Role: RoleGeneral, Depth: entry.Depth + 1}) {
			accepted++
		}
	}
}

// markVisited records a URL as fetched. Returns false if it was already
// visited, enforcing at-most-once fetch across the run.
func (c *Crawler) markVisited(url string) bool {
	c.visitedMu.Lock()
	defer c.visitedMu.Unlock()
	if c.visited[url] {
		return false
	}
	c.visited[url] = true
	return true
}

// acquireDomain takes the per-domain gate, waiting out the randomized
// inter-request delay. The returned release function must be called with
// the fetch latency; it feeds the adaptive backoff.
func (c *Crawler) acquireDomain(ctx context.Context, host string) (func(time.Duration), bool) {
	state := c.gate(host)
	state.mu.Lock()

	if !state.lastDone.IsZero() {
		band := c.opts.MaxDelay - c.opts.MinDelay
		delay := c.opts.MinDelay
		if band > 0 {
			delay += time.Duration(rand.Int63n(int64(band)))
		}
		delay = time.Duration(float64(delay) * state.backoff)
		if wait := delay - time.Since(state.lastDone); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				state.mu.Unlock()
				return nil, false
			}
		}
	}

	release := func(latency time.Duration) {
		if latency > slowResponse {
			state.backoff *= 1.5
			if state.backoff > backoffCeiling {
				state.backoff = backoffCeiling
			}
		} else {
			state.backoff *= 0.85
			if state.backoff < backoffFloor {
				state.backoff = backoffFloor
			}
		}
		state.lastDone = time.Now()
		state.mu.Unlock()
	}
	return release, true
}

func (c *Crawler) gate(host string) *domainState {
	c.gateMu.Lock()
	defer c.gateMu.Unlock()
	state, ok := c.gates[host]
	if !ok {
		state = &domainState{backoff: backoffFloor}
		c.gates[host] = state
	}
	return state
}
