package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsCache fetches and parses a host's robots.txt once per crawl run.
// An unreachable or unparseable robots.txt permits everything, matching
// how well-behaved crawlers treat a missing policy.
type robotsCache struct {
	mu       sync.Mutex
	client   *http.Client
	agent    string
	policies map[string]*robotstxt.RobotsData
}

func newRobotsCache(client *http.Client, agent string) *robotsCache {
	return &robotsCache{
		client:   client,
		agent:    agent,
		policies: make(map[string]*robotstxt.RobotsData),
	}
}

// allowed reports whether the policy for u's host permits fetching its
// path.
func (r *robotsCache) allowed(ctx context.Context, u *url.URL) bool {
	policy := r.policy(ctx, u)
	if policy == nil {
		return true
	}
	return policy.TestAgent(u.Path, r.agent)
}

func (r *robotsCache) policy(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	r.mu.Lock()
	defer r.mu.Unlock()

	if policy, ok := r.policies[key]; ok {
		return policy
	}

	policy := r.fetch(ctx, key)
	r.policies[key] = policy
	return policy
}

func (r *robotsCache) fetch(ctx context.Context, base string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/robots.txt", base), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	policy, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return policy
}
