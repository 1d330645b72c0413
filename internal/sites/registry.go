package sites

import (
	"sync"

	"github.com/hamed0406/uptimehistory/internal/domain"
	"github.com/hamed0406/uptimehistory/internal/probe"
)

// Registry is the process-wide, concurrency-safe site list.
type Registry struct {
	mu    sync.RWMutex
	list  []Site
	byURL map[string]Site
}

func NewRegistry(list []Site) *Registry {
	r := &Registry{}
	r.Set(list)
	return r
}

// Set replaces the whole list.
func (r *Registry) Set(list []Site) {
	byURL := make(map[string]Site, len(list))
	cp := make([]Site, len(list))
	for i, s := range list {
		s.URL = domain.NormalizeURL(s.URL)
		cp[i] = s
		byURL[s.URL] = s
	}
	r.mu.Lock()
	r.list = cp
	r.byURL = byURL
	r.mu.Unlock()
}

// List returns a copy of the configured sites in file order.
func (r *Registry) List() []Site {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Site, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Registry) Lookup(url string) (Site, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byURL[domain.NormalizeURL(url)]
	return s, ok
}

// Target returns the probe settings for url. Unknown URLs get a bare target
// with checker defaults.
func (r *Registry) Target(url string) probe.Target {
	s, ok := r.Lookup(url)
	if !ok {
		return probe.Target{URL: url}
	}
	return probe.Target{
		URL:            s.URL,
		ExpectedStatus: s.ExpectedStatusCode,
		Timeout:        s.Timeout(),
	}
}
