package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/domain"
	"github.com/hamed0406/uptimehistory/internal/history"
	"github.com/hamed0406/uptimehistory/internal/probe"
	"github.com/hamed0406/uptimehistory/internal/repo/memory"
	"github.com/hamed0406/uptimehistory/internal/sites"
)

// --- fakes ---

type staticSites []sites.Site

func (s staticSites) List() []sites.Site { return s }

type countingProber struct {
	mu       sync.Mutex
	seen     map[string]int
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (p *countingProber) Check(ctx context.Context, url string) bool {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		m := p.maxSeen.Load()
		if n <= m || p.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		panic("probe context without deadline")
	}
	time.Sleep(p.delay)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen == nil {
		p.seen = map[string]int{}
	}
	p.seen[url]++
	return true
}

func (p *countingProber) count(url string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen[url]
}

// hangingChecker never answers before its context is done.
type hangingChecker struct{}

func (hangingChecker) Check(ctx context.Context, _ probe.Target) probe.CheckResult {
	<-ctx.Done()
	return probe.CheckResult{Message: ctx.Err().Error()}
}

// --- tests ---

func TestRechecker_RunOnce_ProbesEverySiteWithBoundedConcurrency(t *testing.T) {
	list := staticSites{
		{Name: "a", URL: "https://a.example"},
		{Name: "b", URL: "https://b.example"},
		{Name: "c", URL: "https://c.example"},
		{Name: "d", URL: "https://d.example"},
		{Name: "e", URL: "https://e.example"},
	}
	p := &countingProber{delay: 20 * time.Millisecond}
	rc := NewRechecker(zap.NewNop(), list, p, time.Minute, time.Second, 2)

	rc.RunOnce(context.Background())

	for _, s := range list {
		if got := p.count(s.URL); got != 1 {
			t.Fatalf("%s probed %d times, want 1", s.URL, got)
		}
	}
	if m := p.maxSeen.Load(); m > 2 {
		t.Fatalf("concurrency limit exceeded: %d in flight", m)
	}
}

func TestRechecker_RunLoop_ImmediatePassAndTicks(t *testing.T) {
	p := &countingProber{}
	rc := NewRechecker(zap.NewNop(), staticSites{{URL: "https://example.com"}}, p, 5*time.Millisecond, 200*time.Millisecond, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { rc.Run(ctx); close(done) }()

	deadline := time.Now().Add(2 * time.Second)
	for p.count("https://example.com") < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected repeated passes, got %d", p.count("https://example.com"))
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRechecker_DisabledReturnsImmediately(t *testing.T) {
	p := &countingProber{}
	rc := NewRechecker(zap.NewNop(), staticSites{{URL: "https://example.com"}}, p, 0, 0, 0)
	rc.Run(context.Background())
	if p.count("https://example.com") != 0 {
		t.Fatal("disabled rechecker should not probe")
	}
	if rc.Concurrency != 1 || rc.Timeout != 10*time.Second {
		t.Fatalf("defaults not applied: %+v", rc)
	}
}

func TestRechecker_UsesCurrentRegistryContents(t *testing.T) {
	reg := sites.NewRegistry([]sites.Site{{URL: "https://old.example"}})
	p := &countingProber{}
	rc := NewRechecker(zap.NewNop(), reg, p, time.Minute, time.Second, 1)

	rc.RunOnce(context.Background())
	reg.Set([]sites.Site{{URL: "https://new.example"}})
	rc.RunOnce(context.Background())

	if p.count("https://old.example") != 1 || p.count("https://new.example") != 1 {
		t.Fatalf("unexpected probes: %+v", p.seen)
	}
}

func TestRechecker_RunOnce_RecordsOutcomeWhenCheckOutlivesTimeout(t *testing.T) {
	store := memory.New()
	svc := history.NewService(zap.NewNop(), store, hangingChecker{})
	list := staticSites{{Name: "slow", URL: "https://slow.example", TimeoutMS: 10000}}
	rc := NewRechecker(zap.NewNop(), list, svc, time.Minute, 100*time.Millisecond, 1)

	rc.RunOnce(context.Background())

	raw, ok, err := store.Get(context.Background(), domain.Key("https://slow.example"))
	if err != nil || !ok {
		t.Fatalf("timeline not stored: ok=%v err=%v", ok, err)
	}
	tl, err := domain.DecodeTimeline(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tl) != 1 || tl[0].Status != domain.StatusUnavailable {
		t.Fatalf("got %+v, want one down record", tl)
	}
}
