package queue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/metaqueue/pkg/logger"
	"github.com/dmitrymomot/metaqueue/pkg/preview"
	"github.com/dmitrymomot/metaqueue/pkg/queue"
)

const waitTimeout = 2 * time.Second

// MockQuota is a testify mock of queue.QuotaLimiter.
type MockQuota struct {
	mock.Mock
}

func (m *MockQuota) CheckLimit(ctx context.Context, operation string) (bool, error) {
	args := m.Called(ctx, operation)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuota) RecordUsage(ctx context.Context, operation string) error {
	return m.Called(ctx, operation).Error(0)
}

// gatedExtractor blocks every call until a token arrives on release and
// records how many calls were in flight at once.
type gatedExtractor struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       map[string]int
	fail        map[string]bool

	started chan string
	release chan struct{}
}

func newGatedExtractor(failing ...string) *gatedExtractor {
	g := &gatedExtractor{
		calls:   make(map[string]int),
		fail:    make(map[string]bool),
		started: make(chan string, 100),
		release: make(chan struct{}),
	}
	for _, name := range failing {
		g.fail[name] = true
	}
	return g
}

func (g *gatedExtractor) Extract(ctx context.Context, p queue.Payload) (queue.Metadata, error) {
	g.mu.Lock()
	g.inFlight++
	g.maxInFlight = max(g.maxInFlight, g.inFlight)
	g.calls[p.Name()]++
	g.mu.Unlock()

	g.started <- p.Name()
	<-g.release

	g.mu.Lock()
	g.inFlight--
	failing := g.fail[p.Name()]
	g.mu.Unlock()

	if failing {
		return nil, errors.New("corrupt header in " + p.Name())
	}
	return queue.Metadata{"name": p.Name()}, nil
}

// releaseAll unblocks every current and future call.
func (g *gatedExtractor) releaseAll() {
	close(g.release)
}

func (g *gatedExtractor) setFailing(name string, failing bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail[name] = failing
}

func (g *gatedExtractor) peak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxInFlight
}

func (g *gatedExtractor) callCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *gatedExtractor) waitStarted(t *testing.T) string {
	t.Helper()
	select {
	case name := <-g.started:
		return name
	case <-time.After(waitTimeout):
		t.Fatal("timeout waiting for extraction to start")
		return ""
	}
}

func (g *gatedExtractor) assertNoStart(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case name := <-g.started:
		t.Fatalf("unexpected extraction of %s", name)
	case <-time.After(d):
	}
}

var instant = queue.ExtractorFunc(func(_ context.Context, p queue.Payload) (queue.Metadata, error) {
	return queue.Metadata{"name": p.Name(), "size": p.Size()}, nil
})

func payloads(n int) []queue.Payload {
	out := make([]queue.Payload, n)
	for i := range n {
		out[i] = queue.NewBytesPayload(fmt.Sprintf("file-%d.jpg", i), []byte{0xff, 0xd8, byte(i)})
	}
	return out
}

// newManager returns a manager with a strict preview manager, so any double
// acquire or release panics the test.
func newManager(t *testing.T, ex queue.Extractor, opts ...queue.Option) (*queue.Manager, *preview.Manager) {
	t.Helper()
	previews := preview.NewManager(preview.NewMemoryBackend(), preview.WithStrict(), preview.WithLogger(logger.Discard()))
	base := []queue.Option{
		queue.WithLogger(logger.Discard()),
		queue.WithPreviews(previews),
	}
	mgr, err := queue.New(ex, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
		defer cancel()
		_ = mgr.Close(ctx)
	})
	return mgr, previews
}

func wait(t *testing.T, mgr *queue.Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	require.NoError(t, mgr.Wait(ctx))
}

func requireTotalMatches(t *testing.T, mgr *queue.Manager) {
	t.Helper()
	require.Equal(t, len(mgr.Items()), mgr.Stats().Total)
}
