package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// mockSource is a DocumentSource returning a fixed document.
type mockSource struct {
	doc     domain.Node
	docErr  error
	urls    map[string]string
	urlsErr error

	// block, when set, holds FetchDocument until closed.
	block chan struct{}

	mu        sync.Mutex
	docCalls  int
	urlCalls  int
	gotIDs    []string
	gotScale  float64
	gotTokens []domain.AccessToken
}

func (m *mockSource) FetchDocument(ctx context.Context, _ string, token domain.AccessToken) (domain.Node, error) {
	m.mu.Lock()
	m.docCalls++
	m.gotTokens = append(m.gotTokens, token)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.Node{}, ctx.Err()
		}
	}
	return m.doc, m.docErr
}

func (m *mockSource) FetchImageURLs(
	_ context.Context, _ string, _ domain.AccessToken, ids []string, scale float64,
) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urlCalls++
	m.gotIDs = ids
	m.gotScale = scale
	if m.urlsErr != nil {
		return nil, m.urlsErr
	}
	if m.urls != nil {
		return m.urls, nil
	}
	urls := make(map[string]string, len(ids))
	for _, id := range ids {
		urls[id] = "https://render/" + id
	}
	return urls, nil
}

// mockImages is an ImageFetcher returning the URL as bytes.
type mockImages struct {
	fail  map[string]error
	delay time.Duration

	calls atomic.Int32
}

func (m *mockImages) FetchImage(_ context.Context, url string) ([]byte, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err := m.fail[url]; err != nil {
		return nil, err
	}
	return []byte(url), nil
}

// mockSink is an AssetSink recording requests.
type mockSink struct {
	fail map[string]error

	// delays lets a test reorder completions by target name.
	delays map[string]time.Duration

	mu       sync.Mutex
	requests []domain.AssetRequest
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (m *mockSink) Persist(_ context.Context, req domain.AssetRequest) (string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if d := m.delays[req.Target.Name]; d > 0 {
		time.Sleep(d)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err := m.fail[req.Target.Name]; err != nil {
		return "", err
	}
	return req.OutputDir + "/" + req.FileName(), nil
}

func (m *mockSink) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.requests))
	for i, r := range m.requests {
		names[i] = r.Target.Name
	}
	return names
}

// failingHistory is a HistoryStore whose writes fail.
type failingHistory struct {
	saves int
}

func (f *failingHistory) SaveRun(context.Context, domain.ImportRun) error {
	f.saves++
	return domain.ErrIO
}

func (f *failingHistory) GetRun(context.Context, string) (*domain.ImportRun, error) {
	return nil, domain.ErrNotFound
}

func (f *failingHistory) ListRuns(context.Context, int) ([]domain.ImportRun, error) {
	return nil, domain.ErrIO
}

func (f *failingHistory) PruneRuns(context.Context, int) error {
	return domain.ErrIO
}
