package testutil

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"kudosd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountByLevel returns how many entries were recorded at the given level.
func (m *MockLogger) CountByLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, entry := range m.Logs {
		if entry.Level == level {
			count++
		}
	}
	return count
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	Requests          int
	CacheHits         int
	CacheMisses       int
	Evaluations       int
	KudosGiven        int
	NotificationsSent map[string]int // key: "provider:outcome"
	LedgerSize        int
	ReviewQueueSize   int
	PersistObserved   int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{NotificationsSent: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncEvaluations(_ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evaluations++
}
func (m *MockMetrics) IncKudosGiven() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KudosGiven++
}
func (m *MockMetrics) IncNotificationsSent(provider string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	m.NotificationsSent[provider+":"+outcome]++
}
func (m *MockMetrics) SetLedgerSize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LedgerSize = count
}
func (m *MockMetrics) SetReviewQueueSize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReviewQueueSize = count
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistObserved++
}

// KudosCount returns the recorded kudos counter under the mutex.
func (m *MockMetrics) KudosCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.KudosGiven
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements storage.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// MemStore implements storage.StoreInterface in memory, with optional
// injectable errors.
type MemStore struct {
	mu    sync.Mutex
	Data  map[string]json.RawMessage
	GetFn func(key string) (json.RawMessage, bool, error)
	SetFn func(key string, value any) error
}

func NewMemStore() *MemStore {
	return &MemStore{Data: make(map[string]json.RawMessage)}
}

func (m *MemStore) Get(key string) (json.RawMessage, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MemStore) Set(key string, value any) error {
	if m.SetFn != nil {
		return m.SetFn(key, value)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = raw
	return nil
}

// MockHTTPClient implements providers.HTTPClientInterface and records the
// requests it sees. Respond decides the outcome per request; the default is
// an empty 200.
type MockHTTPClient struct {
	mu       sync.Mutex
	Requests []*http.Request
	Bodies   [][]byte
	Respond  func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.Bodies = append(m.Bodies, body)
	m.mu.Unlock()

	if m.Respond != nil {
		return m.Respond(req)
	}
	return NewResponse(http.StatusOK, `{}`), nil
}

// RequestCount returns how many requests were issued.
func (m *MockHTTPClient) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// NewResponse builds a minimal *http.Response with the given status and body.
func NewResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}
