package scoreboard

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/mhruby/catchboard/internal/errors"
)

// MockClient is an in-memory scoreboard client for testing. It records
// every applied operation in order and can simulate an outage or
// per-call errors.
type MockClient struct {
	mu      sync.Mutex
	baseURL string
	token   string

	// Offline makes every call fail with an Unavailable error while true.
	offline bool
	// UpsertError is returned by the next Upsert calls when set.
	UpsertError error

	docs    map[string]map[string]interface{} // "collection/docID" -> merged fields
	applied []string                          // "collection/docID" in application order
}

// NewMockClient creates a new mock scoreboard client
func NewMockClient() *MockClient {
	return &MockClient{
		docs: make(map[string]map[string]interface{}),
	}
}

// SetOffline toggles the simulated outage
func (m *MockClient) SetOffline(offline bool) {
	m.mu.Lock()
	m.offline = offline
	m.mu.Unlock()
}

// Upsert merge-writes fields into the in-memory document set
func (m *MockClient) Upsert(ctx context.Context, collection, docID string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offline {
		return apperrors.Unavailable("mock scoreboard offline", nil)
	}
	if m.UpsertError != nil {
		return m.UpsertError
	}

	key := collection + "/" + docID
	doc, ok := m.docs[key]
	if !ok {
		doc = make(map[string]interface{})
		m.docs[key] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	m.applied = append(m.applied, key)
	return nil
}

// GetOnce reads a document from the in-memory set
func (m *MockClient) GetOnce(ctx context.Context, collection, docID string) (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offline {
		return nil, apperrors.Unavailable("mock scoreboard offline", nil)
	}

	doc, ok := m.docs[collection+"/"+docID]
	if !ok {
		return nil, nil
	}
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

// Ping reports the simulated connectivity state
func (m *MockClient) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return apperrors.Unavailable("mock scoreboard offline", nil)
	}
	return nil
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.mu.Lock()
	m.baseURL = url
	m.mu.Unlock()
}

// SetToken configures the API token
func (m *MockClient) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// Doc returns a copy of a stored document, or nil if absent
func (m *MockClient) Doc(collection, docID string) map[string]interface{} {
	doc, _ := m.GetOnce(context.Background(), collection, docID)
	return doc
}

// Applied returns the order in which operations were applied
func (m *MockClient) Applied() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.applied))
	copy(out, m.applied)
	return out
}

// AppliedCount returns the number of applied operations
func (m *MockClient) AppliedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.applied)
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)

// String helps debugging failed assertions
func (m *MockClient) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("MockClient{docs: %d, applied: %d, offline: %v}", len(m.docs), len(m.applied), m.offline)
}
