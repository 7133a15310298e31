package mocks

import (
	"context"
	"sync"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/oauth"
)

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

// --- Mock Destination ---
type MockDestination struct {
	CreateFunc func(ctx context.Context, record *activity.Record) (string, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockDestination) Create(ctx context.Context, record *activity.Record) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, record.ID)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return "mock-activity-id", nil
}

func (m *MockDestination) Name() string {
	return "mock"
}

// Calls returns the record ids passed to Create, in order.
func (m *MockDestination) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// --- Mock Token Source ---
type MockTokenSource struct {
	TokenFunc        func(ctx context.Context) (*oauth.Token, error)
	ForceRefreshFunc func(ctx context.Context) (*oauth.Token, error)
}

func (m *MockTokenSource) Token(ctx context.Context) (*oauth.Token, error) {
	if m.TokenFunc != nil {
		return m.TokenFunc(ctx)
	}
	return &oauth.Token{AccessToken: "mock-access-token"}, nil
}

func (m *MockTokenSource) ForceRefresh(ctx context.Context) (*oauth.Token, error) {
	if m.ForceRefreshFunc != nil {
		return m.ForceRefreshFunc(ctx)
	}
	return nil, oauth.ErrNoRefreshToken
}

// --- Mock Pacer ---
type MockPacer struct {
	PauseFunc func(ctx context.Context) error

	mu     sync.Mutex
	pauses int
}

func (m *MockPacer) Pause(ctx context.Context) error {
	m.mu.Lock()
	m.pauses++
	m.mu.Unlock()
	if m.PauseFunc != nil {
		return m.PauseFunc(ctx)
	}
	return nil
}

func (m *MockPacer) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}
