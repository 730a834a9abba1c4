package consumer

import (
	"log/slog"

	"github.com/gopact/gopact/pkg/pact"
)

// MockSession ties a Dispatcher to a live MockTransport for the duration of
// one consumer test. Consumer code builds interactions with pact.NewInteraction,
// registers them via AddInteraction, points its client at URL(), exercises
// it, then calls VerifyAllUsed before Close to enforce single-use semantics.
type MockSession struct {
	Consumer   string
	Provider   string
	dispatcher *Dispatcher
	transport  MockTransport
	pact       *pact.Pact
}

// NewMockSession starts a mock session for (consumer, provider) targeting
// version, backed by an httptest.Server.
func NewMockSession(consumerName, providerName string, version pact.SpecVersion) *MockSession {
	dispatcher := NewDispatcher(version)
	return &MockSession{
		Consumer:   consumerName,
		Provider:   providerName,
		dispatcher: dispatcher,
		transport:  NewHTTPTransport(dispatcher),
		pact: &pact.Pact{
			Consumer:    consumerName,
			Provider:    providerName,
			SpecVersion: version,
		},
	}
}

// SetLogger overrides the dispatcher's logger.
func (s *MockSession) SetLogger(log *slog.Logger) {
	s.dispatcher.SetLogger(log)
}

// URL returns the base URL the client under test should call.
func (s *MockSession) URL() string {
	return s.transport.BaseURL()
}

// AddInteraction registers an interaction for this session, rejecting a
// duplicate description since Pact requires uniqueness within a pact.
func (s *MockSession) AddInteraction(i *pact.Interaction) error {
	if existing := s.pact.FindByDescription(i.Description); existing != nil {
		return duplicateDescriptionError(i.Description)
	}
	s.pact.AddInteraction(i)
	s.dispatcher.Register(i)
	return nil
}

// VerifyAllUsed returns a KindInteractionUnused error if any registered
// interaction was never consumed by a matching request.
func (s *MockSession) VerifyAllUsed() error {
	return s.dispatcher.VerifyAllUsed()
}

// Pact returns the accumulated pact document for writing at test teardown.
func (s *MockSession) Pact() *pact.Pact {
	return s.pact
}

// Close tears down the underlying transport. Safe to call after VerifyAllUsed.
func (s *MockSession) Close() {
	s.transport.Close()
}
