package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	"github.com/blocodev/wallethub/internal/bus"
	"github.com/blocodev/wallethub/internal/metrics"
	"github.com/blocodev/wallethub/internal/outbox/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockOutboxEventRepository is a mock implementation of OutboxEventRepository
type MockOutboxEventRepository struct {
	mock.Mock
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxEventRepository) GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OutboxEvent), args.Error(1)
}

func (m *MockOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// testEvent is a minimal domain event for publisher tests.
type testEvent struct {
	EventType     string `json:"event_type"`
	WalletID      string `json:"wallet_id"`
	CorrelationID string `json:"correlation_id"`
}

func (e testEvent) Kind() string        { return e.EventType }
func (e testEvent) Correlation() string { return e.CorrelationID }

// unserializableEvent fails json.Marshal because of the channel field.
type unserializableEvent struct {
	Ch chan int
}

func (e unserializableEvent) Kind() string        { return "broken.event" }
func (e unserializableEvent) Correlation() string { return "" }

func TestOutboxPublisher_Publish(t *testing.T) {
	outboxRepo := new(MockOutboxEventRepository)
	publisher := NewOutboxPublisher(outboxRepo)
	ctx := context.Background()

	event := testEvent{
		EventType:     "wallet.created",
		WalletID:      "wallet-1",
		CorrelationID: "corr-1",
	}

	outboxRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.EventType == "wallet.created" &&
			e.Status == domain.OutboxEventStatusPending &&
			e.Attempts == 0 &&
			e.CorrelationID != nil && *e.CorrelationID == "corr-1"
	})).Return(nil)

	err := publisher.Publish(ctx, event)
	assert.NoError(t, err)
	outboxRepo.AssertExpectations(t)
}

func TestOutboxPublisher_Publish_SerializesPayload(t *testing.T) {
	outboxRepo := new(MockOutboxEventRepository)
	publisher := NewOutboxPublisher(outboxRepo)
	ctx := context.Background()

	event := testEvent{
		EventType:     "wallet.created",
		WalletID:      "wallet-1",
		CorrelationID: "corr-1",
	}

	var created *domain.OutboxEvent
	outboxRepo.On("Create", ctx, mock.AnythingOfType("*domain.OutboxEvent")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.OutboxEvent)
		}).
		Return(nil)

	err := publisher.Publish(ctx, event)
	assert.NoError(t, err)
	assert.Contains(t, created.Payload, `"wallet_id":"wallet-1"`)
	assert.Contains(t, created.Payload, `"correlation_id":"corr-1"`)
}

func TestOutboxPublisher_Publish_WithoutCorrelationID(t *testing.T) {
	outboxRepo := new(MockOutboxEventRepository)
	publisher := NewOutboxPublisher(outboxRepo)
	ctx := context.Background()

	event := testEvent{
		EventType: "user.created",
		WalletID:  "wallet-1",
	}

	outboxRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.EventType == "user.created" && e.CorrelationID == nil
	})).Return(nil)

	err := publisher.Publish(ctx, event)
	assert.NoError(t, err)
	outboxRepo.AssertExpectations(t)
}

func TestOutboxPublisher_Publish_RepositoryError(t *testing.T) {
	outboxRepo := new(MockOutboxEventRepository)
	publisher := NewOutboxPublisher(outboxRepo)
	ctx := context.Background()

	event := testEvent{EventType: "wallet.created"}

	outboxRepo.On("Create", ctx, mock.AnythingOfType("*domain.OutboxEvent")).
		Return(errors.New("database error"))

	err := publisher.Publish(ctx, event)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create outbox event")
}

func TestOutboxPublisher_Publish_SerializationError(t *testing.T) {
	outboxRepo := new(MockOutboxEventRepository)
	publisher := NewOutboxPublisher(outboxRepo)
	ctx := context.Background()

	err := publisher.Publish(ctx, unserializableEvent{Ch: make(chan int)})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to serialize event")
	outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func newTestRelay(
	config Config,
	txManager *MockTxManager,
	outboxRepo *MockOutboxEventRepository,
	messageBus bus.MessageBus,
) *Relay {
	return NewRelay(config, txManager, outboxRepo, messageBus, metrics.NewNoOpBusinessMetrics(), nil)
}

func pendingEvent(eventType, payload string) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   payload,
		Status:    domain.OutboxEventStatusPending,
	}
}

func TestRelay_Tick(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	relay := newTestRelay(Config{BatchSize: 10, MaxAttempts: 3}, txManager, outboxRepo, messageBus)
	ctx := context.Background()

	event := pendingEvent("wallet.created", `{"wallet_id":"wallet-1"}`)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{event}, nil)
	outboxRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.Status == domain.OutboxEventStatusSent &&
			e.Attempts == 1 &&
			e.SentAt != nil &&
			e.LastError == nil
	})).Return(nil)

	err := relay.Tick(ctx)
	assert.NoError(t, err)

	messages := messageBus.Messages("wallet-created-topic")
	assert.Len(t, messages, 1)
	assert.Equal(t, `{"wallet_id":"wallet-1"}`, string(messages[0]))
	outboxRepo.AssertExpectations(t)
}

func TestRelay_Tick_DeliveryFailure(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	messageBus.FailDestination("wallet-created-topic", errors.New("bus unavailable"))
	relay := newTestRelay(Config{BatchSize: 10, MaxAttempts: 3}, txManager, outboxRepo, messageBus)
	ctx := context.Background()

	event := pendingEvent("wallet.created", `{"wallet_id":"wallet-1"}`)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{event}, nil)
	outboxRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.Status == domain.OutboxEventStatusPending &&
			e.Attempts == 1 &&
			e.LastError != nil && *e.LastError == "bus unavailable" &&
			e.SentAt == nil
	})).Return(nil)

	err := relay.Tick(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, messageBus.TotalSent())
	outboxRepo.AssertExpectations(t)
}

func TestRelay_Tick_ParksEventAfterMaxAttempts(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	messageBus.FailDestination("wallet-created-topic", errors.New("bus unavailable"))
	relay := newTestRelay(Config{BatchSize: 10, MaxAttempts: 3}, txManager, outboxRepo, messageBus)
	ctx := context.Background()

	event := pendingEvent("wallet.created", `{"wallet_id":"wallet-1"}`)
	event.Attempts = 2

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{event}, nil)
	outboxRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.Status == domain.OutboxEventStatusFailed && e.Attempts == 3
	})).Return(nil)

	err := relay.Tick(ctx)
	assert.NoError(t, err)
	outboxRepo.AssertExpectations(t)
}

func TestRelay_Tick_MixedBatch(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	messageBus.FailDestination("funds-added-topic", errors.New("bus unavailable"))
	relay := newTestRelay(Config{BatchSize: 10, MaxAttempts: 3}, txManager, outboxRepo, messageBus)
	ctx := context.Background()

	delivered := pendingEvent("wallet.created", `{"wallet_id":"wallet-1"}`)
	undelivered := pendingEvent("funds.added", `{"wallet_id":"wallet-1","amount":"10"}`)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{delivered, undelivered}, nil)
	outboxRepo.On("Update", ctx, mock.AnythingOfType("*domain.OutboxEvent")).Return(nil)

	err := relay.Tick(ctx)
	assert.NoError(t, err)

	assert.Equal(t, domain.OutboxEventStatusSent, delivered.Status)
	assert.Equal(t, domain.OutboxEventStatusPending, undelivered.Status)
	assert.Equal(t, 1, undelivered.Attempts)
	assert.Len(t, messageBus.Messages("wallet-created-topic"), 1)
}

func TestRelay_Tick_NoEvents(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	relay := newTestRelay(Config{BatchSize: 10, MaxAttempts: 3}, txManager, outboxRepo, messageBus)
	ctx := context.Background()

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{}, nil)

	err := relay.Tick(ctx)
	assert.NoError(t, err)
	outboxRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRelay_Tick_GetPendingEventsError(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	relay := newTestRelay(Config{BatchSize: 10, MaxAttempts: 3}, txManager, outboxRepo, messageBus)
	ctx := context.Background()

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return(nil, errors.New("database error"))

	err := relay.Tick(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}

func TestRelay_Tick_UpdateError(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	relay := newTestRelay(Config{BatchSize: 10, MaxAttempts: 3}, txManager, outboxRepo, messageBus)
	ctx := context.Background()

	event := pendingEvent("wallet.created", `{"wallet_id":"wallet-1"}`)

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	outboxRepo.On("GetPendingEvents", ctx, 10).Return([]*domain.OutboxEvent{event}, nil)
	outboxRepo.On("Update", ctx, mock.AnythingOfType("*domain.OutboxEvent")).
		Return(errors.New("database error"))

	err := relay.Tick(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}

func TestRelay_Start_ContextCancellation(t *testing.T) {
	txManager := new(MockTxManager)
	outboxRepo := new(MockOutboxEventRepository)
	messageBus := bus.NewInMemoryBus()
	relay := newTestRelay(
		Config{Interval: 5 * time.Millisecond, BatchSize: 10, MaxAttempts: 3},
		txManager, outboxRepo, messageBus,
	)

	txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).
		Return(nil).Maybe()
	outboxRepo.On("GetPendingEvents", mock.Anything, 10).
		Return([]*domain.OutboxEvent{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- relay.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after context cancellation")
	}
}
