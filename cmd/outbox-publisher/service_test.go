package main

import (
	"context"
	"errors"
	"io"
	"testing"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (r *fakeRepo) FetchPublishable(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if limit > len(r.events) {
		limit = len(r.events)
	}
	return r.events[:limit], nil
}

func (r *fakeRepo) MarkPublished(id uuid.UUID) error {
	r.published = append(r.published, id)
	return nil
}

func (r *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	r.failed = append(r.failed, id)
	return nil
}

type fakePublisher struct {
	results  []publishResult
	messages []*gcppubsub.Message
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	if len(p.results) == 0 {
		return fakePublishResult{}
	}
	result := p.results[0]
	p.results = p.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (r fakePublishResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "server-id", nil
}

type fakePinger struct{}

func (fakePinger) Ping(context.Context) error { return nil }

func (fakePinger) NotificationPublisher() *gcppubsub.Publisher { return nil }

func newTestService(t *testing.T, repo outboxRepository, pub publisher) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "outbox-test", Output: io.Discard}),
		DB:         fakePinger{},
		PubSub:     fakePinger{},
		Repository: repo,
		Publisher:  pub,
	})
	require.NoError(t, err)
	return service
}

func orderEvent() models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   42,
		Payload:       []byte(`{"version":1,"event_id":"abc","data":{}}`),
	}
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := orderEvent()
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	require.Len(t, repo.published, 1)
	require.Equal(t, event.ID, repo.published[0])
	require.Empty(t, repo.failed)

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	require.Equal(t, string(enums.EventOrderCreated), msg.Attributes["event_type"])
	require.Equal(t, string(enums.AggregateOrder), msg.Attributes["aggregate_type"])
	require.Equal(t, "42", msg.Attributes["aggregate_id"])
	require.JSONEq(t, `{"version":1,"event_id":"abc","data":{}}`, string(msg.Data))
}

func TestProcessBatchContinuesAfterFailure(t *testing.T) {
	first := orderEvent()
	second := orderEvent()
	repo := &fakeRepo{events: []models.OutboxEvent{first, second}}
	pub := &fakePublisher{results: []publishResult{
		fakePublishResult{err: errors.New("transient")},
		fakePublishResult{},
	}}
	service := newTestService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	require.Len(t, repo.failed, 1)
	require.Equal(t, first.ID, repo.failed[0])
	require.Len(t, repo.published, 1)
	require.Equal(t, second.ID, repo.published[0])
}

func TestProcessBatchIdleWhenEmpty(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
	require.Empty(t, pub.messages)
}

func TestNewServiceRequiresPublisher(t *testing.T) {
	_, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "outbox-test", Output: io.Discard}),
		DB:         fakePinger{},
		PubSub:     fakePinger{},
		Repository: &fakeRepo{},
	})
	require.Error(t, err)
}
