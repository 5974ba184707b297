package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"iqtest-service/internal/event"
	"iqtest-service/internal/models"
	"iqtest-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Type: eventType, Payload: payload})
	return p.err
}

type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Create(context.Context, *models.TestResult) (string, error) {
	return "", errStoreDown
}

func (failingStore) AttachEmail(context.Context, string, json.RawMessage) (bool, error) {
	return false, errStoreDown
}

func (failingStore) Get(context.Context, string) (*models.TestResult, error) {
	return nil, errStoreDown
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
}

func emailRequest(email, testID string) models.SubmitEmailRequest {
	e, _ := json.Marshal(email)
	id, _ := json.Marshal(testID)
	return models.SubmitEmailRequest{Email: e, TestID: id}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestSubmitTestStoresAndPublishes(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	pub := &recordingPublisher{}
	svc := NewFunnelService(store, pub, nil, discardLogger())

	id, err := svc.SubmitTest(context.Background(), models.SubmitTestRequest{
		Score:          json.RawMessage(`80`),
		CorrectAnswers: json.RawMessage(`8`),
		TotalQuestions: json.RawMessage(`10`),
		TimeUsed:       json.RawMessage(`300`),
		Answers:        json.RawMessage(`[1,0,1]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "20240305140709", id)

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, `8`, string(got.CorrectAnswers))
	assert.JSONEq(t, `10`, string(got.TotalQuestions))
	assert.JSONEq(t, `300`, string(got.TimeUsed))

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.TestSubmitted, pub.events[0].Type)
	payload := pub.events[0].Payload.(event.TestSubmittedPayload)
	assert.Equal(t, id, payload.TestID)
	assert.JSONEq(t, `80`, string(payload.Score))
}

func TestSubmitTestMissingFields(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	svc := NewFunnelService(store, nil, nil, discardLogger())

	id, err := svc.SubmitTest(context.Background(), models.SubmitTestRequest{})
	require.NoError(t, err)

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got.Score)
	assert.Nil(t, got.CorrectAnswers)
	assert.Nil(t, got.Answers)
}

func TestSubmitEmail(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	pub := &recordingPublisher{}
	svc := NewFunnelService(store, pub, nil, discardLogger())
	ctx := context.Background()

	id, err := svc.SubmitTest(ctx, models.SubmitTestRequest{Score: json.RawMessage(`"high"`)})
	require.NoError(t, err)

	matched, err := svc.SubmitEmail(ctx, emailRequest("a@b.com", id))
	require.NoError(t, err)
	assert.True(t, matched)

	got, _ := store.Get(ctx, id)
	assert.JSONEq(t, `"a@b.com"`, string(got.Email))

	require.Len(t, pub.events, 2)
	assert.Equal(t, event.EmailSubmitted, pub.events[1].Type)
	payload := pub.events[1].Payload.(event.EmailSubmittedPayload)
	assert.Equal(t, id, payload.TestID)
	assert.True(t, payload.Matched)
	assert.JSONEq(t, `"high"`, string(payload.Score))
}

func TestSubmitEmailUnknownID(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	pub := &recordingPublisher{}
	svc := NewFunnelService(store, pub, nil, discardLogger())

	matched, err := svc.SubmitEmail(context.Background(), emailRequest("a@b.com", "nope"))
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, 0, store.Count())

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.EmailSubmittedPayload{TestID: "nope", Matched: false}, pub.events[0].Payload)
}

func TestPublishFailureDoesNotFailSubmission(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	var logs bytes.Buffer
	svc := NewFunnelService(store, &recordingPublisher{err: errors.New("broker gone")}, nil, slog.New(slog.NewTextHandler(&logs, nil)))

	id, err := svc.SubmitTest(context.Background(), models.SubmitTestRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Contains(t, logs.String(), "failed to publish event")
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewFunnelService(failingStore{}, pub, nil, discardLogger())
	ctx := context.Background()

	_, err := svc.SubmitTest(ctx, models.SubmitTestRequest{})
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.SubmitEmail(ctx, emailRequest("", "x"))
	assert.ErrorIs(t, err, errStoreDown)

	assert.Empty(t, pub.events)
}

type countingRecorder struct {
	tests   int
	matched map[bool]int
}

func (r *countingRecorder) TestSubmitted() { r.tests++ }

func (r *countingRecorder) EmailSubmitted(matched bool) {
	if r.matched == nil {
		r.matched = make(map[bool]int)
	}
	r.matched[matched]++
}

func TestRecorderCountsOutcomes(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	rec := &countingRecorder{}
	svc := NewFunnelService(store, nil, rec, discardLogger())
	ctx := context.Background()

	id, err := svc.SubmitTest(ctx, models.SubmitTestRequest{})
	require.NoError(t, err)
	_, err = svc.SubmitEmail(ctx, emailRequest("a@b.com", id))
	require.NoError(t, err)
	_, err = svc.SubmitEmail(ctx, emailRequest("a@b.com", "missing"))
	require.NoError(t, err)

	assert.Equal(t, 1, rec.tests)
	assert.Equal(t, 1, rec.matched[true])
	assert.Equal(t, 1, rec.matched[false])
}

func TestSubmitEmailNonStringIDNeverMatches(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	pub := &recordingPublisher{}
	svc := NewFunnelService(store, pub, nil, discardLogger())
	ctx := context.Background()

	id, err := svc.SubmitTest(ctx, models.SubmitTestRequest{})
	require.NoError(t, err)
	require.Equal(t, "20240305140709", id)

	matched, err := svc.SubmitEmail(ctx, models.SubmitEmailRequest{
		Email:  json.RawMessage(`"a@b.com"`),
		TestID: json.RawMessage(`20240305140709`),
	})
	require.NoError(t, err)
	assert.False(t, matched)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.EmailSubmittedAt)
}

func TestSubmitEmailWithoutEmailStoresNull(t *testing.T) {
	store := repository.NewMemorySessionStore(fixedNow)
	svc := NewFunnelService(store, nil, nil, discardLogger())
	ctx := context.Background()

	id, err := svc.SubmitTest(ctx, models.SubmitTestRequest{})
	require.NoError(t, err)

	matched, err := svc.SubmitEmail(ctx, models.SubmitEmailRequest{TestID: json.RawMessage(`"` + id + `"`)})
	require.NoError(t, err)
	assert.True(t, matched)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(got.Email))
	assert.NotNil(t, got.EmailSubmittedAt)
}
