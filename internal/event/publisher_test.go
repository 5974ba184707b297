package event

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPublishing(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.FixedZone("X", 3*3600))
	msg, err := buildPublishing(TestSubmitted, "iqtest-service", TestSubmittedPayload{
		TestID: "20240305140709",
		Score:  json.RawMessage(`80`),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, TestSubmitted, msg.Type)
	assert.Equal(t, "iqtest-service", msg.AppId)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.True(t, msg.Timestamp.Equal(now))
	_, err = uuid.Parse(msg.MessageId)
	assert.NoError(t, err)

	var env struct {
		ID      string          `json:"id"`
		Type    string          `json:"type"`
		Source  string          `json:"source"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &env))
	assert.Equal(t, msg.MessageId, env.ID)
	assert.Equal(t, TestSubmitted, env.Type)
	assert.Equal(t, "iqtest-service", env.Source)
	assert.JSONEq(t, `{
		"test_id": "20240305140709",
		"score": 80,
		"correct_answers": null,
		"total_questions": null,
		"time_used": null
	}`, string(env.Payload))
}

func TestBuildPublishingUniqueIDs(t *testing.T) {
	a, err := buildPublishing(EmailSubmitted, "svc", EmailSubmittedPayload{TestID: "1"}, time.Now())
	require.NoError(t, err)
	b, err := buildPublishing(EmailSubmitted, "svc", EmailSubmittedPayload{TestID: "1"}, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a.MessageId, b.MessageId)
}

func TestBuildPublishingMarshalError(t *testing.T) {
	_, err := buildPublishing(TestSubmitted, "svc", make(chan int), time.Now())
	assert.Error(t, err)
}

func TestPublishAfterClose(t *testing.T) {
	p := &EventPublisher{exchange: "funnel", source: "svc", logger: slog.New(slog.NewTextHandler(io.Discard, nil)), now: time.Now}
	require.NoError(t, p.Close())

	err := p.Publish(EmailSubmitted, EmailSubmittedPayload{TestID: "1"})
	assert.ErrorIs(t, err, ErrClosed)
}
