package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"MinTemp":15}`),
		Topic:     "weather-observations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte("Albury")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"MinTemp":15}`, string(raw.Value))
	assert.Equal(t, "weather-observations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "Albury", raw.Headers["station"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	result := domain.BuildResult(1, 77.5)
	event := domain.ForecastEvent{
		ID:          "obs-0123456789abcdef",
		Observation: domain.InputRecord{"MinTemp": domain.Number(15), "RainToday": domain.String("Yes")},
		Prediction:  result.Prediction,
		Probability: result.Probability,
		RiskLevel:   result.RiskLevel,
		Message:     result.Message,
		ProcessedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("obs-0123456789abcdef"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "prediction", msg.Headers[0].Key)
	assert.Equal(t, []byte("1"), msg.Headers[0].Value)
	assert.Equal(t, "risk_level", msg.Headers[1].Key)
	assert.Equal(t, []byte("High Risk"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "High Risk", body["risk_level"])
	assert.InDelta(t, 77.5, body["probability"], 0)
	assert.Equal(t, map[string]any{"MinTemp": 15.0, "RainToday": "Yes"}, body["observation"])
}
