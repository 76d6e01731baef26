package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RawEvent represents an unprocessed observation message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ForecastEvent is a scored observation as published to the sink topic.
type ForecastEvent struct {
	ID          string      `json:"id"`
	Observation InputRecord `json:"observation"`
	Prediction  int         `json:"prediction"`
	Probability float64     `json:"probability"`
	RiskLevel   RiskTier    `json:"risk_level"`
	Message     string      `json:"message"`
	ObservedAt  time.Time   `json:"observed_at"`
	ProcessedAt time.Time   `json:"processed_at"`
}

// NewForecastEvent pairs an observation with its result and stamps it with the
// package clock.
func NewForecastEvent(rec InputRecord, result PredictionResult, observedAt time.Time) (ForecastEvent, error) {
	id, err := ObservationID(rec)
	if err != nil {
		return ForecastEvent{}, err
	}
	return ForecastEvent{
		ID:          id,
		Observation: rec,
		Prediction:  result.Prediction,
		Probability: result.Probability,
		RiskLevel:   result.RiskLevel,
		Message:     result.Message,
		ObservedAt:  observedAt,
		ProcessedAt: clock.Now(),
	}, nil
}

// ObservationID is a deterministic ID derived from the canonical JSON of rec.
// The same observation always maps to the same ID regardless of key order, so
// replays can be deduplicated downstream.
func ObservationID(rec InputRecord) (string, error) {
	data, err := rec.CanonicalJSON()
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return "obs-" + hex.EncodeToString(hash[:8]), nil
}
