package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
)

// ForecastTransformer implements Transformer by decoding observation JSON and
// scoring it with a Forecaster.
type ForecastTransformer struct {
	forecaster Forecaster
	logger     *slog.Logger
}

// NewTransformer creates a ForecastTransformer.
func NewTransformer(forecaster Forecaster, logger *slog.Logger) *ForecastTransformer {
	return &ForecastTransformer{
		forecaster: forecaster,
		logger:     logger,
	}
}

func (t *ForecastTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.ForecastEvent, error) {
	rec, err := domain.DecodeInputRecord(raw.Value)
	if err != nil {
		return domain.ForecastEvent{}, err
	}

	result, err := t.forecaster.Predict(ctx, rec)
	if err != nil {
		return domain.ForecastEvent{}, err
	}

	event, err := domain.NewForecastEvent(rec, result, raw.Timestamp)
	if err != nil {
		return domain.ForecastEvent{}, err
	}
	t.logger.Debug("observation scored",
		"id", event.ID,
		"prediction", event.Prediction,
		"risk_level", event.RiskLevel,
	)
	return event, nil
}
