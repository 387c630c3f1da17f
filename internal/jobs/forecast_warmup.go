package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Warmer lo implementa analytics.ForecastUseCase.
type Warmer interface {
	Warmup(ctx context.Context, horizonDays int) (int, error)
}

// ForecastWarmupJob handler de TaskForecastWarmup.
type ForecastWarmupJob struct {
	warmer  Warmer
	logger  zerolog.Logger
	timeout time.Duration
}

// NewForecastWarmupJob construye el handler.
func NewForecastWarmupJob(warmer Warmer, logger zerolog.Logger) *ForecastWarmupJob {
	return &ForecastWarmupJob{
		warmer:  warmer,
		logger:  logger.With().Str("job", TaskForecastWarmup).Logger(),
		timeout: 2 * time.Minute,
	}
}

// Handle procesa la tarea. Un payload inválido no se reintenta.
func (j *ForecastWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.warmer == nil {
		return errors.New("forecast warmup: handler no configurado")
	}
	var payload ForecastWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("forecast warmup: payload inválido: %w", asynq.SkipRetry)
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	start := time.Now()
	n, err := j.warmer.Warmup(ctx, payload.HorizonDays)
	if err != nil {
		j.logger.Error().Err(err).Int("horizon_days", payload.HorizonDays).Msg("warmup de pronósticos falló")
		return err
	}
	j.logger.Info().
		Int("products", n).
		Int("horizon_days", payload.HorizonDays).
		Dur("duration", time.Since(start)).
		Msg("warmup de pronósticos completado")
	return nil
}
