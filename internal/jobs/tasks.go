// Package jobs tareas en segundo plano sobre asynq (Redis).
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola de las tareas del servicio.
	QueueDefault = "default"
	// TaskForecastWarmup precalcula los pronósticos y los deja en cache.
	TaskForecastWarmup = "forecast:warmup"
)

// ForecastWarmupPayload horizonte a precalcular. HorizonDays < 1 usa el horizonte por defecto.
type ForecastWarmupPayload struct {
	HorizonDays int `json:"horizon_days"`
}

// NewForecastWarmupTask construye la tarea asynq.
func NewForecastWarmupTask(horizonDays int) (*asynq.Task, error) {
	data, err := json.Marshal(ForecastWarmupPayload{HorizonDays: horizonDays})
	if err != nil {
		return nil, fmt.Errorf("jobs: payload warmup: %w", err)
	}
	return asynq.NewTask(TaskForecastWarmup, data), nil
}
