package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/devarajan8/veritas/internal/infra/redis"
	"github.com/devarajan8/veritas/internal/models"
	"github.com/rs/zerolog/log"
)

// UpdateStatus publishes the current pipeline step for an assignment so
// callers can poll progress while the analysis runs asynchronously.
func UpdateStatus(ctx context.Context, redisClient *redis.Client, assignmentID string, step models.Step) error {
	validSteps := map[models.Step]bool{
		models.StepIdle:       true,
		models.StepReceived:   true,
		models.StepExtracting: true,
		models.StepFetching:   true,
		models.StepAnalyzing:  true,
		models.StepCompleted:  true,
		models.StepFailed:     true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	rkey := "analysis_status:" + assignmentID

	err := redisClient.Set(ctx, rkey, string(step), 12*time.Hour).Err()
	if err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("assignmentId", assignmentID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("assignmentId", assignmentID).
		Msg("Status updated in Redis")

	return nil
}

// GetStatus reads the last published step for an assignment. Returns StepIdle
// when nothing has been published or the key has expired.
func GetStatus(ctx context.Context, redisClient *redis.Client, assignmentID string) (models.Step, error) {
	rkey := "analysis_status:" + assignmentID

	val, err := redisClient.Get(ctx, rkey).Result()
	if err != nil {
		if redis.IsNil(err) {
			return models.StepIdle, nil
		}
		return models.StepIdle, fmt.Errorf("failed to read status from Redis: %w", err)
	}

	return models.Step(val), nil
}
