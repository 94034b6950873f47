package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	ListWorkoutsInRange(ctx context.Context, start, end time.Time) ([]models.Workout, error)
	ListSetsInRange(ctx context.Context, start, end time.Time) ([]models.Set, error)
	ListSetsForWorkout(ctx context.Context, workoutID string) ([]models.Set, error)
	ListTargets(ctx context.Context, workoutID string) ([]models.WorkoutExercise, error)
	ListExercises(ctx context.Context, f store.ExerciseFilter) ([]models.Exercise, error)
}

// Compile-time check: *store.Store satisfies DataSource.
var _ DataSource = (*store.Store)(nil)
