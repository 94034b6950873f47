package store

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
)

const setColumns = "id, workout_id, exercise_id, reps, partial_reps, weight_kg, rpe, created_at"

// ListSets reads the sets logged against one exercise in one workout,
// newest first.
func (s *Store) ListSets(ctx context.Context, workoutID, exerciseID string) ([]models.Set, error) {
	var rows []models.Set
	err := s.c.From("sets").
		Select(setColumns).
		Eq("workout_id", workoutID).
		Eq("exercise_id", exerciseID).
		Order("created_at", false).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing sets: %w", err)
	}
	return rows, nil
}

// ListSetsForWorkout reads every set in a workout, newest first.
func (s *Store) ListSetsForWorkout(ctx context.Context, workoutID string) ([]models.Set, error) {
	var rows []models.Set
	err := s.c.From("sets").
		Select(setColumns).
		Eq("workout_id", workoutID).
		Order("created_at", false).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing sets for workout %s: %w", workoutID, err)
	}
	return rows, nil
}

// ListSetsInRange reads the sets created within [start, end), newest first.
// Used by the dashboard aggregates and the MCP tools.
func (s *Store) ListSetsInRange(ctx context.Context, start, end time.Time) ([]models.Set, error) {
	var rows []models.Set
	err := s.c.From("sets").
		Select(setColumns).
		Gte("created_at", start.UTC().Format(time.RFC3339)).
		Lt("created_at", end.UTC().Format(time.RFC3339)).
		Order("created_at", false).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing sets in range: %w", err)
	}
	return rows, nil
}

// AddSet inserts a fully-populated set row. The caller assigns ID and
// CreatedAt so a retried insert stays idempotent.
func (s *Store) AddSet(ctx context.Context, set models.Set) error {
	if set.ID == "" || set.WorkoutID == "" || set.ExerciseID == "" {
		return fmt.Errorf("adding set: id, workout_id and exercise_id are required")
	}
	if err := s.c.From("sets").Insert(ctx, []models.Set{set}, nil); err != nil {
		return fmt.Errorf("adding set: %w", err)
	}
	return nil
}

// UpdateSet patches the editable fields of an existing set.
func (s *Store) UpdateSet(ctx context.Context, set models.Set) error {
	if set.ID == "" {
		return fmt.Errorf("updating set: empty set id")
	}
	patch := map[string]any{
		"reps":         set.Reps,
		"partial_reps": set.PartialReps,
		"weight_kg":    set.WeightKg,
		"rpe":          set.RPE,
	}
	if err := s.c.From("sets").Eq("id", set.ID).Update(ctx, patch); err != nil {
		return fmt.Errorf("updating set %s: %w", set.ID, err)
	}
	return nil
}

// DeleteSet removes one set by ID.
func (s *Store) DeleteSet(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("deleting set: empty set id")
	}
	if err := s.c.From("sets").Eq("id", id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting set %s: %w", id, err)
	}
	return nil
}
