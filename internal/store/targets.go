package store

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// ListTargets reads the planned targets for a workout.
func (s *Store) ListTargets(ctx context.Context, workoutID string) ([]models.WorkoutExercise, error) {
	var rows []models.WorkoutExercise
	err := s.c.From("workout_exercises").
		Select("workout_id, exercise_id, target_reps_min, target_reps_max, target_weight, target_rpe").
		Eq("workout_id", workoutID).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing targets for workout %s: %w", workoutID, err)
	}
	return rows, nil
}

// ReplaceTargets swaps the full target set for a workout: delete everything,
// then insert the replacement rows. The backend offers no transaction across
// the two writes, so an insert failure leaves the workout with no targets;
// the error says so explicitly and the caller should prompt a retry of the
// save rather than a partial fix-up.
func (s *Store) ReplaceTargets(ctx context.Context, workoutID string, rows []models.WorkoutExercise) error {
	if workoutID == "" {
		return fmt.Errorf("replacing targets: empty workout id")
	}
	if len(rows) == 0 {
		return fmt.Errorf("replacing targets: at least one target row is required")
	}
	for i := range rows {
		if rows[i].WorkoutID != workoutID {
			return fmt.Errorf("replacing targets: row %d belongs to workout %s", i, rows[i].WorkoutID)
		}
	}

	if err := s.c.From("workout_exercises").Eq("workout_id", workoutID).Delete(ctx); err != nil {
		return fmt.Errorf("replacing targets for workout %s: %w", workoutID, err)
	}
	if err := s.c.From("workout_exercises").Insert(ctx, rows, nil); err != nil {
		return fmt.Errorf("replacing targets for workout %s: previous targets removed but insert failed, save must be retried: %w", workoutID, err)
	}
	return nil
}

// InsertTargets writes the initial target rows for a newly created workout.
func (s *Store) InsertTargets(ctx context.Context, rows []models.WorkoutExercise) error {
	if len(rows) == 0 {
		return fmt.Errorf("inserting targets: at least one target row is required")
	}
	if err := s.c.From("workout_exercises").Insert(ctx, rows, nil); err != nil {
		return fmt.Errorf("inserting targets: %w", err)
	}
	return nil
}
