package store

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/remote"
	"github.com/google/uuid"
)

// FindWorkoutByDate looks up the signed-in user's workout for the given
// calendar date. Returns (nil, nil) when no workout exists.
func (s *Store) FindWorkoutByDate(ctx context.Context, date time.Time) (*models.Workout, error) {
	uid := s.c.UserID()
	if uid == "" {
		return nil, remote.ErrNoSession
	}

	var rows []models.Workout
	err := s.c.From("workouts").
		Select("id, user_id, scheduled_date").
		Eq("user_id", uid).
		Eq("scheduled_date", dateKey(date)).
		Limit(1).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("finding workout for %s: %w", dateKey(date), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateWorkout inserts a workout for the signed-in user at the given date.
func (s *Store) CreateWorkout(ctx context.Context, date time.Time) (*models.Workout, error) {
	uid := s.c.UserID()
	if uid == "" {
		return nil, remote.ErrNoSession
	}

	w := models.Workout{
		ID:            uuid.NewString(),
		UserID:        uid,
		ScheduledDate: MidnightUTC(date),
	}
	var inserted []models.Workout
	if err := s.c.From("workouts").Insert(ctx, []models.Workout{w}, &inserted); err != nil {
		return nil, fmt.Errorf("creating workout for %s: %w", dateKey(date), err)
	}
	if len(inserted) > 0 {
		return &inserted[0], nil
	}
	return &w, nil
}

// EnsureWorkout returns the workout for the date, creating one if absent.
func (s *Store) EnsureWorkout(ctx context.Context, date time.Time) (*models.Workout, error) {
	w, err := s.FindWorkoutByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}
	return s.CreateWorkout(ctx, date)
}

// ListWorkoutsInRange reads the signed-in user's workouts with
// start <= scheduled_date < end, newest first.
func (s *Store) ListWorkoutsInRange(ctx context.Context, start, end time.Time) ([]models.Workout, error) {
	uid := s.c.UserID()
	if uid == "" {
		return nil, remote.ErrNoSession
	}

	var rows []models.Workout
	err := s.c.From("workouts").
		Select("id, user_id, scheduled_date").
		Eq("user_id", uid).
		Gte("scheduled_date", dateKey(start)).
		Lt("scheduled_date", dateKey(end)).
		Order("scheduled_date", false).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	return rows, nil
}

// DeleteWorkout removes a workout and its dependent rows. The backend has no
// cascade visible to the client, so the children go first; a failure part-way
// leaves the workout itself intact and retryable.
func (s *Store) DeleteWorkout(ctx context.Context, workoutID string) error {
	if workoutID == "" {
		return fmt.Errorf("deleting workout: empty workout id")
	}
	if err := s.c.From("workout_exercises").Eq("workout_id", workoutID).Delete(ctx); err != nil {
		return fmt.Errorf("deleting workout %s: %w", workoutID, err)
	}
	if err := s.c.From("sets").Eq("workout_id", workoutID).Delete(ctx); err != nil {
		return fmt.Errorf("deleting workout %s: %w", workoutID, err)
	}
	if err := s.c.From("workouts").Eq("id", workoutID).Delete(ctx); err != nil {
		return fmt.Errorf("deleting workout %s: %w", workoutID, err)
	}
	return nil
}
