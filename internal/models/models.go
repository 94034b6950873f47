package models

import "time"

// Profile holds per-user settings. The row ID equals the auth user ID, so a
// signed-in user reads exactly one profile.
type Profile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	DefaultUnits string `json:"default_units"`
}

// Exercise is a catalog entry. The catalog is read-only from the client's
// perspective; rows are referenced by ID from targets and sets.
type Exercise struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	MuscleGroup      string `json:"muscle_group,omitempty"`
	PrimaryEquipment string `json:"primary_equipment,omitempty"`
	MovementPattern  string `json:"movement_pattern,omitempty"`
}

// Workout is one scheduled session. ScheduledDate is normalized to midnight
// UTC; at most one workout exists per user per date.
type Workout struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

// WorkoutExercise is the planned target for one exercise within one workout.
// At most one row exists per (workout_id, exercise_id); edits replace the
// whole set of rows for a workout rather than patching fields.
type WorkoutExercise struct {
	WorkoutID      string   `json:"workout_id"`
	ExerciseID     string   `json:"exercise_id"`
	TargetRepsMin  *int     `json:"target_reps_min"`
	TargetRepsMax  *int     `json:"target_reps_max"`
	TargetWeightKg *float64 `json:"target_weight"`
	TargetRPE      *int     `json:"target_rpe"`
}

// Set is one performed set. WeightKg is always kilograms regardless of the
// user's display unit; conversion happens at the units boundary, never here.
type Set struct {
	ID          string    `json:"id"`
	WorkoutID   string    `json:"workout_id"`
	ExerciseID  string    `json:"exercise_id"`
	Reps        int       `json:"reps"`
	PartialReps *int      `json:"partial_reps"`
	WeightKg    float64   `json:"weight_kg"`
	RPE         *int      `json:"rpe"`
	CreatedAt   time.Time `json:"created_at"`
}
