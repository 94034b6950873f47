package insights

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
)

type stubSource struct {
	workouts  []models.Workout
	sets      []models.Set
	exercises []models.Exercise
}

func (s stubSource) ListWorkoutsInRange(_ context.Context, start, end time.Time) ([]models.Workout, error) {
	var out []models.Workout
	for _, w := range s.workouts {
		if !w.ScheduledDate.Before(start) && w.ScheduledDate.Before(end) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s stubSource) ListSetsInRange(_ context.Context, start, end time.Time) ([]models.Set, error) {
	var out []models.Set
	for _, set := range s.sets {
		if !set.CreatedAt.Before(start) && set.CreatedAt.Before(end) {
			out = append(out, set)
		}
	}
	return out, nil
}

func (s stubSource) ListExercises(context.Context, store.ExerciseFilter) ([]models.Exercise, error) {
	return s.exercises, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2026-08-28 is a Friday; its week starts Sunday 2026-08-23.
var today = day(2026, time.August, 28)

var catalog = []models.Exercise{
	{ID: "ex-bench", Name: "Bench Press", MovementPattern: "push"},
	{ID: "ex-row", Name: "Barbell Row", MovementPattern: "pull"},
	{ID: "ex-squat", Name: "Back Squat", MovementPattern: "legs"},
	{ID: "ex-curl", Name: "Curl"},
}

func TestWeeklyVolumeBuckets(t *testing.T) {
	src := stubSource{
		exercises: catalog,
		sets: []models.Set{
			{ID: "1", ExerciseID: "ex-bench", Reps: 10, WeightKg: 60, CreatedAt: day(2026, time.August, 24)},
			{ID: "2", ExerciseID: "ex-bench", Reps: 5, WeightKg: 80, CreatedAt: day(2026, time.August, 26)},
			{ID: "3", ExerciseID: "ex-row", Reps: 8, WeightKg: 70, CreatedAt: day(2026, time.August, 26)},
			{ID: "4", ExerciseID: "ex-squat", Reps: 5, WeightKg: 120, CreatedAt: day(2026, time.August, 27)},
			{ID: "5", ExerciseID: "ex-curl", Reps: 12, WeightKg: 15, CreatedAt: day(2026, time.August, 27)},
			// Last week, must not count toward weekly volume.
			{ID: "6", ExerciseID: "ex-bench", Reps: 10, WeightKg: 100, CreatedAt: day(2026, time.August, 20)},
		},
	}

	s, err := Compute(context.Background(), src, today)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.WeekVolume.Push != 1000 {
		t.Errorf("push volume = %v, want 1000", s.WeekVolume.Push)
	}
	if s.WeekVolume.Pull != 560 {
		t.Errorf("pull volume = %v, want 560", s.WeekVolume.Pull)
	}
	if s.WeekVolume.Legs != 600 {
		t.Errorf("legs volume = %v, want 600", s.WeekVolume.Legs)
	}
	if s.WeekVolume.Other != 180 {
		t.Errorf("other volume = %v, want 180", s.WeekVolume.Other)
	}
	if s.WeekVolume.Total() != 2340 {
		t.Errorf("total = %v", s.WeekVolume.Total())
	}
	if s.SetsThisWeek != 5 {
		t.Errorf("sets this week = %d, want 5", s.SetsThisWeek)
	}
}

func TestStreakEndsToday(t *testing.T) {
	src := stubSource{workouts: []models.Workout{
		{ID: "a", ScheduledDate: day(2026, time.August, 26)},
		{ID: "b", ScheduledDate: day(2026, time.August, 27)},
		{ID: "c", ScheduledDate: day(2026, time.August, 28)},
		// Gap on the 25th; earlier days don't count.
		{ID: "d", ScheduledDate: day(2026, time.August, 24)},
	}}

	s, err := Compute(context.Background(), src, today)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.StreakDays != 3 {
		t.Errorf("streak = %d, want 3", s.StreakDays)
	}
}

func TestStreakSurvivesRestDayToday(t *testing.T) {
	src := stubSource{workouts: []models.Workout{
		{ID: "a", ScheduledDate: day(2026, time.August, 26)},
		{ID: "b", ScheduledDate: day(2026, time.August, 27)},
	}}

	s, err := Compute(context.Background(), src, today)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.StreakDays != 2 {
		t.Errorf("streak = %d, want 2 (no workout today yet)", s.StreakDays)
	}
}

func TestStreakZero(t *testing.T) {
	s, err := Compute(context.Background(), stubSource{}, today)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.StreakDays != 0 {
		t.Errorf("streak = %d, want 0", s.StreakDays)
	}
}

func TestConsistency(t *testing.T) {
	src := stubSource{
		exercises: catalog,
		workouts: []models.Workout{
			{ID: "a", ScheduledDate: day(2026, time.August, 10)},
			{ID: "b", ScheduledDate: day(2026, time.August, 12)},
			{ID: "c", ScheduledDate: day(2026, time.August, 14)},
			{ID: "d", ScheduledDate: day(2026, time.August, 26)},
		},
		sets: []models.Set{
			{ID: "1", ExerciseID: "ex-bench", Reps: 5, WeightKg: 60, CreatedAt: day(2026, time.August, 10)},
			{ID: "2", ExerciseID: "ex-bench", Reps: 5, WeightKg: 60, CreatedAt: day(2026, time.August, 10)},
			{ID: "3", ExerciseID: "ex-row", Reps: 5, WeightKg: 60, CreatedAt: day(2026, time.August, 26)},
		},
	}

	s, err := Compute(context.Background(), src, today)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.PlannedDays != 4 {
		t.Errorf("planned days = %d, want 4", s.PlannedDays)
	}
	if s.TrainedDays != 2 {
		t.Errorf("trained days = %d, want 2", s.TrainedDays)
	}
	if got := s.Consistency(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("consistency = %v, want 0.5", got)
	}
}

func TestConsistencyNoPlans(t *testing.T) {
	s, err := Compute(context.Background(), stubSource{}, today)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := s.Consistency(); got != 0 {
		t.Errorf("consistency with no plans = %v, want 0", got)
	}
}

func TestWindowExcludesOldData(t *testing.T) {
	src := stubSource{
		exercises: catalog,
		workouts: []models.Workout{
			// 40 days back, outside the 28-day window.
			{ID: "old", ScheduledDate: day(2026, time.July, 19)},
			{ID: "new", ScheduledDate: day(2026, time.August, 26)},
		},
	}

	s, err := Compute(context.Background(), src, today)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.PlannedDays != 1 {
		t.Errorf("planned days = %d, want 1", s.PlannedDays)
	}
}
