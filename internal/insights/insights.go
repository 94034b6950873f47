// Package insights computes the dashboard numbers client-side from fetched
// workouts and sets: weekly volume bucketed by movement pattern, the
// current training streak, and a 28-day consistency ratio.
package insights

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/calendar"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
)

// windowDays is the history window pulled for streak and consistency.
const windowDays = 28

// Source is the slice of the store the dashboard reads from.
type Source interface {
	ListWorkoutsInRange(ctx context.Context, start, end time.Time) ([]models.Workout, error)
	ListSetsInRange(ctx context.Context, start, end time.Time) ([]models.Set, error)
	ListExercises(ctx context.Context, f store.ExerciseFilter) ([]models.Exercise, error)
}

// Volume is total kg lifted (reps times weight) per movement pattern
// bucket.
type Volume struct {
	Push  float64
	Pull  float64
	Legs  float64
	Other float64
}

// Total sums all buckets.
func (v Volume) Total() float64 { return v.Push + v.Pull + v.Legs + v.Other }

// Summary is everything the dashboard renders.
type Summary struct {
	// WeekVolume covers the current Sunday-start week.
	WeekVolume Volume
	// SetsThisWeek counts sets logged in the current week.
	SetsThisWeek int
	// StreakDays is the run of consecutive days with a scheduled workout
	// ending today (or yesterday, when today has none yet).
	StreakDays int
	// TrainedDays and PlannedDays cover the trailing 28 days: days with
	// at least one logged set versus days with a scheduled workout.
	TrainedDays int
	PlannedDays int
}

// Consistency is TrainedDays over PlannedDays, in [0, 1]. A window with no
// planned workouts reads as zero rather than dividing by zero.
func (s *Summary) Consistency() float64 {
	if s.PlannedDays == 0 {
		return 0
	}
	c := float64(s.TrainedDays) / float64(s.PlannedDays)
	if c > 1 {
		return 1
	}
	return c
}

// Compute fetches the trailing window and derives the summary. now anchors
// "today" so tests are deterministic.
func Compute(ctx context.Context, src Source, now time.Time) (*Summary, error) {
	today := store.MidnightUTC(now)
	windowStart := today.AddDate(0, 0, -windowDays+1)
	windowEnd := today.AddDate(0, 0, 1)

	workouts, err := src.ListWorkoutsInRange(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	sets, err := src.ListSetsInRange(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	exercises, err := src.ListExercises(ctx, store.ExerciseFilter{})
	if err != nil {
		return nil, err
	}

	patterns := map[string]string{}
	for _, ex := range exercises {
		patterns[ex.ID] = ex.MovementPattern
	}

	s := &Summary{}

	weekStart := calendar.WeekStart(now)
	weekEnd := weekStart.AddDate(0, 0, 7)
	trained := map[string]bool{}
	for _, set := range sets {
		day := store.MidnightUTC(set.CreatedAt)
		trained[day.Format("2006-01-02")] = true

		if day.Before(weekStart) || !day.Before(weekEnd) {
			continue
		}
		s.SetsThisWeek++
		vol := float64(set.Reps) * set.WeightKg
		switch patterns[set.ExerciseID] {
		case "push":
			s.WeekVolume.Push += vol
		case "pull":
			s.WeekVolume.Pull += vol
		case "legs":
			s.WeekVolume.Legs += vol
		default:
			s.WeekVolume.Other += vol
		}
	}
	s.TrainedDays = len(trained)

	planned := map[string]bool{}
	for _, w := range workouts {
		planned[store.MidnightUTC(w.ScheduledDate).Format("2006-01-02")] = true
	}
	s.PlannedDays = len(planned)

	s.StreakDays = streak(planned, today)
	return s, nil
}

// streak counts consecutive planned days ending at anchor. A rest day today
// does not break a streak that ran through yesterday.
func streak(planned map[string]bool, anchor time.Time) int {
	day := anchor
	if !planned[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for planned[day.Format("2006-01-02")] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}
