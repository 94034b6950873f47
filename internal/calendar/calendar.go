// Package calendar builds the weekly workout view. Weeks start on Sunday
// and days are keyed by midnight-UTC dates, matching how workouts are
// stored.
package calendar

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
)

// WorkoutSource is the slice of the store the calendar reads from.
type WorkoutSource interface {
	ListWorkoutsInRange(ctx context.Context, start, end time.Time) ([]models.Workout, error)
	FindWorkoutByDate(ctx context.Context, date time.Time) (*models.Workout, error)
}

// Day is one calendar cell: a date and the workout scheduled on it, if any.
type Day struct {
	Date    time.Time
	Workout *models.Workout
}

// Week is seven consecutive days starting on a Sunday.
type Week struct {
	Start time.Time
	Days  [7]Day
}

// WeekStart returns midnight UTC of the Sunday beginning the week
// containing t.
func WeekStart(t time.Time) time.Time {
	d := store.MidnightUTC(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// Load fetches the week containing anchor and places each scheduled workout
// on its day.
func Load(ctx context.Context, src WorkoutSource, anchor time.Time) (Week, error) {
	start := WeekStart(anchor)
	end := start.AddDate(0, 0, 7)

	w := Week{Start: start}
	for i := range w.Days {
		w.Days[i].Date = start.AddDate(0, 0, i)
	}

	workouts, err := src.ListWorkoutsInRange(ctx, start, end)
	if err != nil {
		return Week{}, err
	}
	for i := range workouts {
		day := int(store.MidnightUTC(workouts[i].ScheduledDate).Sub(start).Hours() / 24)
		if day >= 0 && day < 7 {
			w.Days[day].Workout = &workouts[i]
		}
	}
	return w, nil
}

// Prev returns the anchor for the preceding week.
func (w Week) Prev() time.Time { return w.Start.AddDate(0, 0, -7) }

// Next returns the anchor for the following week.
func (w Week) Next() time.Time { return w.Start.AddDate(0, 0, 7) }

// Contains reports whether t falls inside the week.
func (w Week) Contains(t time.Time) bool {
	d := store.MidnightUTC(t)
	return !d.Before(w.Start) && d.Before(w.Start.AddDate(0, 0, 7))
}

// Route names the screen a day tap leads to.
type Route int

const (
	// RouteDetail opens the scheduled workout.
	RouteDetail Route = iota
	// RouteCreate opens the workout composer for the date.
	RouteCreate
)

// Resolution is the outcome of tapping a day.
type Resolution struct {
	Route   Route
	Date    time.Time
	Workout *models.Workout
	// LookupErr records a failed existence check. The route is still
	// RouteCreate so the user is never stuck, but the composer can warn
	// that a workout may already exist.
	LookupErr error
}

// Resolve decides where a day tap goes: the workout detail when one is
// scheduled, otherwise the composer. A lookup failure routes to the
// composer with the error recorded.
func Resolve(ctx context.Context, src WorkoutSource, date time.Time) Resolution {
	day := store.MidnightUTC(date)
	w, err := src.FindWorkoutByDate(ctx, day)
	if err != nil {
		return Resolution{Route: RouteCreate, Date: day, LookupErr: err}
	}
	if w == nil {
		return Resolution{Route: RouteCreate, Date: day}
	}
	return Resolution{Route: RouteDetail, Date: day, Workout: w}
}
