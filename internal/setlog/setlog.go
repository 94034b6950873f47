// Package setlog drives the set logging screen for one exercise on one
// date. It resolves or creates the date's workout, validates entries before
// any remote call, and re-fetches the set list after every write so the
// screen always shows what the service holds.
package setlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/units"
)

// Store is the slice of the data layer the logger uses.
type Store interface {
	EnsureWorkout(ctx context.Context, date time.Time) (*models.Workout, error)
	ListSets(ctx context.Context, workoutID, exerciseID string) ([]models.Set, error)
	AddSet(ctx context.Context, set models.Set) error
	UpdateSet(ctx context.Context, set models.Set) error
	DeleteSet(ctx context.Context, id string) error
}

// Entry is the text-field state for one set. Weight is entered in the
// logger's display unit.
type Entry struct {
	Reps        string
	Weight      string
	RPE         string
	PartialReps string
}

// Logger is the state of one logging session.
type Logger struct {
	store    Store
	unit     units.Unit
	exercise models.Exercise

	workout *models.Workout
	sets    []models.Set

	now   func() time.Time
	newID func() string
}

// New creates a logger for the given exercise.
func New(store Store, unit units.Unit, exercise models.Exercise) *Logger {
	return &Logger{
		store:    store,
		unit:     unit,
		exercise: exercise,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Open resolves (or creates) the workout for the date and loads its sets
// for this exercise.
func (l *Logger) Open(ctx context.Context, date time.Time) error {
	w, err := l.store.EnsureWorkout(ctx, date)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	l.workout = w
	return l.refresh(ctx)
}

// OpenWorkout loads sets against an already-resolved workout.
func (l *Logger) OpenWorkout(ctx context.Context, w *models.Workout) error {
	l.workout = w
	return l.refresh(ctx)
}

func (l *Logger) refresh(ctx context.Context) error {
	sets, err := l.store.ListSets(ctx, l.workout.ID, l.exercise.ID)
	if err != nil {
		return fmt.Errorf("loading sets: %w", err)
	}
	l.sets = sets
	return nil
}

// Sets returns the loaded sets, newest first.
func (l *Logger) Sets() []models.Set {
	return append([]models.Set(nil), l.sets...)
}

// Exercise returns the exercise being logged.
func (l *Logger) Exercise() models.Exercise { return l.exercise }

// Workout returns the resolved workout, nil before Open.
func (l *Logger) Workout() *models.Workout { return l.workout }

// Unit returns the display unit entries are typed in.
func (l *Logger) Unit() units.Unit { return l.unit }

// EntryFor builds the edit buffer for an existing set, weight rendered in
// the display unit.
func (l *Logger) EntryFor(id string) (Entry, bool) {
	for _, s := range l.sets {
		if s.ID != id {
			continue
		}
		e := Entry{
			Reps:   strconv.Itoa(s.Reps),
			Weight: l.unit.FormatBare(s.WeightKg),
		}
		if s.RPE != nil {
			e.RPE = strconv.Itoa(*s.RPE)
		}
		if s.PartialReps != nil {
			e.PartialReps = strconv.Itoa(*s.PartialReps)
		}
		return e, true
	}
	return Entry{}, false
}

// parse validates an entry and converts it to a storable set. All
// validation runs here, before any remote call.
func (l *Logger) parse(e Entry) (models.Set, error) {
	set := models.Set{WorkoutID: l.workout.ID, ExerciseID: l.exercise.ID}

	reps := strings.TrimSpace(e.Reps)
	if reps == "" {
		return set, errors.New("reps is required")
	}
	n, err := strconv.Atoi(reps)
	if err != nil || n < 1 {
		return set, errors.New("reps must be a positive whole number")
	}
	set.Reps = n

	weight := strings.TrimSpace(e.Weight)
	if weight == "" {
		return set, errors.New("weight is required")
	}
	kg, err := l.unit.ParseWeight(weight)
	if err != nil {
		return set, err
	}
	set.WeightKg = kg

	if rpe := strings.TrimSpace(e.RPE); rpe != "" {
		n, err := strconv.Atoi(rpe)
		if err != nil {
			return set, errors.New("RPE must be a whole number")
		}
		if n < 1 || n > 10 {
			return set, errors.New("RPE must be between 1 and 10")
		}
		set.RPE = &n
	}

	if partials := strings.TrimSpace(e.PartialReps); partials != "" {
		n, err := strconv.Atoi(partials)
		if err != nil || n < 0 {
			return set, errors.New("partial reps must be a non-negative whole number")
		}
		set.PartialReps = &n
	}

	return set, nil
}

// Add validates the entry, stores the new set, and re-fetches the list.
func (l *Logger) Add(ctx context.Context, e Entry) error {
	if l.workout == nil {
		return errors.New("log not opened")
	}
	set, err := l.parse(e)
	if err != nil {
		return err
	}
	set.ID = l.newID()
	set.CreatedAt = l.now().UTC()
	if err := l.store.AddSet(ctx, set); err != nil {
		return err
	}
	return l.refresh(ctx)
}

// Edit validates the entry, patches the existing set, and re-fetches.
func (l *Logger) Edit(ctx context.Context, id string, e Entry) error {
	if l.workout == nil {
		return errors.New("log not opened")
	}
	set, err := l.parse(e)
	if err != nil {
		return err
	}
	set.ID = id
	if err := l.store.UpdateSet(ctx, set); err != nil {
		return err
	}
	return l.refresh(ctx)
}

// Delete removes a set and re-fetches. Callers confirm with the user
// before calling; deletion is not undoable.
func (l *Logger) Delete(ctx context.Context, id string) error {
	if l.workout == nil {
		return errors.New("log not opened")
	}
	if err := l.store.DeleteSet(ctx, id); err != nil {
		return err
	}
	return l.refresh(ctx)
}
