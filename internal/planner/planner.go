// Package planner holds the workout composer state: which exercises are
// selected and the per-exercise target drafts, kept in lockstep. The same
// composer backs both creating a plan for an empty date and editing an
// existing workout's targets.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/units"
)

var (
	// ErrNotSignedIn means the composer was opened without a resolved user.
	ErrNotSignedIn = errors.New("not logged in")
	// ErrNoExercises means save was attempted with an empty selection.
	ErrNoExercises = errors.New("select at least one exercise")
)

// Saver is the slice of the store the composer writes through.
type Saver interface {
	EnsureWorkout(ctx context.Context, date time.Time) (*models.Workout, error)
	InsertTargets(ctx context.Context, rows []models.WorkoutExercise) error
	ReplaceTargets(ctx context.Context, workoutID string, rows []models.WorkoutExercise) error
}

// Mode distinguishes planning a new workout from editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Draft is the text-field state for one exercise's target. All fields are
// optional; blanks become null targets on save. Weight is entered in the
// composer's display unit.
type Draft struct {
	RepsMin string
	RepsMax string
	Weight  string
	RPE     string
}

func (d Draft) empty() bool {
	return d.RepsMin == "" && d.RepsMax == "" && d.Weight == "" && d.RPE == ""
}

// Composer accumulates an exercise selection and its target drafts.
type Composer struct {
	mode      Mode
	userID    string
	workoutID string
	date      time.Time
	unit      units.Unit

	selected []models.Exercise
	drafts   map[string]Draft
}

// NewCreate starts a composer for an empty date.
func NewCreate(userID string, date time.Time, unit units.Unit) *Composer {
	return &Composer{
		mode:   ModeCreate,
		userID: userID,
		date:   date,
		unit:   unit,
		drafts: map[string]Draft{},
	}
}

// NewEdit starts a composer over an existing workout's targets. The current
// rows seed the selection and drafts so the user edits what is saved.
func NewEdit(userID, workoutID string, unit units.Unit, exercises []models.Exercise, current []models.WorkoutExercise) *Composer {
	c := &Composer{
		mode:      ModeEdit,
		userID:    userID,
		workoutID: workoutID,
		unit:      unit,
		drafts:    map[string]Draft{},
	}
	byID := map[string]models.Exercise{}
	for _, ex := range exercises {
		byID[ex.ID] = ex
	}
	for _, row := range current {
		ex, ok := byID[row.ExerciseID]
		if !ok {
			ex = models.Exercise{ID: row.ExerciseID, Name: row.ExerciseID}
		}
		c.selected = append(c.selected, ex)
		c.drafts[row.ExerciseID] = c.draftFromRow(row)
	}
	return c
}

func (c *Composer) draftFromRow(row models.WorkoutExercise) Draft {
	var d Draft
	if row.TargetRepsMin != nil {
		d.RepsMin = strconv.Itoa(*row.TargetRepsMin)
	}
	if row.TargetRepsMax != nil {
		d.RepsMax = strconv.Itoa(*row.TargetRepsMax)
	}
	if row.TargetWeightKg != nil {
		d.Weight = c.unit.FormatBare(*row.TargetWeightKg)
	}
	if row.TargetRPE != nil {
		d.RPE = strconv.Itoa(*row.TargetRPE)
	}
	return d
}

// Mode reports whether this composer creates or edits.
func (c *Composer) Mode() Mode { return c.mode }

// Date returns the scheduled date (create mode).
func (c *Composer) Date() time.Time { return c.date }

// Unit returns the display unit drafts are entered in.
func (c *Composer) Unit() units.Unit { return c.unit }

// Selected returns the selection in pick order.
func (c *Composer) Selected() []models.Exercise {
	return append([]models.Exercise(nil), c.selected...)
}

// IsSelected reports whether the exercise is in the selection.
func (c *Composer) IsSelected(exerciseID string) bool {
	_, ok := c.drafts[exerciseID]
	return ok
}

// Toggle adds the exercise to the selection with a blank draft, or removes
// it and its draft when already selected.
func (c *Composer) Toggle(ex models.Exercise) {
	if c.IsSelected(ex.ID) {
		c.deselect(ex.ID)
		return
	}
	c.selected = append(c.selected, ex)
	c.drafts[ex.ID] = Draft{}
}

func (c *Composer) deselect(exerciseID string) {
	delete(c.drafts, exerciseID)
	for i, ex := range c.selected {
		if ex.ID == exerciseID {
			c.selected = append(c.selected[:i], c.selected[i+1:]...)
			return
		}
	}
}

// Draft returns the target draft for a selected exercise.
func (c *Composer) Draft(exerciseID string) (Draft, bool) {
	d, ok := c.drafts[exerciseID]
	return d, ok
}

// SetDraft replaces the draft for a selected exercise.
func (c *Composer) SetDraft(exerciseID string, d Draft) error {
	if !c.IsSelected(exerciseID) {
		return fmt.Errorf("exercise %s is not selected", exerciseID)
	}
	c.drafts[exerciseID] = d
	return nil
}

// Rows validates every draft and converts the selection into target rows.
// WorkoutID is left blank in create mode until the workout exists.
func (c *Composer) Rows() ([]models.WorkoutExercise, error) {
	rows := make([]models.WorkoutExercise, 0, len(c.selected))
	for _, ex := range c.selected {
		row, err := c.rowFromDraft(ex, c.drafts[ex.ID])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Composer) rowFromDraft(ex models.Exercise, d Draft) (models.WorkoutExercise, error) {
	row := models.WorkoutExercise{WorkoutID: c.workoutID, ExerciseID: ex.ID}

	var err error
	if row.TargetRepsMin, err = optionalInt(d.RepsMin, 1); err != nil {
		return row, fmt.Errorf("%s: min reps: %w", ex.Name, err)
	}
	if row.TargetRepsMax, err = optionalInt(d.RepsMax, 1); err != nil {
		return row, fmt.Errorf("%s: max reps: %w", ex.Name, err)
	}
	if row.TargetRepsMin != nil && row.TargetRepsMax != nil && *row.TargetRepsMin > *row.TargetRepsMax {
		return row, fmt.Errorf("%s: min reps exceeds max reps", ex.Name)
	}
	if strings.TrimSpace(d.Weight) != "" {
		kg, err := c.unit.ParseWeight(d.Weight)
		if err != nil {
			return row, fmt.Errorf("%s: weight: %w", ex.Name, err)
		}
		row.TargetWeightKg = &kg
	}
	if row.TargetRPE, err = optionalInt(d.RPE, 1); err != nil {
		return row, fmt.Errorf("%s: RPE: %w", ex.Name, err)
	}
	if row.TargetRPE != nil && *row.TargetRPE > 10 {
		return row, fmt.Errorf("%s: RPE must be between 1 and 10", ex.Name)
	}
	return row, nil
}

// optionalInt parses a blank-or-whole-number field. Values below min are
// rejected.
func optionalInt(s string, min int) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.New("must be a whole number")
	}
	if n < min {
		return nil, fmt.Errorf("must be at least %d", min)
	}
	return &n, nil
}

// Save validates and persists the plan. All validation happens before any
// remote call: a signed-out user or empty selection never reaches the
// network. In create mode the workout for the date is found or created and
// the rows inserted; in edit mode the workout's rows are replaced.
func (c *Composer) Save(ctx context.Context, s Saver) (*models.Workout, error) {
	if c.userID == "" {
		return nil, ErrNotSignedIn
	}
	if len(c.selected) == 0 {
		return nil, ErrNoExercises
	}
	rows, err := c.Rows()
	if err != nil {
		return nil, err
	}

	if c.mode == ModeEdit {
		if err := s.ReplaceTargets(ctx, c.workoutID, rows); err != nil {
			return nil, err
		}
		return nil, nil
	}

	w, err := s.EnsureWorkout(ctx, c.date)
	if err != nil {
		return nil, fmt.Errorf("creating workout: %w", err)
	}
	for i := range rows {
		rows[i].WorkoutID = w.ID
	}
	if err := s.InsertTargets(ctx, rows); err != nil {
		return nil, err
	}
	return w, nil
}
