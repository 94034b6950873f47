// Package importer loads historical sets from CSV exports. Rows are
// independent: a bad row is counted and skipped, never aborting the batch.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
)

// Columns the CSV must provide, in any order. Weights are kilograms; the
// export format is unit-less on purpose.
var requiredColumns = []string{"date", "exercise_id", "reps", "weight_kg"}

// Stats tracks import progress.
type Stats struct {
	Imported int
	Failed   int
}

// String renders the result line shown to the user.
func (s Stats) String() string {
	return fmt.Sprintf("%d imported, %d failed", s.Imported, s.Failed)
}

// Store is the slice of the data layer the importer writes through.
type Store interface {
	EnsureWorkout(ctx context.Context, date time.Time) (*models.Workout, error)
	AddSet(ctx context.Context, set models.Set) error
}

// Importer reads set rows from CSV and inserts them.
type Importer struct {
	store  Store
	log    *slog.Logger
	dryRun bool

	// workouts caches resolved workouts per date so a day's rows share one.
	workouts map[string]*models.Workout
}

// New creates an importer. With dryRun set, rows are parsed and counted but
// nothing is written.
func New(s Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{
		store:    s,
		log:      log,
		dryRun:   dryRun,
		workouts: map[string]*models.Workout{},
	}
}

// Import reads the CSV and inserts one set per valid row. It returns an
// error only when the stream itself is unusable (unreadable, no header,
// missing required columns); row-level failures are counted in Stats.
func (imp *Importer) Import(ctx context.Context, r io.Reader) (*Stats, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, e.g. wrong field count.
			imp.log.Debug("skipping row", "line", line, "error", err)
			stats.Failed++
			continue
		}

		if err := imp.importRow(ctx, cols, record); err != nil {
			imp.log.Debug("skipping row", "line", line, "error", err)
			stats.Failed++
			continue
		}
		stats.Imported++
	}

	return stats, nil
}

// columnIndex maps column names to positions, verifying the required ones.
func columnIndex(header []string) (map[string]int, error) {
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func field(cols map[string]int, record []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (imp *Importer) importRow(ctx context.Context, cols map[string]int, record []string) error {
	date, err := time.Parse("2006-01-02", field(cols, record, "date"))
	if err != nil {
		return fmt.Errorf("bad date: %w", err)
	}

	set := models.Set{
		ID:         uuid.NewString(),
		ExerciseID: field(cols, record, "exercise_id"),
		CreatedAt:  store.MidnightUTC(date),
	}
	if set.ExerciseID == "" {
		return fmt.Errorf("missing exercise_id")
	}

	set.Reps, err = strconv.Atoi(field(cols, record, "reps"))
	if err != nil || set.Reps < 1 {
		return fmt.Errorf("bad reps %q", field(cols, record, "reps"))
	}

	set.WeightKg, err = strconv.ParseFloat(field(cols, record, "weight_kg"), 64)
	if err != nil || set.WeightKg < 0 {
		return fmt.Errorf("bad weight_kg %q", field(cols, record, "weight_kg"))
	}

	if v := field(cols, record, "rpe"); v != "" {
		rpe, err := strconv.Atoi(v)
		if err != nil || rpe < 1 || rpe > 10 {
			return fmt.Errorf("bad rpe %q", v)
		}
		set.RPE = &rpe
	}
	if v := field(cols, record, "partial_reps"); v != "" {
		partials, err := strconv.Atoi(v)
		if err != nil || partials < 0 {
			return fmt.Errorf("bad partial_reps %q", v)
		}
		set.PartialReps = &partials
	}

	if imp.dryRun {
		return nil
	}

	w, err := imp.workoutFor(ctx, date)
	if err != nil {
		return err
	}
	set.WorkoutID = w.ID

	if err := imp.store.AddSet(ctx, set); err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}
	return nil
}

// workoutFor resolves (or creates) the workout for a date, cached so every
// row of the same day lands in the same workout.
func (imp *Importer) workoutFor(ctx context.Context, date time.Time) (*models.Workout, error) {
	key := store.MidnightUTC(date).Format("2006-01-02")
	if w, ok := imp.workouts[key]; ok {
		return w, nil
	}
	w, err := imp.store.EnsureWorkout(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("resolving workout for %s: %w", key, err)
	}
	imp.workouts[key] = w
	return w, nil
}
