package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/remote"
)

// fakeService is an in-memory row store speaking just enough of the data
// service's REST dialect for the store methods under test: eq/gte/lt filters,
// order, limit, and insert-with-representation.
type fakeService struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
}

func newFakeService() *fakeService {
	return &fakeService{tables: map[string][]map[string]any{}}
}

func (f *fakeService) router() http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/rest/v1/{table}", f.handleTable)
	return r
}

func (f *fakeService) handleTable(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := chi.URLParam(r, "table")
	rows := f.tables[table]

	switch r.Method {
	case http.MethodGet:
		out := filterRows(rows, r.URL.Query())
		orderRows(out, r.URL.Query().Get("order"))
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n < len(out) {
				out = out[:n]
			}
		}
		writeRows(w, out)
	case http.MethodPost:
		var inserted []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&inserted); err != nil {
			http.Error(w, fmt.Sprintf(`{"message":%q}`, err.Error()), http.StatusBadRequest)
			return
		}
		f.tables[table] = append(rows, inserted...)
		writeRows(w, inserted)
	case http.MethodPatch:
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, `{"message":"bad patch"}`, http.StatusBadRequest)
			return
		}
		for _, row := range filterRows(rows, r.URL.Query()) {
			for k, v := range patch {
				row[k] = v
			}
		}
		writeRows(w, nil)
	case http.MethodDelete:
		var kept []map[string]any
		matched := filterRows(rows, r.URL.Query())
		for _, row := range rows {
			if !containsRow(matched, row) {
				kept = append(kept, row)
			}
		}
		f.tables[table] = kept
		writeRows(w, nil)
	default:
		http.Error(w, `{"message":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (f *fakeService) seed(t *testing.T, table string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal seed row: %v", err)
	}
	var row map[string]any
	if err := json.Unmarshal(b, &row); err != nil {
		t.Fatalf("unmarshal seed row: %v", err)
	}
	f.mu.Lock()
	f.tables[table] = append(f.tables[table], row)
	f.mu.Unlock()
}

func (f *fakeService) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeService) rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.tables[table]...)
}

func filterRows(rows []map[string]any, params map[string][]string) []map[string]any {
	var out []map[string]any
	for _, row := range rows {
		if rowMatches(row, params) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row map[string]any, params map[string][]string) bool {
	for col, conds := range params {
		switch col {
		case "select", "order", "limit":
			continue
		}
		for _, cond := range conds {
			op, want, ok := strings.Cut(cond, ".")
			if !ok {
				return false
			}
			got := fmt.Sprint(row[col])
			switch op {
			case "eq":
				if got != want {
					return false
				}
			case "gte":
				if got < want {
					return false
				}
			case "lt":
				if got >= want {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

func orderRows(rows []map[string]any, spec string) {
	if spec == "" {
		return
	}
	col, dir, _ := strings.Cut(spec, ".")
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := fmt.Sprint(rows[i][col]), fmt.Sprint(rows[j][col])
		if dir == "desc" {
			return a > b
		}
		return a < b
	})
}

func containsRow(rows []map[string]any, row map[string]any) bool {
	for _, r := range rows {
		if fmt.Sprint(r) == fmt.Sprint(row) {
			return true
		}
	}
	return false
}

func writeRows(w http.ResponseWriter, rows []map[string]any) {
	if rows == nil {
		rows = []map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func newTestStore(t *testing.T) (*Store, *fakeService) {
	t.Helper()
	fake := newFakeService()
	srv := httptest.NewServer(fake.router())
	t.Cleanup(srv.Close)

	c := remote.NewClient(srv.URL, "anon-key")
	c.UseSession(&remote.Session{
		AccessToken: "token",
		ExpiresIn:   3600,
		User:        remote.User{ID: "user-1"},
		IssuedAt:    time.Now(),
	})
	return New(c), fake
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEnsureWorkoutCreatesOnce(t *testing.T) {
	s, fake := newTestStore(t)
	ctx := context.Background()

	morning := time.Date(2026, time.August, 24, 7, 30, 0, 0, time.UTC)
	evening := time.Date(2026, time.August, 24, 21, 0, 0, 0, time.UTC)

	first, err := s.EnsureWorkout(ctx, morning)
	if err != nil {
		t.Fatalf("first EnsureWorkout: %v", err)
	}
	second, err := s.EnsureWorkout(ctx, evening)
	if err != nil {
		t.Fatalf("second EnsureWorkout: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("got two workouts %q and %q for one date", first.ID, second.ID)
	}
	if n := fake.count("workouts"); n != 1 {
		t.Errorf("workout rows = %d, want 1", n)
	}
	if !first.ScheduledDate.Equal(day(2026, time.August, 24)) {
		t.Errorf("scheduled date = %v, want midnight UTC", first.ScheduledDate)
	}
}

func TestFindWorkoutByDateAbsent(t *testing.T) {
	s, _ := newTestStore(t)

	w, err := s.FindWorkoutByDate(context.Background(), day(2026, time.August, 24))
	if err != nil {
		t.Fatalf("FindWorkoutByDate: %v", err)
	}
	if w != nil {
		t.Errorf("got workout %+v, want nil for empty day", w)
	}
}

func TestListWorkoutsInRange(t *testing.T) {
	s, fake := newTestStore(t)
	ctx := context.Background()

	for _, d := range []time.Time{
		day(2026, time.August, 17),
		day(2026, time.August, 20),
		day(2026, time.August, 24),
	} {
		fake.seed(t, "workouts", models.Workout{
			ID: "w-" + d.Format("0102"), UserID: "user-1", ScheduledDate: d,
		})
	}

	got, err := s.ListWorkoutsInRange(ctx, day(2026, time.August, 17), day(2026, time.August, 24))
	if err != nil {
		t.Fatalf("ListWorkoutsInRange: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d workouts, want 2 (end date exclusive)", len(got))
	}
	if !got[0].ScheduledDate.After(got[1].ScheduledDate) {
		t.Errorf("workouts not sorted newest first: %v then %v",
			got[0].ScheduledDate, got[1].ScheduledDate)
	}
}

func TestReplaceTargetsLeavesExactRows(t *testing.T) {
	s, fake := newTestStore(t)
	ctx := context.Background()

	fake.seed(t, "workout_exercises", models.WorkoutExercise{
		WorkoutID: "w-1", ExerciseID: "ex-squat",
		TargetRepsMin: intPtr(5), TargetRepsMax: intPtr(5),
	})
	fake.seed(t, "workout_exercises", models.WorkoutExercise{
		WorkoutID: "w-1", ExerciseID: "ex-bench",
		TargetRepsMin: intPtr(8), TargetRepsMax: intPtr(12),
	})
	// Another workout's plan must survive the replace untouched.
	fake.seed(t, "workout_exercises", models.WorkoutExercise{
		WorkoutID: "w-2", ExerciseID: "ex-row",
	})

	next := []models.WorkoutExercise{
		{WorkoutID: "w-1", ExerciseID: "ex-squat", TargetRepsMin: intPtr(3), TargetRepsMax: intPtr(5), TargetWeightKg: floatPtr(100)},
		{WorkoutID: "w-1", ExerciseID: "ex-deadlift", TargetRPE: intPtr(8)},
	}
	if err := s.ReplaceTargets(ctx, "w-1", next); err != nil {
		t.Fatalf("ReplaceTargets: %v", err)
	}

	got, err := s.ListTargets(ctx, "w-1")
	if err != nil {
		t.Fatalf("ListTargets: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d targets, want exactly the 2 submitted rows", len(got))
	}
	byExercise := map[string]models.WorkoutExercise{}
	for _, row := range got {
		byExercise[row.ExerciseID] = row
	}
	squat, ok := byExercise["ex-squat"]
	if !ok || squat.TargetRepsMin == nil || *squat.TargetRepsMin != 3 {
		t.Errorf("squat target not replaced: %+v", squat)
	}
	if _, stale := byExercise["ex-bench"]; stale {
		t.Error("dropped exercise survived the replace")
	}
	if _, ok := byExercise["ex-deadlift"]; !ok {
		t.Error("added exercise missing after replace")
	}

	other, err := s.ListTargets(ctx, "w-2")
	if err != nil {
		t.Fatalf("ListTargets w-2: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("other workout's targets changed, got %d rows", len(other))
	}
}

func TestReplaceTargetsRejectsForeignRow(t *testing.T) {
	s, fake := newTestStore(t)

	fake.seed(t, "workout_exercises", models.WorkoutExercise{WorkoutID: "w-1", ExerciseID: "ex-squat"})

	rows := []models.WorkoutExercise{{WorkoutID: "w-other", ExerciseID: "ex-bench"}}
	if err := s.ReplaceTargets(context.Background(), "w-1", rows); err == nil {
		t.Fatal("ReplaceTargets accepted a row for a different workout")
	}
	// Validation failed before the delete; the old plan is intact.
	if n := fake.count("workout_exercises"); n != 1 {
		t.Errorf("existing targets touched, %d rows left", n)
	}
}

func TestReplaceTargetsRejectsEmptySelection(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.ReplaceTargets(context.Background(), "w-1", nil); err == nil {
		t.Fatal("ReplaceTargets accepted an empty selection")
	}
}

func TestAddAndListSets(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.August, 24, 18, 0, 0, 0, time.UTC)
	for i, reps := range []int{8, 6} {
		set := models.Set{
			ID:         fmt.Sprintf("set-%d", i),
			WorkoutID:  "w-1",
			ExerciseID: "ex-bench",
			Reps:       reps,
			WeightKg:   60,
			RPE:        intPtr(7 + i),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AddSet(ctx, set); err != nil {
			t.Fatalf("AddSet %d: %v", i, err)
		}
	}
	// A set against another exercise must not leak into the listing.
	if err := s.AddSet(ctx, models.Set{
		ID: "set-other", WorkoutID: "w-1", ExerciseID: "ex-squat",
		Reps: 5, WeightKg: 100, CreatedAt: base,
	}); err != nil {
		t.Fatalf("AddSet other: %v", err)
	}

	got, err := s.ListSets(ctx, "w-1", "ex-bench")
	if err != nil {
		t.Fatalf("ListSets: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sets, want 2", len(got))
	}
	if got[0].Reps != 6 || got[1].Reps != 8 {
		t.Errorf("sets not newest first: reps %d then %d", got[0].Reps, got[1].Reps)
	}

	all, err := s.ListSetsForWorkout(ctx, "w-1")
	if err != nil {
		t.Fatalf("ListSetsForWorkout: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d workout sets, want 3", len(all))
	}
}

func TestUpdateSet(t *testing.T) {
	s, fake := newTestStore(t)
	ctx := context.Background()

	fake.seed(t, "sets", models.Set{
		ID: "set-1", WorkoutID: "w-1", ExerciseID: "ex-bench",
		Reps: 8, WeightKg: 60, CreatedAt: day(2026, time.August, 24),
	})

	err := s.UpdateSet(ctx, models.Set{
		ID: "set-1", Reps: 10, WeightKg: 62.5, RPE: intPtr(9), PartialReps: intPtr(2),
	})
	if err != nil {
		t.Fatalf("UpdateSet: %v", err)
	}

	rows := fake.rows("sets")
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["reps"] != float64(10) || rows[0]["weight_kg"] != 62.5 {
		t.Errorf("patch not applied: %+v", rows[0])
	}
}

func TestUpdateSetEmptyID(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.UpdateSet(context.Background(), models.Set{Reps: 5}); err == nil {
		t.Fatal("UpdateSet accepted an empty id")
	}
}

func TestDeleteSet(t *testing.T) {
	s, fake := newTestStore(t)

	fake.seed(t, "sets", models.Set{ID: "set-1", WorkoutID: "w-1", ExerciseID: "ex-bench", Reps: 8})
	fake.seed(t, "sets", models.Set{ID: "set-2", WorkoutID: "w-1", ExerciseID: "ex-bench", Reps: 6})

	if err := s.DeleteSet(context.Background(), "set-1"); err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}
	rows := fake.rows("sets")
	if len(rows) != 1 || rows[0]["id"] != "set-2" {
		t.Errorf("wrong rows after delete: %+v", rows)
	}
}

func TestDeleteWorkoutCascades(t *testing.T) {
	s, fake := newTestStore(t)

	fake.seed(t, "workouts", models.Workout{ID: "w-1", UserID: "user-1", ScheduledDate: day(2026, time.August, 24)})
	fake.seed(t, "workouts", models.Workout{ID: "w-2", UserID: "user-1", ScheduledDate: day(2026, time.August, 25)})
	fake.seed(t, "workout_exercises", models.WorkoutExercise{WorkoutID: "w-1", ExerciseID: "ex-squat"})
	fake.seed(t, "workout_exercises", models.WorkoutExercise{WorkoutID: "w-2", ExerciseID: "ex-row"})
	fake.seed(t, "sets", models.Set{ID: "set-1", WorkoutID: "w-1", ExerciseID: "ex-squat", Reps: 5})

	if err := s.DeleteWorkout(context.Background(), "w-1"); err != nil {
		t.Fatalf("DeleteWorkout: %v", err)
	}

	if n := fake.count("workouts"); n != 1 {
		t.Errorf("workouts left = %d, want 1", n)
	}
	if n := fake.count("sets"); n != 0 {
		t.Errorf("sets left = %d, want 0", n)
	}
	targets := fake.rows("workout_exercises")
	if len(targets) != 1 || targets[0]["workout_id"] != "w-2" {
		t.Errorf("wrong targets after cascade: %+v", targets)
	}
}

func TestGetProfileRequiresSession(t *testing.T) {
	fake := newFakeService()
	srv := httptest.NewServer(fake.router())
	t.Cleanup(srv.Close)

	s := New(remote.NewClient(srv.URL, "anon-key"))
	_, err := s.GetProfile(context.Background())
	if !errors.Is(err, remote.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestGetAndUpdateProfile(t *testing.T) {
	s, fake := newTestStore(t)
	ctx := context.Background()

	fake.seed(t, "profiles", models.Profile{ID: "user-1", Username: "ada", DefaultUnits: "kg"})

	p, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Username != "ada" || p.DefaultUnits != "kg" {
		t.Errorf("unexpected profile %+v", p)
	}

	if err := s.UpdateProfile(ctx, "ada", "lb"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	p, err = s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile after update: %v", err)
	}
	if p.DefaultUnits != "lb" {
		t.Errorf("default units = %q, want lb", p.DefaultUnits)
	}
}

func TestListExercisesFilters(t *testing.T) {
	s, fake := newTestStore(t)
	ctx := context.Background()

	fake.seed(t, "exercises", models.Exercise{ID: "ex-1", Name: "Barbell Bench Press", MuscleGroup: "chest", PrimaryEquipment: "barbell"})
	fake.seed(t, "exercises", models.Exercise{ID: "ex-2", Name: "Dumbbell Bench Press", MuscleGroup: "chest", PrimaryEquipment: "dumbbell"})
	fake.seed(t, "exercises", models.Exercise{ID: "ex-3", Name: "Barbell Row", MuscleGroup: "back", PrimaryEquipment: "barbell"})

	got, err := s.ListExercises(ctx, ExerciseFilter{MuscleGroup: "chest", Name: "dumbbell"})
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ex-2" {
		t.Errorf("wrong exercises: %+v", got)
	}

	all, err := s.ListExercises(ctx, ExerciseFilter{})
	if err != nil {
		t.Fatalf("ListExercises unfiltered: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d exercises, want 3", len(all))
	}
}

func TestMidnightUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2026, time.August, 24, 22, 15, 0, 0, loc)
	got := MidnightUTC(in)
	want := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MidnightUTC(%v) = %v, want %v", in, got, want)
	}
}
