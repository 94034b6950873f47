package calendar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

type stubWorkouts struct {
	workouts  []models.Workout
	lookupErr error
	listErr   error
}

func (s stubWorkouts) ListWorkoutsInRange(_ context.Context, start, end time.Time) ([]models.Workout, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Workout
	for _, w := range s.workouts {
		if !w.ScheduledDate.Before(start) && w.ScheduledDate.Before(end) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s stubWorkouts) FindWorkoutByDate(_ context.Context, date time.Time) (*models.Workout, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for i, w := range s.workouts {
		if w.ScheduledDate.Equal(date) {
			return &s.workouts[i], nil
		}
	}
	return nil, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		// 2026-08-23 is a Sunday.
		{"sunday stays", day(2026, time.August, 23), day(2026, time.August, 23)},
		{"monday backs up one", day(2026, time.August, 24), day(2026, time.August, 23)},
		{"saturday backs up six", day(2026, time.August, 29), day(2026, time.August, 23)},
		{"month boundary", day(2026, time.September, 1), day(2026, time.August, 30)},
		{"time of day ignored", time.Date(2026, time.August, 26, 23, 45, 0, 0, time.UTC), day(2026, time.August, 23)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadPlacesWorkouts(t *testing.T) {
	src := stubWorkouts{workouts: []models.Workout{
		{ID: "w-sun", UserID: "u", ScheduledDate: day(2026, time.August, 23)},
		{ID: "w-wed", UserID: "u", ScheduledDate: day(2026, time.August, 26)},
		// Outside the week, must not appear.
		{ID: "w-next", UserID: "u", ScheduledDate: day(2026, time.August, 30)},
	}}

	week, err := Load(context.Background(), src, day(2026, time.August, 25))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !week.Start.Equal(day(2026, time.August, 23)) {
		t.Fatalf("week start = %v", week.Start)
	}
	for i, d := range week.Days {
		want := week.Start.AddDate(0, 0, i)
		if !d.Date.Equal(want) {
			t.Errorf("day %d date = %v, want %v", i, d.Date, want)
		}
	}
	if week.Days[0].Workout == nil || week.Days[0].Workout.ID != "w-sun" {
		t.Error("Sunday workout missing")
	}
	if week.Days[3].Workout == nil || week.Days[3].Workout.ID != "w-wed" {
		t.Error("Wednesday workout missing")
	}
	for i, d := range week.Days {
		if i != 0 && i != 3 && d.Workout != nil {
			t.Errorf("day %d unexpectedly has workout %q", i, d.Workout.ID)
		}
	}
}

func TestWeekNavigation(t *testing.T) {
	week, err := Load(context.Background(), stubWorkouts{}, day(2026, time.August, 25))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !week.Prev().Equal(day(2026, time.August, 16)) {
		t.Errorf("Prev = %v", week.Prev())
	}
	if !week.Next().Equal(day(2026, time.August, 30)) {
		t.Errorf("Next = %v", week.Next())
	}
	if !week.Contains(day(2026, time.August, 29)) || week.Contains(day(2026, time.August, 30)) {
		t.Error("Contains boundary wrong")
	}
}

func TestResolveScheduledDay(t *testing.T) {
	src := stubWorkouts{workouts: []models.Workout{
		{ID: "w-1", UserID: "u", ScheduledDate: day(2026, time.August, 24)},
	}}

	res := Resolve(context.Background(), src, time.Date(2026, time.August, 24, 15, 0, 0, 0, time.UTC))
	if res.Route != RouteDetail {
		t.Fatalf("route = %v, want detail", res.Route)
	}
	if res.Workout == nil || res.Workout.ID != "w-1" {
		t.Errorf("workout = %+v", res.Workout)
	}
}

func TestResolveEmptyDay(t *testing.T) {
	res := Resolve(context.Background(), stubWorkouts{}, day(2026, time.August, 24))
	if res.Route != RouteCreate {
		t.Fatalf("route = %v, want create", res.Route)
	}
	if res.LookupErr != nil {
		t.Errorf("unexpected lookup error %v", res.LookupErr)
	}
}

func TestResolveLookupFailureFallsBackToCreate(t *testing.T) {
	src := stubWorkouts{lookupErr: fmt.Errorf("service unavailable")}

	res := Resolve(context.Background(), src, day(2026, time.August, 24))
	if res.Route != RouteCreate {
		t.Fatalf("route = %v, want create fallback", res.Route)
	}
	if res.LookupErr == nil {
		t.Error("lookup error not surfaced")
	}
}
