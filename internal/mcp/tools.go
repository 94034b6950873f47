package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/insights"
	"github.com/claude/liftlog/internal/store"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query scheduled workouts in a date range, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetSets = mcp.NewTool("get_sets",
	mcp.WithDescription("Query logged sets. Pass workout_id for one workout's sets, or a date range otherwise. Weights are kilograms."),
	mcp.WithString("workout_id", mcp.Description("Workout ID. When set, start/end are ignored.")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetTargets = mcp.NewTool("get_targets",
	mcp.WithDescription("Get the planned exercise targets (rep range, weight, RPE) for one workout."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout ID")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Aggregated training numbers: weekly volume (kg) by movement pattern (push/pull/legs), current streak, and 28-day consistency."),
	mcp.WithString("as_of", mcp.Description("Anchor date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetExercises = mcp.NewTool("get_exercises",
	mcp.WithDescription("Browse the exercise catalog with optional filters."),
	mcp.WithString("muscle_group", mcp.Description("Filter by muscle group (e.g. 'chest', 'back')")),
	mcp.WithString("equipment", mcp.Description("Filter by primary equipment (e.g. 'barbell', 'dumbbell')")),
	mcp.WithString("name", mcp.Description("Filter by name (case-insensitive substring)")),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.ds.ListWorkoutsInRange(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if workoutID := strings.TrimSpace(req.GetString("workout_id", "")); workoutID != "" {
		sets, err := h.ds.ListSetsForWorkout(ctx, workoutID)
		if err != nil {
			h.log.Error("mcp get_sets", "workout", workoutID, "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(sets)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sets, err := h.ds.ListSetsInRange(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}

	targets, err := h.ds.ListTargets(ctx, workoutID)
	if err != nil {
		h.log.Error("mcp get_targets", "workout", workoutID, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(targets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	if asOf := req.GetString("as_of", ""); asOf != "" {
		var err error
		now, err = parseFlexTime(asOf)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	summary, err := insights.Compute(ctx, h.ds, now)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"week_volume_kg": summary.WeekVolume,
		"sets_this_week": summary.SetsThisWeek,
		"streak_days":    summary.StreakDays,
		"trained_days":   summary.TrainedDays,
		"planned_days":   summary.PlannedDays,
		"consistency":    summary.Consistency(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := store.ExerciseFilter{
		MuscleGroup: req.GetString("muscle_group", ""),
		Equipment:   req.GetString("equipment", ""),
		Name:        req.GetString("name", ""),
	}

	exercises, err := h.ds.ListExercises(ctx, f)
	if err != nil {
		h.log.Error("mcp get_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
