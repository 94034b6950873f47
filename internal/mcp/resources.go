package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/calendar"
	"github.com/claude/liftlog/internal/insights"
)

var resWeekSummary = mcp.NewResource(
	"liftlog://week_summary",
	"Week Summary",
	mcp.WithResourceDescription("This week's workouts, sets logged, volume by movement pattern, and streak"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) weekSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	now := time.Now()

	summary, err := insights.Compute(ctx, h.ds, now)
	if err != nil {
		return nil, err
	}

	weekStart := calendar.WeekStart(now)
	workouts, err := h.ds.ListWorkoutsInRange(ctx, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		h.log.Warn("week_summary: workout query failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"week_start":     weekStart.Format("2006-01-02"),
		"workouts":       workouts,
		"sets_this_week": summary.SetsThisWeek,
		"week_volume_kg": summary.WeekVolume,
		"streak_days":    summary.StreakDays,
		"consistency":    summary.Consistency(),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
