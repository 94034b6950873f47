package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/claude/liftlog/internal/calendar"
	"github.com/claude/liftlog/internal/insights"
)

type weekLoadedMsg struct {
	week calendar.Week
	err  error
}

type summaryLoadedMsg struct {
	summary *insights.Summary
	err     error
}

type dayResolvedMsg struct {
	res calendar.Resolution
}

type dashboardView struct {
	deps *Deps
	ctx  context.Context

	anchor   time.Time
	week     calendar.Week
	summary  *insights.Summary
	selected int
	loading  bool
	errText  string
}

func newDashboardView(deps *Deps, ctx context.Context) View {
	now := time.Now()
	return &dashboardView{
		deps:     deps,
		ctx:      ctx,
		anchor:   now,
		selected: int(now.Weekday()),
	}
}

func (v *dashboardView) Title() string { return "This week" }

func (v *dashboardView) Init() tea.Cmd {
	return v.load()
}

func (v *dashboardView) load() tea.Cmd {
	v.loading = true
	v.errText = ""
	anchor := v.anchor
	return tea.Batch(
		request(v, func() tea.Msg {
			week, err := calendar.Load(v.ctx, v.deps.Store, anchor)
			return weekLoadedMsg{week: week, err: err}
		}),
		request(v, func() tea.Msg {
			summary, err := insights.Compute(v.ctx, v.deps.Store, time.Now())
			return summaryLoadedMsg{summary: summary, err: err}
		}),
	)
}

func (v *dashboardView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case weekLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.week = msg.week
		return v, nil

	case summaryLoadedMsg:
		// The calendar is usable without the numbers; a summary error only
		// blanks the panel.
		if msg.err != nil {
			v.deps.Log.Warn("dashboard summary failed", "error", msg.err)
			return v, nil
		}
		v.summary = msg.summary
		return v, nil

	case dayResolvedMsg:
		return v, v.open(msg.res)

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil
		case "right", "l":
			if v.selected < 6 {
				v.selected++
			}
			return v, nil
		case "[":
			v.anchor = v.week.Prev()
			return v, v.load()
		case "]":
			v.anchor = v.week.Next()
			return v, v.load()
		case "t":
			v.anchor = time.Now()
			v.selected = int(time.Now().Weekday())
			return v, v.load()
		case "r":
			return v, v.load()
		case "s":
			deps := v.deps
			return v, push(func(ctx context.Context) View { return newSettingsView(deps, ctx) })
		case "enter":
			date := v.week.Days[v.selected].Date
			return v, request(v, func() tea.Msg {
				return dayResolvedMsg{res: calendar.Resolve(v.ctx, v.deps.Store, date)}
			})
		case "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

// open routes a resolved day tap: detail for a scheduled day, composer
// otherwise. A failed lookup still opens the composer so the day is never a
// dead end.
func (v *dashboardView) open(res calendar.Resolution) tea.Cmd {
	deps := v.deps
	if res.LookupErr != nil {
		deps.Log.Warn("day lookup failed, opening composer", "error", res.LookupErr)
	}
	if res.Route == calendar.RouteDetail {
		w := res.Workout
		return push(func(ctx context.Context) View { return newDetailView(deps, ctx, w) })
	}
	date := res.Date
	return push(func(ctx context.Context) View { return newComposerView(deps, ctx, date) })
}

func (v *dashboardView) View() string {
	s := v.deps.Styles
	var b strings.Builder

	cells := make([]string, 0, 7)
	today := time.Now().UTC().Format("2006-01-02")
	for i, d := range v.week.Days {
		style := s.DayCell
		if d.Workout != nil {
			style = s.DayCellBusy
		}
		if d.Date.Format("2006-01-02") == today {
			style = s.DayCellToday
		}

		label := d.Date.Format("Mon 2")
		body := s.Subtle.Render("rest")
		if d.Workout != nil {
			body = s.Success.Render("planned")
		}
		cell := label + "\n" + body
		if i == v.selected {
			cell = s.Title.Render(label) + "\n" + body
		}
		cells = append(cells, style.Render(cell))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(s.Subtle.Render("loading..."))
		b.WriteString("\n")
	}
	if v.errText != "" {
		b.WriteString(s.Error.Render(v.errText))
		b.WriteString("\n")
	}

	if v.summary != nil {
		b.WriteString(v.renderSummary())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpLine(s,
		"←/→", "day",
		"[ ]", "week",
		"enter", "open day",
		"t", "today",
		"s", "settings",
		"q", "quit",
	))
	return b.String()
}

func (v *dashboardView) renderSummary() string {
	s := v.deps.Styles
	sum := v.summary
	unit := v.deps.Unit()

	var b strings.Builder
	b.WriteString(s.PanelTitle.Render("This week"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s sets  ·  volume %s\n",
		s.Title.Render(fmt.Sprintf("%d", sum.SetsThisWeek)),
		unit.Format(sum.WeekVolume.Total())))
	b.WriteString(fmt.Sprintf("push %s  pull %s  legs %s\n",
		unit.Format(sum.WeekVolume.Push),
		unit.Format(sum.WeekVolume.Pull),
		unit.Format(sum.WeekVolume.Legs)))
	b.WriteString(fmt.Sprintf("streak %d days  ·  consistency %.0f%%\n",
		sum.StreakDays, sum.Consistency()*100))
	return s.Panel.Render(b.String())
}
