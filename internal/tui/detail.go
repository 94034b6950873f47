package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/store"
	"github.com/claude/liftlog/internal/units"
)

type detailLoadedMsg struct {
	targets   []models.WorkoutExercise
	sets      []models.Set
	exercises []models.Exercise
	err       error
}

type workoutDeletedMsg struct{ err error }

type detailView struct {
	deps *Deps
	ctx  context.Context

	workout *models.Workout
	targets []models.WorkoutExercise
	byID    map[string]models.Exercise
	setsFor map[string]int
	catalog []models.Exercise

	cursor     int
	confirming bool
	busy       bool
	errText    string
}

func newDetailView(deps *Deps, ctx context.Context, workout *models.Workout) View {
	return &detailView{
		deps:    deps,
		ctx:     ctx,
		workout: workout,
		byID:    map[string]models.Exercise{},
		setsFor: map[string]int{},
	}
}

func (v *detailView) Title() string {
	return v.workout.ScheduledDate.Format("Mon, Jan 2")
}

func (v *detailView) Init() tea.Cmd {
	return v.load()
}

func (v *detailView) load() tea.Cmd {
	v.errText = ""
	return request(v, func() tea.Msg {
		targets, err := v.deps.Store.ListTargets(v.ctx, v.workout.ID)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		sets, err := v.deps.Store.ListSetsForWorkout(v.ctx, v.workout.ID)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		exercises, err := v.deps.Store.ListExercises(v.ctx, store.ExerciseFilter{})
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		return detailLoadedMsg{targets: targets, sets: sets, exercises: exercises}
	})
}

func (v *detailView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.targets = msg.targets
		v.catalog = msg.exercises
		v.byID = map[string]models.Exercise{}
		for _, ex := range msg.exercises {
			v.byID[ex.ID] = ex
		}
		v.setsFor = map[string]int{}
		for _, set := range msg.sets {
			v.setsFor[set.ExerciseID]++
		}
		if v.cursor >= len(v.targets) {
			v.cursor = 0
		}
		return v, nil

	case workoutDeletedMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		return v, func() tea.Msg { return pop() }

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		if v.confirming {
			switch msg.String() {
			case "y":
				v.confirming = false
				v.busy = true
				return v, request(v, func() tea.Msg {
					return workoutDeletedMsg{err: v.deps.Store.DeleteWorkout(v.ctx, v.workout.ID)}
				})
			default:
				v.confirming = false
			}
			return v, nil
		}

		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.targets)-1 {
				v.cursor++
			}
		case "enter":
			if len(v.targets) == 0 {
				return v, nil
			}
			deps := v.deps
			workout := v.workout
			ex := v.exerciseAt(v.cursor)
			return v, push(func(ctx context.Context) View {
				return newLogSetView(deps, ctx, workout, ex)
			})
		case "e":
			deps := v.deps
			workout := v.workout
			targets := v.targets
			catalog := v.catalog
			return v, push(func(ctx context.Context) View {
				return newEditTargetsView(deps, ctx, workout, targets, catalog)
			})
		case "d":
			v.confirming = true
		case "r":
			return v, v.load()
		case "esc", "q":
			return v, func() tea.Msg { return pop() }
		}
	}
	return v, nil
}

func (v *detailView) exerciseAt(i int) models.Exercise {
	t := v.targets[i]
	if ex, ok := v.byID[t.ExerciseID]; ok {
		return ex
	}
	return models.Exercise{ID: t.ExerciseID, Name: t.ExerciseID}
}

func (v *detailView) View() string {
	s := v.deps.Styles
	unit := v.deps.Unit()
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Workout " + v.workout.ScheduledDate.Format("2006-01-02")))
	b.WriteString("\n\n")

	if len(v.targets) == 0 {
		b.WriteString(s.Subtle.Render("no exercises planned"))
		b.WriteString("\n")
	}
	for i, t := range v.targets {
		ex := v.exerciseAt(i)
		line := ex.Name
		if desc := describeTarget(t, unit); desc != "" {
			line += "  " + s.Subtle.Render(desc)
		}
		if n := v.setsFor[t.ExerciseID]; n > 0 {
			line += "  " + s.Success.Render(fmt.Sprintf("%d logged", n))
		}
		if i == v.cursor {
			line = s.Selected.Render(line)
		} else {
			line = s.Normal.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if v.confirming {
		b.WriteString("\n")
		b.WriteString(s.Warning.Render("Delete this workout and all its sets? (y/n)"))
		b.WriteString("\n")
	}
	if v.busy {
		b.WriteString(s.Subtle.Render("working..."))
		b.WriteString("\n")
	}
	if v.errText != "" {
		b.WriteString(s.Error.Render(v.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpLine(s,
		"enter", "log sets",
		"e", "edit targets",
		"d", "delete workout",
		"r", "refresh",
		"esc", "back",
	))
	return b.String()
}

func describeTarget(t models.WorkoutExercise, unit units.Unit) string {
	var parts []string
	switch {
	case t.TargetRepsMin != nil && t.TargetRepsMax != nil:
		parts = append(parts, fmt.Sprintf("%d-%d reps", *t.TargetRepsMin, *t.TargetRepsMax))
	case t.TargetRepsMin != nil:
		parts = append(parts, fmt.Sprintf("%d+ reps", *t.TargetRepsMin))
	case t.TargetRepsMax != nil:
		parts = append(parts, fmt.Sprintf("up to %d reps", *t.TargetRepsMax))
	}
	if t.TargetWeightKg != nil {
		parts = append(parts, unit.Format(*t.TargetWeightKg))
	}
	if t.TargetRPE != nil {
		parts = append(parts, fmt.Sprintf("RPE %d", *t.TargetRPE))
	}
	return strings.Join(parts, ", ")
}
