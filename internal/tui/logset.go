package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/setlog"
	"github.com/claude/liftlog/internal/store"
	"github.com/claude/liftlog/internal/timer"
)

type logOpenedMsg struct {
	logger *setlog.Logger
	err    error
}

type logWrittenMsg struct{ err error }

type timerTickMsg struct{}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

type logSetView struct {
	deps *Deps
	ctx  context.Context

	// deep-link entry resolves these before the logger exists
	pendingDate       time.Time
	pendingExerciseID string

	logger *setlog.Logger

	inputs    [4]textinput.Model
	focus     int
	cursor    int
	editingID string

	tm         timer.Timer
	confirming string // set ID pending delete confirmation
	busy       bool
	errText    string
}

// newLogSetView logs sets against a known workout and exercise.
func newLogSetView(deps *Deps, ctx context.Context, workout *models.Workout, exercise models.Exercise) View {
	v := baseLogSetView(deps, ctx)
	l := setlog.New(deps.Store, deps.Unit(), exercise)
	v.logger = l
	v.pendingDate = workout.ScheduledDate
	return v
}

// newLogSetByIDView enters from a deep link: the exercise and workout are
// resolved from their identifiers first.
func newLogSetByIDView(deps *Deps, ctx context.Context, date time.Time, exerciseID string) View {
	v := baseLogSetView(deps, ctx)
	v.pendingDate = date
	v.pendingExerciseID = exerciseID
	return v
}

func baseLogSetView(deps *Deps, ctx context.Context) *logSetView {
	v := &logSetView{deps: deps, ctx: ctx}
	placeholders := [4]string{"reps", "weight (" + string(deps.Unit()) + ")", "RPE 1-10", "partials"}
	for i := range v.inputs {
		v.inputs[i] = textinput.New()
		v.inputs[i].Placeholder = placeholders[i]
		v.inputs[i].CharLimit = 8
	}
	v.inputs[0].Focus()
	return v
}

func (v *logSetView) Title() string {
	if v.logger != nil {
		return "Log " + v.logger.Exercise().Name
	}
	return "Log sets"
}

func (v *logSetView) Init() tea.Cmd {
	return request(v, func() tea.Msg {
		l := v.logger
		if l == nil {
			exercises, err := v.deps.Store.ListExercises(v.ctx, store.ExerciseFilter{})
			if err != nil {
				return logOpenedMsg{err: err}
			}
			var found *models.Exercise
			for i := range exercises {
				if exercises[i].ID == v.pendingExerciseID {
					found = &exercises[i]
					break
				}
			}
			if found == nil {
				return logOpenedMsg{err: fmt.Errorf("unknown exercise %q", v.pendingExerciseID)}
			}
			l = setlog.New(v.deps.Store, v.deps.Unit(), *found)
		}
		if err := l.Open(v.ctx, v.pendingDate); err != nil {
			return logOpenedMsg{err: err}
		}
		return logOpenedMsg{logger: l}
	})
}

func (v *logSetView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case logOpenedMsg:
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.logger = msg.logger
		return v, nil

	case logWrittenMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.editingID = ""
		v.clearInputs()
		return v, nil

	case timerTickMsg:
		v.tm.Tick()
		if v.tm.Active() {
			return v, timerTick()
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, v.updateInputs(msg)
}

func (v *logSetView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	if v.busy || v.logger == nil {
		return v, nil
	}

	if v.confirming != "" {
		id := v.confirming
		v.confirming = ""
		if msg.String() == "y" {
			v.busy = true
			return v, request(v, func() tea.Msg {
				return logWrittenMsg{err: v.logger.Delete(v.ctx, id)}
			})
		}
		return v, nil
	}

	switch msg.String() {
	case "tab":
		v.moveFocus(1)
		return v, nil
	case "shift+tab":
		v.moveFocus(-1)
		return v, nil
	case "enter":
		return v, v.submit()
	case "ctrl+j", "down":
		if v.cursor < len(v.logger.Sets())-1 {
			v.cursor++
		}
		return v, nil
	case "ctrl+k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil
	case "ctrl+e":
		return v, v.startEdit()
	case "ctrl+d":
		if sets := v.logger.Sets(); len(sets) > 0 {
			v.confirming = sets[v.cursor].ID
		}
		return v, nil
	case "ctrl+x":
		v.editingID = ""
		v.clearInputs()
		return v, nil
	case "ctrl+p":
		if v.tm.State() == timer.Paused {
			v.tm.Resume()
			return v, timerTick()
		}
		v.tm.Pause()
		return v, nil
	case "esc":
		return v, func() tea.Msg { return pop() }
	}

	// alt+1..alt+5 start the rest timer; plain digits stay typeable.
	for i, opt := range timer.Options {
		if msg.String() == fmt.Sprintf("alt+%d", i+1) {
			wasActive := v.tm.Active()
			v.tm.Start(opt)
			if !wasActive {
				return v, timerTick()
			}
			return v, nil
		}
	}

	return v, v.updateInputs(msg)
}

func (v *logSetView) moveFocus(delta int) {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Focus()
}

func (v *logSetView) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range v.inputs {
		var cmd tea.Cmd
		v.inputs[i], cmd = v.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (v *logSetView) clearInputs() {
	for i := range v.inputs {
		v.inputs[i].SetValue("")
	}
	v.inputs[v.focus].Blur()
	v.focus = 0
	v.inputs[0].Focus()
}

func (v *logSetView) entry() setlog.Entry {
	return setlog.Entry{
		Reps:        v.inputs[0].Value(),
		Weight:      v.inputs[1].Value(),
		RPE:         v.inputs[2].Value(),
		PartialReps: v.inputs[3].Value(),
	}
}

func (v *logSetView) submit() tea.Cmd {
	v.errText = ""
	v.busy = true
	e := v.entry()
	id := v.editingID
	return request(v, func() tea.Msg {
		if id != "" {
			return logWrittenMsg{err: v.logger.Edit(v.ctx, id, e)}
		}
		return logWrittenMsg{err: v.logger.Add(v.ctx, e)}
	})
}

func (v *logSetView) startEdit() tea.Cmd {
	sets := v.logger.Sets()
	if len(sets) == 0 {
		return nil
	}
	id := sets[v.cursor].ID
	e, ok := v.logger.EntryFor(id)
	if !ok {
		return nil
	}
	v.editingID = id
	values := [4]string{e.Reps, e.Weight, e.RPE, e.PartialReps}
	for i := range v.inputs {
		v.inputs[i].SetValue(values[i])
	}
	return nil
}

func (v *logSetView) View() string {
	s := v.deps.Styles
	var b strings.Builder

	if v.logger == nil {
		if v.errText != "" {
			return s.Error.Render(v.errText)
		}
		return s.Subtle.Render("loading...")
	}

	unit := v.logger.Unit()
	b.WriteString(s.PanelTitle.Render(v.logger.Exercise().Name))
	b.WriteString("\n\n")

	labels := [4]string{"Reps", "Weight", "RPE", "Partials"}
	for i := range v.inputs {
		b.WriteString(fmt.Sprintf("%-9s %s\n", labels[i], v.inputs[i].View()))
	}
	if v.editingID != "" {
		b.WriteString(s.Warning.Render("editing set, enter saves, ctrl+x cancels"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	sets := v.logger.Sets()
	if len(sets) == 0 {
		b.WriteString(s.Subtle.Render("no sets yet"))
		b.WriteString("\n")
	}
	for i, set := range sets {
		line := fmt.Sprintf("%d × %s", set.Reps, unit.Format(set.WeightKg))
		if set.RPE != nil {
			line += fmt.Sprintf(" @ RPE %d", *set.RPE)
		}
		if set.PartialReps != nil && *set.PartialReps > 0 {
			line += fmt.Sprintf(" (+%d partial)", *set.PartialReps)
		}
		if i == v.cursor {
			line = s.Selected.Render(line)
		} else {
			line = s.Normal.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if t := v.renderTimer(); t != "" {
		b.WriteString("\n")
		b.WriteString(t)
		b.WriteString("\n")
	}

	if v.confirming != "" {
		b.WriteString("\n")
		b.WriteString(s.Warning.Render("Delete this set? (y/n)"))
		b.WriteString("\n")
	}
	if v.busy {
		b.WriteString(s.Subtle.Render("saving..."))
		b.WriteString("\n")
	}
	if v.errText != "" {
		b.WriteString(s.Error.Render(v.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpLine(s,
		"enter", "add set",
		"↑/↓", "pick set",
		"ctrl+e", "edit",
		"ctrl+d", "delete",
		"alt+1..5", "rest timer",
		"esc", "back",
	))
	return b.String()
}

func (v *logSetView) renderTimer() string {
	s := v.deps.Styles
	switch v.tm.State() {
	case timer.Running:
		return s.TimerRunning.Render(fmt.Sprintf("rest %ds", v.tm.Remaining()))
	case timer.Paused:
		return s.Subtle.Render(fmt.Sprintf("rest %ds (paused, ctrl+p resumes)", v.tm.Remaining()))
	case timer.Done:
		return s.TimerDone.Render("rest over, go!")
	}
	return ""
}
