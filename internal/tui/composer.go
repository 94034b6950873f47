package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/planner"
	"github.com/claude/liftlog/internal/store"
	"github.com/claude/liftlog/internal/units"
)

type exercisesLoadedMsg struct {
	exercises []models.Exercise
	err       error
}

type planSavedMsg struct {
	workout *models.Workout
	err     error
}

// composerPhase is the step of the composer flow being shown.
type composerPhase int

const (
	phaseSelect composerPhase = iota
	phaseTargets
	phaseSummary
)

type composerView struct {
	deps *Deps
	ctx  context.Context

	composer *planner.Composer
	date     time.Time
	workout  *models.Workout // set in edit mode

	phase    composerPhase
	catalog  []models.Exercise
	visible  []models.Exercise
	cursor   int
	filter   textinput.Model
	filterOn bool

	// target editing
	editing models.Exercise
	inputs  [4]textinput.Model
	focus   int

	busy    bool
	errText string
}

// newComposerView plans a new workout for an empty date.
func newComposerView(deps *Deps, ctx context.Context, date time.Time) View {
	v := baseComposerView(deps, ctx)
	v.date = date
	v.composer = planner.NewCreate(deps.Store.UserID(), date, deps.Unit())
	return v
}

// newEditTargetsView edits an existing workout's targets.
func newEditTargetsView(deps *Deps, ctx context.Context, workout *models.Workout, current []models.WorkoutExercise, catalog []models.Exercise) View {
	v := baseComposerView(deps, ctx)
	v.workout = workout
	v.date = workout.ScheduledDate
	v.composer = planner.NewEdit(deps.Store.UserID(), workout.ID, deps.Unit(), catalog, current)
	return v
}

func baseComposerView(deps *Deps, ctx context.Context) *composerView {
	filter := textinput.New()
	filter.Placeholder = "filter by name"
	filter.CharLimit = 60

	v := &composerView{deps: deps, ctx: ctx, filter: filter}
	placeholders := [4]string{"min reps", "max reps", "weight (" + string(deps.Unit()) + ")", "RPE 1-10"}
	for i := range v.inputs {
		v.inputs[i] = textinput.New()
		v.inputs[i].Placeholder = placeholders[i]
		v.inputs[i].CharLimit = 8
	}
	return v
}

func (v *composerView) Title() string {
	if v.workout != nil {
		return "Edit targets"
	}
	return "Plan " + v.date.Format("Jan 2")
}

func (v *composerView) Init() tea.Cmd {
	return request(v, func() tea.Msg {
		exercises, err := v.deps.Store.ListExercises(v.ctx, store.ExerciseFilter{})
		return exercisesLoadedMsg{exercises: exercises, err: err}
	})
}

func (v *composerView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case exercisesLoadedMsg:
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.catalog = msg.exercises
		v.applyFilter()
		return v, nil

	case planSavedMsg:
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
		switch v.phase {
		case phaseSelect:
			return v.updateSelect(msg)
		case phaseTargets:
			return v.updateTargets(msg)
		default:
			return v.updateSummary(msg)
		}
	}

	if v.filterOn {
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return v, cmd
	}
	if v.phase == phaseTargets {
		return v, v.updateTargetInputs(msg)
	}
	return v, nil
}

func (v *composerView) updateSelect(msg tea.KeyMsg) (View, tea.Cmd) {
	if v.filterOn {
		switch msg.String() {
		case "enter", "esc":
			v.filterOn = false
			v.filter.Blur()
			return v, nil
		}
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		v.applyFilter()
		return v, cmd
	}

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.visible)-1 {
			v.cursor++
		}
	case " ":
		if len(v.visible) > 0 {
			v.composer.Toggle(v.visible[v.cursor])
			v.errText = ""
		}
	case "/":
		v.filterOn = true
		return v, v.filter.Focus()
	case "e":
		if len(v.visible) > 0 && v.composer.IsSelected(v.visible[v.cursor].ID) {
			v.openTargets(v.visible[v.cursor])
		}
	case "enter":
		if v.workout != nil {
			return v, v.save()
		}
		if len(v.composer.Selected()) == 0 {
			v.errText = planner.ErrNoExercises.Error()
			return v, nil
		}
		v.phase = phaseSummary
	case "esc", "q":
		return v, func() tea.Msg { return pop() }
	}
	return v, nil
}

func (v *composerView) openTargets(ex models.Exercise) {
	v.phase = phaseTargets
	v.editing = ex
	v.focus = 0

	d, _ := v.composer.Draft(ex.ID)
	values := [4]string{d.RepsMin, d.RepsMax, d.Weight, d.RPE}
	for i := range v.inputs {
		v.inputs[i].SetValue(values[i])
		v.inputs[i].Blur()
	}
	v.inputs[0].Focus()
}

func (v *composerView) updateTargets(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		v.moveFocus(1)
		return v, nil
	case "shift+tab", "up":
		v.moveFocus(-1)
		return v, nil
	case "enter":
		err := v.composer.SetDraft(v.editing.ID, planner.Draft{
			RepsMin: v.inputs[0].Value(),
			RepsMax: v.inputs[1].Value(),
			Weight:  v.inputs[2].Value(),
			RPE:     v.inputs[3].Value(),
		})
		if err != nil {
			v.errText = err.Error()
			return v, nil
		}
		v.phase = phaseSelect
		return v, nil
	case "esc":
		v.phase = phaseSelect
		return v, nil
	}
	return v, v.updateTargetInputs(msg)
}

func (v *composerView) updateTargetInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range v.inputs {
		var cmd tea.Cmd
		v.inputs[i], cmd = v.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (v *composerView) moveFocus(delta int) {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Focus()
}

func (v *composerView) updateSummary(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.save()
	case "esc":
		v.phase = phaseSelect
	}
	return v, nil
}

func (v *composerView) save() tea.Cmd {
	v.busy = true
	v.errText = ""
	return request(v, func() tea.Msg {
		w, err := v.composer.Save(v.ctx, v.deps.Store)
		return planSavedMsg{workout: w, err: err}
	})
}

func (v *composerView) applyFilter() {
	name := strings.ToLower(strings.TrimSpace(v.filter.Value()))
	v.visible = v.visible[:0]
	for _, ex := range v.catalog {
		if name != "" && !strings.Contains(strings.ToLower(ex.Name), name) {
			continue
		}
		v.visible = append(v.visible, ex)
	}
	if v.cursor >= len(v.visible) {
		v.cursor = 0
	}
}

func (v *composerView) View() string {
	switch v.phase {
	case phaseTargets:
		return v.viewTargets()
	case phaseSummary:
		return v.viewSummary()
	}
	return v.viewSelect()
}

func (v *composerView) viewSelect() string {
	s := v.deps.Styles
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Exercises"))
	b.WriteString("  ")
	b.WriteString(s.Subtle.Render(fmt.Sprintf("%d selected", len(v.composer.Selected()))))
	b.WriteString("\n")
	if v.filterOn || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, ex := range v.visible {
		mark := "[ ]"
		if v.composer.IsSelected(ex.ID) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, ex.Name)
		if ex.MuscleGroup != "" {
			line += "  " + s.Subtle.Render(ex.MuscleGroup)
		}
		if i == v.cursor && !v.filterOn {
			line = s.Selected.Render(line)
		} else {
			line = s.Normal.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(v.visible) == 0 {
		b.WriteString(s.Subtle.Render("no exercises match"))
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

	action := "review"
	if v.workout != nil {
		action = "save"
	}
	b.WriteString("\n")
	b.WriteString(helpLine(s,
		"space", "select",
		"e", "targets",
		"/", "filter",
		"enter", action,
		"esc", "back",
	))
	return b.String()
}

func (v *composerView) viewTargets() string {
	s := v.deps.Styles
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Targets: " + v.editing.Name))
	b.WriteString("\n\n")
	labels := [4]string{"Reps min", "Reps max", "Weight", "RPE"}
	for i := range v.inputs {
		b.WriteString(fmt.Sprintf("%-10s %s\n", labels[i], v.inputs[i].View()))
	}
	if v.errText != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(v.errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpLine(s, "tab", "next field", "enter", "done", "esc", "cancel"))
	return b.String()
}

func (v *composerView) viewSummary() string {
	s := v.deps.Styles
	unit := v.deps.Unit()
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Review " + v.date.Format("Monday, Jan 2")))
	b.WriteString("\n\n")
	for _, ex := range v.composer.Selected() {
		d, _ := v.composer.Draft(ex.ID)
		b.WriteString(s.Normal.Render(ex.Name))
		b.WriteString("\n")
		b.WriteString("  " + s.Subtle.Render(describeDraft(d, unit)))
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
	b.WriteString(helpLine(s, "enter", "create workout", "esc", "back"))
	return b.String()
}

func describeDraft(d planner.Draft, unit units.Unit) string {
	var parts []string
	switch {
	case d.RepsMin != "" && d.RepsMax != "":
		parts = append(parts, d.RepsMin+"-"+d.RepsMax+" reps")
	case d.RepsMin != "":
		parts = append(parts, d.RepsMin+"+ reps")
	case d.RepsMax != "":
		parts = append(parts, "up to "+d.RepsMax+" reps")
	}
	if d.Weight != "" {
		parts = append(parts, d.Weight+" "+string(unit))
	}
	if d.RPE != "" {
		parts = append(parts, "RPE "+d.RPE)
	}
	if len(parts) == 0 {
		return "no target"
	}
	return strings.Join(parts, ", ")
}
