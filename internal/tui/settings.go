package tui

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/liftlog/internal/importer"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/units"
)

type profileLoadedMsg struct {
	profile *models.Profile
	err     error
}

type settingsSavedMsg struct {
	unit units.Unit
	err  error
}

type importDoneMsg struct {
	stats *importer.Stats
	err   error
}

type signedOutMsg struct{ err error }

type settingsView struct {
	deps *Deps
	ctx  context.Context

	username textinput.Model
	csvPath  textinput.Model
	focus    int
	unit     units.Unit
	loaded   bool
	busy     bool
	status   string
	errText  string
}

func newSettingsView(deps *Deps, ctx context.Context) View {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 40
	username.Focus()

	csvPath := textinput.New()
	csvPath.Placeholder = "path/to/sets.csv"

	return &settingsView{deps: deps, ctx: ctx, username: username, csvPath: csvPath, unit: deps.Unit()}
}

func (v *settingsView) Title() string { return "Settings" }

func (v *settingsView) Init() tea.Cmd {
	return request(v, func() tea.Msg {
		p, err := v.deps.Store.GetProfile(v.ctx)
		return profileLoadedMsg{profile: p, err: err}
	})
}

func (v *settingsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.loaded = true
		v.username.SetValue(msg.profile.Username)
		v.unit = units.Parse(msg.profile.DefaultUnits)
		return v, nil

	case settingsSavedMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		// The saved preference takes effect immediately everywhere.
		v.deps.SetUnit(msg.unit)
		v.status = "saved"
		return v, nil

	case importDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.status = msg.stats.String()
		return v, nil

	case signedOutMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		deps := v.deps
		return v, replace(func(ctx context.Context) View { return newAuthView(deps, ctx) })

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			v.cycleFocus()
			return v, nil
		case "ctrl+u":
			v.unit = v.unit.Toggle()
			v.status = ""
			return v, nil
		case "enter":
			return v, v.save()
		case "ctrl+f":
			return v, v.runImport()
		case "ctrl+o":
			v.busy = true
			return v, request(v, func() tea.Msg {
				return signedOutMsg{err: v.deps.Session.SignOut()}
			})
		case "esc":
			return v, func() tea.Msg { return pop() }
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.username, cmd = v.username.Update(msg)
	cmds = append(cmds, cmd)
	v.csvPath, cmd = v.csvPath.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *settingsView) cycleFocus() {
	v.focus = (v.focus + 1) % 2
	if v.focus == 0 {
		v.username.Focus()
		v.csvPath.Blur()
	} else {
		v.username.Blur()
		v.csvPath.Focus()
	}
}

func (v *settingsView) save() tea.Cmd {
	username := strings.TrimSpace(v.username.Value())
	if username == "" {
		v.errText = "username is required"
		return nil
	}
	v.busy = true
	v.errText = ""
	v.status = ""
	unit := v.unit
	return request(v, func() tea.Msg {
		err := v.deps.Store.UpdateProfile(v.ctx, username, string(unit))
		return settingsSavedMsg{unit: unit, err: err}
	})
}

func (v *settingsView) runImport() tea.Cmd {
	path := strings.TrimSpace(v.csvPath.Value())
	if path == "" {
		v.errText = "csv path is required"
		return nil
	}
	v.busy = true
	v.errText = ""
	v.status = ""
	return request(v, func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()
		stats, err := importer.New(v.deps.Store, v.deps.Log, false).Import(v.ctx, f)
		return importDoneMsg{stats: stats, err: err}
	})
}

func (v *settingsView) View() string {
	s := v.deps.Styles
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Settings"))
	b.WriteString("\n\n")
	if !v.loaded && v.errText == "" {
		b.WriteString(s.Subtle.Render("loading..."))
		b.WriteString("\n")
	}

	b.WriteString("Username  " + v.username.View())
	b.WriteString("\n")
	b.WriteString("Units     " + s.Title.Render(string(v.unit)))
	b.WriteString("\n")
	b.WriteString("CSV file  " + v.csvPath.View())
	b.WriteString("\n")
	b.WriteString(s.Subtle.Render("signed in as " + v.deps.Session.UserEmail()))
	b.WriteString("\n")

	if v.busy {
		b.WriteString(s.Subtle.Render("working..."))
		b.WriteString("\n")
	}
	if v.status != "" {
		b.WriteString(s.Success.Render(v.status))
		b.WriteString("\n")
	}
	if v.errText != "" {
		b.WriteString(s.Error.Render(v.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpLine(s,
		"enter", "save",
		"ctrl+u", "toggle units",
		"ctrl+f", "import csv",
		"ctrl+o", "sign out",
		"esc", "back",
	))
	return b.String()
}
