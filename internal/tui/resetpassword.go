package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type passwordResetMsg struct{ err error }

// resetPasswordView finishes the emailed recovery flow: the deep link's
// token authorizes setting a new password.
type resetPasswordView struct {
	deps  *Deps
	ctx   context.Context
	token string

	password textinput.Model
	confirm  textinput.Model
	focus    int
	busy     bool
	done     bool
	errText  string
}

func newResetPasswordView(deps *Deps, ctx context.Context, token string) View {
	password := textinput.New()
	password.Placeholder = "new password"
	password.EchoMode = textinput.EchoPassword
	password.Focus()

	confirm := textinput.New()
	confirm.Placeholder = "repeat password"
	confirm.EchoMode = textinput.EchoPassword

	return &resetPasswordView{deps: deps, ctx: ctx, token: token, password: password, confirm: confirm}
}

func (v *resetPasswordView) Title() string { return "New password" }

func (v *resetPasswordView) Init() tea.Cmd { return textinput.Blink }

func (v *resetPasswordView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case passwordResetMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.done = true
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "down", "up":
			v.focus = 1 - v.focus
			if v.focus == 0 {
				v.password.Focus()
				v.confirm.Blur()
			} else {
				v.password.Blur()
				v.confirm.Focus()
			}
			return v, nil
		case "enter":
			if v.done {
				return v, func() tea.Msg { return pop() }
			}
			return v, v.submit()
		case "esc":
			return v, func() tea.Msg { return pop() }
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.password, cmd = v.password.Update(msg)
	cmds = append(cmds, cmd)
	v.confirm, cmd = v.confirm.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *resetPasswordView) submit() tea.Cmd {
	v.errText = ""
	password := v.password.Value()
	if v.token == "" {
		v.errText = "this link is missing its recovery token, request a new email"
		return nil
	}
	if len(password) < 8 {
		v.errText = "password must be at least 8 characters"
		return nil
	}
	if password != v.confirm.Value() {
		v.errText = "passwords do not match"
		return nil
	}

	v.busy = true
	return request(v, func() tea.Msg {
		return passwordResetMsg{err: v.deps.Session.CompleteRecovery(v.ctx, v.token, password)}
	})
}

func (v *resetPasswordView) View() string {
	s := v.deps.Styles
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render("Choose a new password"))
	b.WriteString("\n\n")

	if v.done {
		b.WriteString(s.Success.Render("Password updated. Sign in with it from now on."))
		b.WriteString("\n\n")
		b.WriteString(helpLine(s, "enter", "continue"))
		return b.String()
	}

	b.WriteString(v.password.View())
	b.WriteString("\n")
	b.WriteString(v.confirm.View())
	b.WriteString("\n")

	if v.busy {
		b.WriteString(s.Subtle.Render("working..."))
		b.WriteString("\n")
	}
	if v.errText != "" {
		b.WriteString(s.Error.Render(v.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpLine(s, "enter", "save", "tab", "next field", "esc", "cancel"))
	return b.String()
}
