package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/liftlog/internal/units"
)

// authMode selects which form the auth screen shows.
type authMode int

const (
	modeSignIn authMode = iota
	modeSignUp
	modeRecover
)

type authDoneMsg struct{ err error }
type signUpDoneMsg struct {
	confirmationRequired bool
	err                  error
}
type recoverDoneMsg struct{ err error }
type unitsLoadedMsg struct{ unit units.Unit }

type authView struct {
	deps *Deps
	ctx  context.Context

	mode     authMode
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	status   string
	errText  string
}

func newAuthView(deps *Deps, ctx context.Context) View {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return &authView{deps: deps, ctx: ctx, email: email, password: password}
}

func (v *authView) Init() tea.Cmd { return textinput.Blink }

func (v *authView) Title() string {
	switch v.mode {
	case modeSignUp:
		return "Sign up"
	case modeRecover:
		return "Reset password"
	}
	return "Sign in"
}

func (v *authView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "tab", "down":
			v.cycleFocus(1)
			return v, nil
		case "shift+tab", "up":
			v.cycleFocus(-1)
			return v, nil
		case "ctrl+s":
			v.switchMode()
			return v, nil
		case "enter":
			return v, v.submit()
		}

	case authDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		return v, v.enter()

	case signUpDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		if msg.confirmationRequired {
			v.mode = modeSignIn
			v.status = "Check your email to confirm your account, then sign in."
			return v, nil
		}
		return v, v.enter()

	case unitsLoadedMsg:
		v.busy = false
		deps := v.deps
		deps.SetUnit(msg.unit)
		return v, replace(func(ctx context.Context) View { return newDashboardView(deps, ctx) })

	case recoverDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.mode = modeSignIn
		v.status = "Recovery email sent. Follow the link, then sign in with your new password."
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.email, cmd = v.email.Update(msg)
	cmds = append(cmds, cmd)
	v.password, cmd = v.password.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *authView) cycleFocus(delta int) {
	fields := 2
	if v.mode == modeRecover {
		fields = 1
	}
	v.focus = (v.focus + delta + fields) % fields
	if v.focus == 0 {
		v.email.Focus()
		v.password.Blur()
	} else {
		v.email.Blur()
		v.password.Focus()
	}
}

func (v *authView) switchMode() {
	v.errText = ""
	v.status = ""
	switch v.mode {
	case modeSignIn:
		v.mode = modeSignUp
	case modeSignUp:
		v.mode = modeRecover
		v.focus = 0
		v.email.Focus()
		v.password.Blur()
	default:
		v.mode = modeSignIn
	}
}

func (v *authView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	v.errText = ""
	v.status = ""

	if email == "" {
		v.errText = "email is required"
		return nil
	}
	if v.mode != modeRecover && password == "" {
		v.errText = "password is required"
		return nil
	}

	v.busy = true
	switch v.mode {
	case modeSignUp:
		return request(v, func() tea.Msg {
			res, err := v.deps.Session.SignUp(v.ctx, email, password)
			if err != nil {
				return signUpDoneMsg{err: err}
			}
			return signUpDoneMsg{confirmationRequired: res.ConfirmationRequired}
		})
	case modeRecover:
		return request(v, func() tea.Msg {
			return recoverDoneMsg{err: v.deps.Session.RecoverPassword(v.ctx, email)}
		})
	default:
		return request(v, func() tea.Msg {
			return authDoneMsg{err: v.deps.Session.SignIn(v.ctx, email, password)}
		})
	}
}

// enter fetches the unit preference off the update loop; unitsLoadedMsg
// moves to the dashboard.
func (v *authView) enter() tea.Cmd {
	v.busy = true
	return request(v, func() tea.Msg {
		return unitsLoadedMsg{unit: units.Load(v.ctx, unitSource{v.deps.Store}, v.deps.Log)}
	})
}

func (v *authView) View() string {
	s := v.deps.Styles
	var b strings.Builder

	b.WriteString(s.PanelTitle.Render(v.Title()))
	b.WriteString("\n\n")
	b.WriteString(v.email.View())
	b.WriteString("\n")
	if v.mode != modeRecover {
		b.WriteString(v.password.View())
		b.WriteString("\n")
	}
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
		"enter", "submit",
		"tab", "next field",
		"ctrl+s", v.nextModeLabel(),
		"ctrl+c", "quit",
	))
	return b.String()
}

func (v *authView) nextModeLabel() string {
	switch v.mode {
	case modeSignIn:
		return "sign up"
	case modeSignUp:
		return "forgot password"
	}
	return "sign in"
}

// unitSource adapts the store's profile to the units loader.
type unitSource struct {
	store profileGetter
}

func (u unitSource) DefaultUnitsPreference(ctx context.Context) (string, error) {
	p, err := u.store.GetProfile(ctx)
	if err != nil {
		return "", err
	}
	return p.DefaultUnits, nil
}
