package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by all screens.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Subtle   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	Selected lipgloss.Style
	Normal   lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	DayCell      lipgloss.Style
	DayCellToday lipgloss.Style
	DayCellBusy  lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	TimerRunning lipgloss.Style
	TimerDone    lipgloss.Style
}

// NewStyles builds the default style set.
func NewStyles() *Styles {
	var (
		primary = lipgloss.Color("#89ddff")
		accent  = lipgloss.Color("#c3e88d")
		muted   = lipgloss.Color("#546e7a")
		errCol  = lipgloss.Color("#f07178")
		warn    = lipgloss.Color("#ffcb6b")
		text    = lipgloss.Color("#eeffff")
	)

	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtitle: lipgloss.NewStyle().Foreground(muted),
		Subtle:   lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(errCol),
		Success:  lipgloss.NewStyle().Foreground(accent),
		Warning:  lipgloss.NewStyle().Foreground(warn),

		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2d4f67")).Bold(true).Padding(0, 1),
		Normal:   lipgloss.NewStyle().Foreground(text).Padding(0, 1),

		Panel:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().Bold(true).Foreground(accent),

		DayCell:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(muted).Padding(0, 1).Width(10),
		DayCellToday: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(primary).Padding(0, 1).Width(10),
		DayCellBusy:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(accent).Padding(0, 1).Width(10),

		HelpKey:  lipgloss.NewStyle().Foreground(primary),
		HelpDesc: lipgloss.NewStyle().Foreground(muted),

		TimerRunning: lipgloss.NewStyle().Bold(true).Foreground(warn),
		TimerDone:    lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}
