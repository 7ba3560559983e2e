package styles

import "github.com/charmbracelet/lipgloss"

// Theme colors
var (
	CBg      = lipgloss.Color("#0B0B0B") // near-black
	CPanel   = lipgloss.Color("#1A1A1A") // card background
	CPanel2  = lipgloss.Color("#242424") // card header / inset rows
	CBorder  = lipgloss.Color("#333333")
	CMuted   = lipgloss.Color("#9CA3AF")
	CText    = lipgloss.Color("#F3F4F6")
	CAccent  = lipgloss.Color("#F86522") // core orange
	CAccent2 = lipgloss.Color("#FFA02F") // light orange
	CWarn    = lipgloss.Color("#FCA5A5") // red-300
	COk      = lipgloss.Color("#86EFAC") // green-300
)

// Gradient endpoints for titles and buttons.
const (
	GradientFrom = "#f86522"
	GradientTo   = "#ffa02f"
)

// Shared styles
var (
	AppStyle = lipgloss.NewStyle().
			Background(CBg).
			Foreground(CText)

	TitleStyle = lipgloss.NewStyle().
			Foreground(CAccent2).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Padding(1, 2)

	NavStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(CBorder).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(CMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(CWarn).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#991B1B")).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(COk).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#166534")).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(CAccent).
			Bold(true).
			Padding(0, 3)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(CMuted).
				Background(CPanel2).
				Padding(0, 3)

	OutlineButtonStyle = lipgloss.NewStyle().
				Foreground(CAccent2).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(CAccent).
				Padding(0, 2)

	HotkeyKeyStyle = lipgloss.NewStyle().
			Foreground(CAccent).
			Bold(true)
)

// Key renders a key with accent styling
func Key(s string) string {
	return HotkeyKeyStyle.Render(s)
}

// Button renders a button label, greyed out when disabled.
func Button(label string, enabled bool) string {
	if !enabled {
		return DisabledButtonStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}
