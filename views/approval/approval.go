package approval

import (
	"strings"

	"charm-faucet-tui/styles"
	"charm-faucet-tui/wallet"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// TempConfirm stores the answer of the open approval form
var TempConfirm bool

// CreateForm creates the confirm form for a wallet approval
func CreateForm(req wallet.Approval) *huh.Form {
	TempConfirm = false

	affirmative := "Approve"
	if req.Kind == wallet.ApproveTransaction {
		affirmative = "Sign"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(req.Title()).
				Description(req.Description()).
				Affirmative(affirmative).
				Negative("Reject").
				Value(&TempConfirm),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithWidth(48)

	form.Init()
	return form
}

// Render renders the approval dialog
func Render(form *huh.Form, req wallet.Approval) string {
	title := styles.TitleStyle.Render("Wallet Request")
	kind := lipgloss.NewStyle().Foreground(styles.CMuted).Render(req.Kind.String())

	body := "Loading request..."
	if form != nil {
		body = form.View()
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CAccent).
		Background(styles.CPanel).
		Padding(1, 3).
		Width(56).
		Render(title + "  " + kind + "\n\n" + body)
}

// Nav returns the navigation bar while a wallet request is open
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("←/→") + " choose",
		styles.Key("Enter") + " confirm",
		styles.Key("Esc") + " reject",
		styles.Key("l") + " logger",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
