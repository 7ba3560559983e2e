package faucet

import (
	"strings"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/network"
	"charm-faucet-tui/projection"
	"charm-faucet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the faucet screen. Keys that do nothing
// in the current state are left out.
func Nav(width int, v projection.View, hasWallet bool) string {
	var keys []string
	if v.ConnectEnabled {
		keys = append(keys, styles.Key("c")+" connect")
	}
	if v.ClaimEnabled {
		keys = append(keys, styles.Key("Enter")+" claim")
	}
	if v.SwitchVisible {
		keys = append(keys, styles.Key("s")+" switch network")
	}
	if v.TxURL != "" {
		keys = append(keys, styles.Key("y")+" copy link", styles.Key("o")+" qr")
	}
	if hasWallet {
		keys = append(keys,
			styles.Key("a")+" account",
			styles.Key("n")+" wallet network",
			styles.Key("x")+" lock",
		)
	}
	keys = append(keys,
		styles.Key("r")+" balance",
		styles.Key("l")+" logger",
		styles.Key("q")+" quit",
	)
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

func cardStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(styles.CPanel).
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CAccent)
}

// Render renders the claim card.
func Render(v projection.View, target network.Descriptor, width int, spinnerView, copiedMsg string) string {
	title := styles.TitleStyle.Render(helpers.FadeString(v.Title, styles.GradientFrom, styles.GradientTo))

	message := lipgloss.NewStyle().Foreground(styles.CText).Render(v.Message)
	if v.State == projection.Connecting || v.State == projection.ClaimPending {
		message = spinnerView + " " + message
	}

	lines := []string{title, ""}
	switch v.State {
	case projection.ClaimSuccess:
		lines = append(lines, styles.SuccessStyle.Render("✓ "+v.Message))
	case projection.ClaimError:
		lines = append(lines, styles.ErrorStyle.Render("⚠ "+v.Message))
	default:
		lines = append(lines, message)
	}

	if v.Error != "" && v.Error != v.Message {
		lines = append(lines, "", styles.ErrorStyle.Render("⚠ "+v.Error))
	}

	if v.Account != "" {
		lines = append(lines, "",
			styles.MutedStyle.Render("Account  ")+lipgloss.NewStyle().Foreground(styles.CAccent2).Render(helpers.ShortenAddr(v.Account)))
	}

	if v.TxHash != "" {
		link := helpers.Hyperlink(v.TxURL, lipgloss.NewStyle().Foreground(styles.CAccent2).Underline(true).Render(helpers.ShortenAddr(v.TxHash)))
		row := styles.MutedStyle.Render("Tx       ") + link
		if copiedMsg != "" {
			row += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg)
		}
		lines = append(lines, row)
	}

	lines = append(lines, "", actions(v, target))

	return cardStyle(width).Render(strings.Join(lines, "\n"))
}

func actions(v projection.View, target network.Descriptor) string {
	var buttons []string
	switch {
	case v.SwitchVisible:
		buttons = append(buttons, styles.OutlineButtonStyle.Render("s  Switch to "+target.ChainName))
	case v.ConnectEnabled:
		buttons = append(buttons, styles.Button("c  Connect Wallet", true))
	case v.State == projection.Disconnected:
		buttons = append(buttons, styles.Button("No wallet", false))
	default:
		buttons = append(buttons, styles.Button("⏎  Claim Tokens", v.ClaimEnabled))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
}

// Footer is the disclaimer under the faucet.
func Footer(width int, target network.Descriptor) string {
	text := target.ChainName + " tokens are for testing purposes only and have no real value."
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(styles.CMuted).
		Italic(true).
		Render(text)
}
