package cards

import (
	"strings"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/network"
	"charm-faucet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// cardStyle returns the style for an info card
func cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Width(28).
		Height(6).
		Align(lipgloss.Center, lipgloss.Center).
		Background(styles.CPanel).
		Padding(1, 2).
		BorderStyle(lipgloss.HiddenBorder())
}

// cardHighlightStyle marks the card that needs attention
func cardHighlightStyle() lipgloss.Style {
	return cardStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.CAccent)
}

func label(s string) string {
	return lipgloss.NewStyle().Foreground(styles.CMuted).Render(s)
}

func value(s string) string {
	return lipgloss.NewStyle().Foreground(styles.CText).Bold(true).Render(s)
}

// Network renders the target network details. wrong highlights the card while
// the wallet is on another chain.
func Network(target network.Descriptor, wrong bool) string {
	icon := "🌐"
	content := icon + "\n\n" +
		value(target.ChainName) + "\n" +
		label("Chain ID ") + lipgloss.NewStyle().Foreground(styles.CAccent).Render(helpers.ChainIDDecimal(target.ChainID)) + "\n" +
		label("Currency ") + lipgloss.NewStyle().Foreground(styles.CAccent2).Render(target.NativeCurrency.Symbol)

	if wrong {
		return cardHighlightStyle().Render(content)
	}
	return cardStyle().Render(content)
}

// Contract renders the faucet contract card, linked to the explorer.
func Contract(contract string, target network.Descriptor) string {
	short := helpers.FadeString(helpers.ShortenAddr(contract), styles.GradientFrom, styles.GradientTo)
	link := helpers.Hyperlink(helpers.ExplorerAddressURL(target.Explorer(), contract), short)

	content := "📜" + "\n\n" +
		value("Faucet Contract") + "\n" +
		link + "\n" +
		label("faucet()")
	return cardStyle().Render(content)
}

// Resources renders the explorer link card.
func Resources(target network.Descriptor) string {
	explorer := target.Explorer()
	name := strings.TrimPrefix(strings.TrimPrefix(explorer, "https://"), "http://")
	link := helpers.Hyperlink(explorer, lipgloss.NewStyle().Foreground(styles.CAccent2).Underline(true).Render(name))

	content := "🔎" + "\n\n" +
		value("Block Explorer") + "\n" +
		link
	return cardStyle().Render(content)
}

// Render lays the cards out in a row, or stacked when the row does not fit.
func Render(width int, cards ...string) string {
	const horizontalSpacing = "  "
	var spaced []string
	for i, c := range cards {
		spaced = append(spaced, c)
		if i < len(cards)-1 {
			spaced = append(spaced, horizontalSpacing)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
	if lipgloss.Width(row) <= width {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
