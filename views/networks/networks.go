package networks

import (
	"strings"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/network"
	"charm-faucet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Render renders the networks the wallet knows. The active one is marked, the
// faucet network is tagged.
func Render(chains []network.Descriptor, active string, target network.Descriptor) string {
	h := styles.TitleStyle.Render("Wallet Networks")

	lines := []string{h, ""}

	if len(chains) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CMuted).Render("No networks reachable."))
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CMuted).Render("Connecting adds "+target.ChainName+"."))
		return strings.Join(lines, "\n")
	}

	for _, c := range chains {
		isActive := network.SameChain(c.ChainID, active)

		var marker string
		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		if isActive {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
			nameStyle = nameStyle.Foreground(styles.CAccent2).Bold(true)
		} else {
			marker = lipgloss.NewStyle().Foreground(styles.CMuted).Render("○ ")
		}

		line := marker + nameStyle.Render(c.ChainName) +
			lipgloss.NewStyle().Foreground(styles.CMuted).Render("  #"+helpers.ChainIDDecimal(c.ChainID))
		if network.SameChain(c.ChainID, target.ChainID) {
			line += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render("[faucet]")
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
