package wallets

import (
	"fmt"
	"strings"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

// RenderList renders the built-in wallet's accounts.
func RenderList(accounts []common.Address, selected common.Address) string {
	if len(accounts) == 0 {
		return lipgloss.NewStyle().Foreground(styles.CMuted).Render("No keys loaded.")
	}

	var listItems []string
	for _, addr := range accounts {
		var itemStyle lipgloss.Style
		var marker string
		shortAddr := helpers.ShortenAddr(addr.Hex())

		if addr == selected {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			itemStyle = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
		} else {
			marker = "  "
			itemStyle = lipgloss.NewStyle().Foreground(styles.CMuted)
		}
		listItems = append(listItems, marker+itemStyle.Render(shortAddr))
	}
	return strings.Join(listItems, "\n")
}

// Render renders the wallet panel: its accounts and whether the faucet may see
// them.
func Render(accounts []common.Address, selected common.Address, authorized bool) string {
	header := styles.TitleStyle.Render("Wallet")

	var access string
	if authorized {
		access = lipgloss.NewStyle().Foreground(styles.COk).Render("● connected to faucet")
	} else {
		access = lipgloss.NewStyle().Foreground(styles.CMuted).Render("○ locked")
	}

	statusBar := lipgloss.NewStyle().Foreground(styles.CMuted).Render(
		fmt.Sprintf("%d accounts", len(accounts)),
	)

	return header + "\n" + access + "\n\n" + RenderList(accounts, selected) + "\n\n" + statusBar
}
