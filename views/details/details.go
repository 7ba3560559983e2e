package details

import (
	"strings"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/network"
	"charm-faucet-tui/rpc"
	"charm-faucet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Render renders the connected account and its balance on the faucet network.
func Render(account string, bal rpc.BalanceDetails, target network.Descriptor, rpcReady, loading bool, spinnerView string) string {
	h := styles.TitleStyle.Render("Account")

	if account == "" {
		return h + "\n" + styles.MutedStyle.Render("Not connected.")
	}

	// Address linked to the explorer
	addrStyle := lipgloss.NewStyle().Foreground(styles.CMuted).Underline(true)
	sub := helpers.Hyperlink(helpers.ExplorerAddressURL(target.Explorer(), account), addrStyle.Render(helpers.ShortenAddr(account)))

	if loading {
		return h + "\n" + sub + "\n\n" + spinnerView + " fetching balance…"
	}

	if !rpcReady {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ No RPC connection to " + target.ChainName)
		return h + "\n" + sub + "\n\n" + msg
	}

	if bal.ErrMessage != "" {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ " + bal.ErrMessage)
		hint := styles.MutedStyle.Render("Press ") + styles.Key("r") + styles.MutedStyle.Render(" to refresh.")
		return h + "\n" + sub + "\n\n" + msg + "\n\n" + hint
	}

	balLine := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render(target.NativeCurrency.Symbol) + "  " +
		lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.FormatUnits(bal.Wei, target.NativeCurrency.Decimals))

	lines := []string{h, sub, "", balLine}
	if !strings.EqualFold(bal.Address, account) {
		// Balance belongs to a previous account.
		lines = append(lines, styles.MutedStyle.Render("stale, press ")+styles.Key("r"))
	} else {
		lines = append(lines, styles.MutedStyle.Render("updated "+helpers.LoadedAt(bal.LoadedAt, false)))
	}
	return strings.Join(lines, "\n")
}
