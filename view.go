package main

import (
	"strings"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/projection"
	"charm-faucet-tui/styles"
	"charm-faucet-tui/views/approval"
	"charm-faucet-tui/views/cards"
	"charm-faucet-tui/views/details"
	"charm-faucet-tui/views/faucet"
	logview "charm-faucet-tui/views/log"
	"charm-faucet-tui/views/networks"
	"charm-faucet-tui/views/wallets"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) globalHeader(v projection.View) string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	// Connected account
	var addrDisplay string
	if v.Account != "" {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(v.Account), styles.GradientFrom, styles.GradientTo))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: Not connected")
	}

	// Wallet network status
	var statusIcon, statusText string
	var statusColor lipgloss.Color
	snap := m.app.session.Snapshot()

	switch {
	case !snap.ProviderPresent:
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No wallet"
	case snap.Switching:
		statusIcon = "○"
		statusColor = cAccent2
		statusText = "Switching..."
	case snap.Ready:
		statusIcon = "●"
		statusColor = cAccent
		statusText = m.app.target.ChainName
	case snap.ChainID == "":
		statusIcon = "○"
		statusColor = cMuted
		statusText = "Unknown network"
	default:
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Wrong network #" + helpers.ChainIDDecimal(snap.ChainID)
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Bold(true).
		Render(helpers.FadeString("core testnet faucet", styles.GradientFrom, styles.GradientTo))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Address | Title (centered) | Network
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = addrDisplay + strings.Repeat(" ", max(1, leftPadding)) +
			titleText + strings.Repeat(" ", max(1, rightPadding)) + rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// sidePanel shows the account balance and, with the built-in wallet, its
// accounts and networks.
func (m *model) sidePanel(v projection.View) string {
	sections := []string{
		details.Render(v.Account, m.balance, m.app.target, m.faucetRPC != nil, m.balanceLoading || m.rpcConnecting, m.spin.View()),
	}
	if w := m.app.wallet; w != nil {
		sections = append(sections,
			wallets.Render(w.Accounts(), w.Selected(), w.Authorized()),
			networks.Render(w.Chains(), w.ActiveChain().ChainID, m.app.target),
		)
	}
	return panelStyle.Render(strings.Join(sections, "\n\n"))
}

func (m *model) renderQR(v projection.View) string {
	content := styles.TitleStyle.Render("Claim Transaction") + "\n\n" +
		helpers.GenerateQRCode(v.TxURL) + "\n\n" +
		lipgloss.NewStyle().Foreground(cText).Render(v.TxURL) + "\n\n" +
		lipgloss.NewStyle().Foreground(cMuted).Render("Scan to open in the explorer")
	if m.copiedMsg != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(styles.COk).Bold(true).Render(m.copiedMsg)
	}
	content += "\n" + lipgloss.NewStyle().Foreground(cMuted).Render("y copy • Esc close")

	box := panelStyle.Align(lipgloss.Center).Render(content)
	return appStyle.Render(lipgloss.Place(m.w, m.h, lipgloss.Center, lipgloss.Center, box))
}

func (m *model) renderApproval() string {
	dialog := approval.Render(m.approvalForm, m.approval.approval)
	nav := approval.Nav(max(0, m.w-2))
	body := lipgloss.Place(m.w, max(0, m.h-lipgloss.Height(nav)), lipgloss.Center, lipgloss.Center, dialog)
	return appStyle.Render(body + "\n" + nav)
}

func (m *model) View() string {
	if m.app == nil {
		return ""
	}
	v := m.app.view()

	if m.approvalForm != nil && m.approval != nil {
		return m.renderApproval()
	}
	if m.showQR && v.TxURL != "" {
		return m.renderQR(v)
	}

	contentWidth := max(0, m.w-2)
	headerPanel := panelStyle.Width(contentWidth).Render(m.globalHeader(v))

	// Faucet card next to the side panel, stacked on narrow screens
	side := m.sidePanel(v)
	faucetWidth := max(40, contentWidth-lipgloss.Width(side)-6)
	card := faucet.Render(v, m.app.target, faucetWidth, m.spin.View(), m.copiedMsg)

	var body string
	if lipgloss.Width(card)+lipgloss.Width(side)+2 <= contentWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, card, "  ", side)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, card, side)
	}

	info := cards.Render(contentWidth,
		cards.Network(m.app.target, v.State == projection.ConnectedWrongNetwork),
		cards.Contract(m.app.claims.Contract().Hex(), m.app.target),
		cards.Resources(m.app.target),
	)

	parts := []string{
		headerPanel,
		body,
		info,
		faucet.Footer(contentWidth, m.app.target),
		faucet.Nav(contentWidth, v, m.app.wallet != nil),
	}
	if m.logEnabled {
		parts = append(parts, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return appStyle.Render(strings.Join(parts, "\n"))
}
