package main

import (
	"errors"

	"charm-faucet-tui/claim"
	"charm-faucet-tui/config"
	"charm-faucet-tui/helpers"
	"charm-faucet-tui/network"
	"charm-faucet-tui/session"
	"charm-faucet-tui/views/approval"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// -------------------- UPDATE --------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The approval dialog owns the keyboard while it is open
	if m.approvalForm != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "ctrl+c":
				m.closeApproval(false)
				return m, tea.Quit
			case "esc":
				return m, m.closeApproval(false)
			}
		}

		form, cmd := m.approvalForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.approvalForm = f

			switch m.approvalForm.State {
			case huh.StateCompleted:
				return m, m.closeApproval(approval.TempConfirm)
			case huh.StateAborted:
				return m, m.closeApproval(false)
			}
		}
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height

		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case stateChangedMsg:
		cmds = append(cmds, waitForChange(m.app))
		if account := m.app.session.Account(); account != m.lastAccount {
			m.lastAccount = account
			m.showQR = false
			cmds = append(cmds, m.refreshBalance())
		}
		m.updateLogViewport()
		return m, tea.Batch(cmds...)

	case sessionStartedMsg:
		if msg.err != nil {
			m.addLog("error", "Could not read the wallet network", "err", msg.err)
		} else if !m.app.adapter.Present() {
			m.addLog("warning", "No wallet detected")
		} else {
			m.addLog("info", "Watching wallet network", "chain", m.app.session.ChainID())
		}
		return m, tea.Batch(cmds...)

	case approvalRequestedMsg:
		req := msg.req
		m.approval = &req
		m.approvalForm = approval.CreateForm(req.approval)
		m.addLog("info", "Wallet request: "+req.approval.Title())
		return m, tea.Batch(cmds...)

	case connectDoneMsg:
		if busy(msg.err) {
			m.addLog("debug", "Wallet request already in progress", "err", msg.err)
		} else if msg.err != nil {
			m.addLog("error", "Connect failed: "+claim.Detail(msg.err), "err", msg.err)
		} else {
			m.addLog("success", "Wallet connected", "account", helpers.ShortenAddr(m.app.session.Account()))
		}
		return m, tea.Batch(cmds...)

	case switchDoneMsg:
		if busy(msg.err) {
			m.addLog("debug", "Wallet request already in progress", "err", msg.err)
		} else if msg.err != nil {
			m.addLog("error", "Network switch failed: "+claim.Detail(msg.err), "err", msg.err)
		} else if m.app.session.NetworkReady() {
			m.addLog("success", "Switched to "+m.app.target.ChainName)
		} else {
			m.addLog("warning", "Wallet is still on another network", "chain", m.app.session.ChainID())
		}
		return m, tea.Batch(cmds...)

	case claimDoneMsg:
		switch {
		case errors.Is(msg.err, claim.ErrClaimInFlight):
			m.addLog("debug", "Claim already in progress")
		case msg.err != nil:
			m.addLog("error", "Claim failed: "+msg.tx.Detail, "err", msg.err)
		default:
			m.addLog("success", "Tokens claimed", "tx", helpers.ShortenAddr(msg.tx.Hash), "block", msg.tx.BlockNumber)
			cmds = append(cmds, m.refreshBalance())
		}
		return m, tea.Batch(cmds...)

	case rpcConnectedMsg:
		m.rpcConnecting = false
		if msg.err != nil {
			m.faucetRPC = nil
			m.addLog("error", "RPC connection failed", "network", m.app.target.ChainName, "err", msg.err)
			return m, tea.Batch(cmds...)
		}
		m.faucetRPC = msg.client
		m.app.clients = append(m.app.clients, msg.client)
		m.addLog("success", "RPC connected to "+msg.client.URL)
		cmds = append(cmds, m.refreshBalance())
		return m, tea.Batch(cmds...)

	case balanceLoadedMsg:
		m.balanceLoading = false
		m.balance = msg.d
		if msg.d.ErrMessage != "" {
			m.addLog("error", msg.d.ErrMessage, "account", helpers.ShortenAddr(msg.d.Address))
		} else {
			t := m.app.target
			m.addLog("debug", "Balance loaded", "account", helpers.ShortenAddr(msg.d.Address),
				"balance", helpers.FormatBalance(msg.d.Wei, t.NativeCurrency.Decimals, t.NativeCurrency.Symbol))
		}
		return m, tea.Batch(cmds...)

	case clipboardCopiedMsg:
		m.copiedMsg = "Copied!"
		m.addLog("info", "Copied explorer link to clipboard")
		return m, tea.Batch(append(cmds, clearClipboard())...)

	case clearClipboardMsg:
		m.copiedMsg = ""
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles keys while no dialog is open
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// QR overlay
	if m.showQR {
		switch msg.String() {
		case "ctrl+c", "q":
			return tea.Quit
		case "esc", "enter", "o":
			m.showQR = false
		case "y":
			return m.copyTxLink()
		}
		return nil
	}

	v := m.app.view()
	w := m.app.wallet

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit

	case "l", "L":
		return m.toggleLog()

	case "pageup", "pagedown":
		// Allow scrolling in log viewport when enabled
		if m.logEnabled && m.logReady {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return cmd
		}

	case "c", "C":
		if !v.ConnectEnabled {
			return nil
		}
		m.addLog("info", "Connecting wallet")
		return connectWallet(m.app)

	case "enter":
		if !v.ClaimEnabled {
			m.addLog("debug", "Claim unavailable", "state", v.State)
			return nil
		}
		m.showQR = false
		m.addLog("info", "Claiming tokens", "account", helpers.ShortenAddr(v.Account))
		return claimTokens(m.app)

	case "s", "S":
		if !v.SwitchVisible {
			return nil
		}
		m.addLog("info", "Switching to "+m.app.target.ChainName)
		return switchNetwork(m.app)

	case "y", "Y":
		return m.copyTxLink()

	case "o", "O":
		if v.TxURL != "" {
			m.showQR = true
		}

	case "r", "R":
		return m.refreshBalance()

	// Wallet-side actions, as a user would take them in the wallet itself
	case "a", "A":
		if w != nil {
			addr := w.NextAccount()
			m.addLog("info", "Wallet account changed", "account", helpers.ShortenAddr(addr.Hex()))
		}
	case "n", "N":
		if w != nil {
			d := w.NextChain()
			m.addLog("info", "Wallet network changed", "network", d.ChainName)
		}
	case "x", "X":
		if w != nil {
			w.Lock()
			m.addLog("info", "Wallet locked")
		}
	}
	return nil
}

// copyTxLink copies the explorer link of the latest claim
func (m *model) copyTxLink() tea.Cmd {
	v := m.app.view()
	if v.TxURL == "" {
		return nil
	}
	return copyToClipboard(v.TxURL)
}

// busy reports whether err only means another connect or switch is running
func busy(err error) bool {
	return errors.Is(err, session.ErrConnectInProgress) || errors.Is(err, network.ErrSwitchInProgress)
}

// toggleLog shows or hides the log panel and remembers the choice
func (m *model) toggleLog() tea.Cmd {
	m.logEnabled = !m.logEnabled
	m.fileCfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.fileCfg); err != nil {
		m.addLog("error", "Failed to save config", "path", m.configPath, "err", err)
	}

	if m.logEnabled {
		// Initialize viewport when enabling
		if m.w > 0 {
			m.logViewport.Width = m.w - 6
		}
		m.logReady = false
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	m.logReady = false
	return nil
}

// closeApproval answers the open wallet request and waits for the next one
func (m *model) closeApproval(ok bool) tea.Cmd {
	if m.approval != nil {
		m.approval.answer(ok)
		if ok {
			m.addLog("info", "Approved: "+m.approval.approval.Title())
		} else {
			m.addLog("warning", "Rejected: "+m.approval.approval.Title())
		}
	}
	m.approval = nil
	m.approvalForm = nil
	return m.app.approvals.wait(m.app.ctx)
}
