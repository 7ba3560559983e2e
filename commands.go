package main

import (
	"time"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/rpc"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// startSession subscribes to wallet events and reads the initial chain id
func startSession(a *app) tea.Cmd {
	return func() tea.Msg {
		return sessionStartedMsg{err: a.session.Start(a.ctx)}
	}
}

// waitForChange blocks until a component reports a change
func waitForChange(a *app) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.changes:
			return stateChangedMsg{}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// connectWallet runs the connect flow
func connectWallet(a *app) tea.Cmd {
	return func() tea.Msg {
		return connectDoneMsg{err: a.session.Connect(a.ctx)}
	}
}

// switchNetwork asks the wallet to move to the faucet network
func switchNetwork(a *app) tea.Cmd {
	return func() tea.Msg {
		return switchDoneMsg{err: a.session.SwitchNetwork(a.ctx)}
	}
}

// claimTokens submits a claim and waits for its confirmation
func claimTokens(a *app) tea.Cmd {
	return func() tea.Msg {
		tx, err := a.claims.Submit(a.ctx)
		return claimDoneMsg{tx: tx, err: err}
	}
}

// connectRPC establishes an RPC connection to the faucet network
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error}
	}
}

// loadBalance fetches the native balance of an account
func loadBalance(client *rpc.Client, addr string) tea.Cmd {
	return func() tea.Msg {
		return balanceLoadedMsg{d: rpc.LoadBalance(client, common.HexToAddress(addr))}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{}
		}
		return nil
	}
}

// clearClipboard waits 2 seconds then clears the clipboard feedback
func clearClipboard() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearClipboardMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------
// These methods help with state management and command generation

// addLog adds a log entry with its type
func (m *model) addLog(logType, message string, keyvals ...any) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}

	m.updateLogViewport()
}

// refreshBalance loads the balance of the connected account if there is one
func (m *model) refreshBalance() tea.Cmd {
	account := m.app.session.Account()
	if account == "" || m.faucetRPC == nil {
		return nil
	}
	m.balanceLoading = true
	m.addLog("debug", "loading balance", "account", helpers.ShortenAddr(account))
	return loadBalance(m.faucetRPC, account)
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}

	// Follow the tail unless the user scrolled up
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.logBuffer.String())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}
