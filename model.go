package main

import (
	"charm-faucet-tui/config"
	"charm-faucet-tui/rpc"
	"charm-faucet-tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture.
// Faucet state lives in the app's components; the model only holds what the
// screen needs on top of it.
type model struct {
	w, h int

	app        *app
	configPath string
	fileCfg    config.Config // config as stored on disk, without env overrides

	spin spinner.Model

	// faucet network RPC, used for the balance card
	faucetRPC      *rpc.Client
	rpcConnecting  bool
	balance        rpc.BalanceDetails
	balanceLoading bool
	lastAccount    string

	// clipboard feedback
	copiedMsg string

	// QR of the explorer link
	showQR bool

	// wallet approval dialog
	approval     *approvalRequest
	approvalForm *huh.Form

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *logBuffer
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// -------------------- INIT --------------------

// newLogger creates the logger every component writes to
func newLogger(buf *logBuffer) *log.Logger {
	logger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "",
	})
	logger.SetLevel(log.DebugLevel)
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).SetString("ERROR"),
		},
	})
	return logger
}

// newModel creates the model around a wired app
func newModel(a *app, buf *logBuffer, configPath string, fileCfg config.Config) model {
	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	return model{
		app:         a,
		configPath:  configPath,
		fileCfg:     fileCfg,
		spin:        sp,
		logEnabled:  a.cfg.Logger,
		logger:      a.logger.WithPrefix("ui"),
		logBuffer:   buf,
		logViewport: vp,
		logSpinner:  logSpin,
	}
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		startSession(m.app),
		waitForChange(m.app),
		m.app.approvals.wait(m.app.ctx),
	}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if len(m.app.target.RPCURLs) > 0 {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.app.target.RPCURLs[0]))
	}
	return tea.Batch(cmds...)
}
