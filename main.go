package main

import (
	"fmt"
	"os"

	"charm-faucet-tui/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	noWallet    bool
	autoApprove bool
	showLog     bool
)

// rootCmd starts the faucet TUI
var rootCmd = &cobra.Command{
	Use:   "charm-faucet-tui",
	Short: "Claim Core Testnet 2 tokens from the terminal",
	Long: `charm-faucet-tui connects a wallet, makes sure it is on Core Testnet 2 and
calls faucet() on the faucet contract.

The built-in wallet signs with the key in $FAUCET_PRIVATE_KEY (or the
configured keystores) and asks before every request. Use --no-wallet to see
the faucet without a wallet.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	rootCmd.Flags().BoolVar(&noWallet, "no-wallet", false, "Start without a wallet")
	rootCmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Approve every wallet request without asking")
	rootCmd.Flags().BoolVar(&showLog, "log", false, "Show the log panel")
}

// -------------------- MAIN --------------------

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	fileCfg := config.LoadOrCreate(configPath)
	cfg := fileCfg.WithEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", configPath, err)
	}
	if showLog {
		cfg.Logger = true
	}

	buf := &logBuffer{}
	logger := newLogger(buf)

	fmt.Fprintln(os.Stderr, "connecting wallet networks...")
	a, err := newApp(cfg, logger, appOptions{
		noWallet:    noWallet,
		autoApprove: autoApprove,
		getenv:      os.Getenv,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	m := newModel(a, buf, configPath, fileCfg)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
