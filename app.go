package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"charm-faucet-tui/claim"
	"charm-faucet-tui/config"
	"charm-faucet-tui/network"
	"charm-faucet-tui/projection"
	"charm-faucet-tui/provider"
	"charm-faucet-tui/rpc"
	"charm-faucet-tui/session"
	"charm-faucet-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/crypto"
)

// appOptions are the command line switches that shape the wiring.
type appOptions struct {
	noWallet    bool
	autoApprove bool
	getenv      func(string) string
}

// app owns the faucet components and the built-in wallet behind them.
type app struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg            config.Config
	target         network.Descriptor
	explorerTxBase string
	logger         *log.Logger

	wallet    *wallet.Wallet // nil with --no-wallet
	approvals *approvalBridge
	clients   []*rpc.Client

	adapter *provider.Adapter
	network *network.Reconciler
	session *session.Session
	claims  *claim.Workflow

	// changes coalesces component notifications into one pending wake-up.
	changes chan struct{}
}

func newApp(cfg config.Config, logger *log.Logger, opts appOptions) (*app, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &app{
		ctx:            ctx,
		cancel:         cancel,
		cfg:            cfg,
		target:         network.CoreTestnet2(),
		explorerTxBase: cfg.Faucet.ExplorerTxBase,
		logger:         logger,
		approvals:      newApprovalBridge(),
		changes:        make(chan struct{}, 1),
	}

	var p provider.Provider
	if !opts.noWallet {
		w, err := a.buildWallet(opts)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.wallet = w
		p = w
	}

	a.adapter = provider.NewAdapter(p)
	a.network = network.NewReconciler(a.adapter, a.target,
		network.WithLogger(logger),
		network.WithNotify(a.notify),
	)
	a.session = session.New(a.adapter, a.network,
		session.WithLogger(logger),
		session.WithNotify(a.notify),
	)
	a.claims = claim.New(a.adapter, a.session, a.target, cfg.ContractAddress(),
		claim.WithPollInterval(cfg.PollInterval()),
		claim.WithConfirmationTimeout(cfg.ConfirmTimeout()),
		claim.WithLogger(logger),
		claim.WithNotify(a.notify),
	)
	return a, nil
}

func (a *app) buildWallet(opts appOptions) (*wallet.Wallet, error) {
	keys, err := loadKeys(a.cfg, opts.getenv)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		keys = append(keys, key)
		a.logger.Warn("no keys configured, using an ephemeral account",
			"address", crypto.PubkeyToAddress(key.PublicKey).Hex(), "env", a.cfg.PrivateKeyEnv)
	}

	var approver wallet.Approver = a.approvals
	if opts.autoApprove {
		approver = wallet.AutoApprove
		a.logger.Warn("wallet requests are approved without asking")
	}
	walletOpts := []wallet.Option{
		wallet.WithApprover(approver),
		wallet.WithLogger(a.logger),
	}

	// The active endpoint goes first so it becomes the wallet's network.
	var endpoints []rpc.Endpoint
	if active, ok := a.cfg.ActiveRPC(); ok {
		endpoints = append(endpoints, rpc.Endpoint{Name: active.Name, URL: active.URL})
	}
	for _, r := range a.cfg.RPCURLs {
		if len(endpoints) > 0 && r.URL == endpoints[0].URL {
			continue
		}
		endpoints = append(endpoints, rpc.Endpoint{Name: r.Name, URL: r.URL})
	}

	for _, res := range rpc.ConnectAll(a.ctx, endpoints, rpc.DefaultTimeout) {
		if res.Error != nil {
			a.logger.Warn("wallet network unreachable", "name", res.Name, "err", res.Error)
			continue
		}
		a.clients = append(a.clients, res.Client)
		d := a.describe(res)
		a.logger.Info("wallet network ready", "name", d.ChainName, "chain", d.ChainID)
		walletOpts = append(walletOpts, wallet.WithChain(d, res.Client.Client))
	}

	return wallet.New(keys, walletOpts...)
}

// describe builds the descriptor of a dialed endpoint. The faucet network keeps
// its canonical name and currency.
func (a *app) describe(res rpc.ConnectResult) network.Descriptor {
	id := network.ChainIDFromBig(res.Client.ChainID)
	if network.SameChain(id, a.target.ChainID) {
		d := a.target.Clone()
		d.RPCURLs = []string{res.Client.URL}
		return d
	}
	return network.Descriptor{
		ChainID:        id,
		ChainName:      res.Name,
		RPCURLs:        []string{res.Client.URL},
		NativeCurrency: network.Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
	}
}

// loadKeys reads the private key from the configured environment variable and
// decrypts the configured keystores.
func loadKeys(cfg config.Config, getenv func(string) string) ([]*ecdsa.PrivateKey, error) {
	var keys []*ecdsa.PrivateKey
	if cfg.PrivateKeyEnv != "" {
		if hex := strings.TrimSpace(getenv(cfg.PrivateKeyEnv)); hex != "" {
			k, err := wallet.KeyFromHex(hex)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", cfg.PrivateKeyEnv, err)
			}
			keys = append(keys, k)
		}
	}
	for _, ks := range cfg.Keystores {
		k, err := wallet.KeyFromKeystore(ks.Path, getenv(ks.PasswordEnv))
		if err != nil {
			return nil, fmt.Errorf("keystore %s: %w", ks.Path, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// notify wakes the program. Bursts collapse into one pending wake-up.
func (a *app) notify() {
	select {
	case a.changes <- struct{}{}:
	default:
	}
}

// view projects the current state.
func (a *app) view() projection.View {
	return projection.Project(projection.Input{
		Session:        a.session.Snapshot(),
		Claim:          a.claims.Current(),
		ClaimBusy:      a.claims.Busy(),
		Target:         a.target,
		ExplorerTxBase: a.explorerTxBase,
	})
}

// Close stops the subscriptions and releases the RPC connections. In-flight
// requests see a cancelled context.
func (a *app) Close() {
	a.cancel()
	if a.session != nil {
		a.session.Stop()
	}
	for _, c := range a.clients {
		c.Close()
	}
}
