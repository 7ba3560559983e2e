// Package session holds the connected account and derives whether the user is
// ready to claim.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"charm-faucet-tui/network"
	"charm-faucet-tui/provider"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrConnectInProgress is returned when Connect is called while a connect
	// attempt is still running.
	ErrConnectInProgress = errors.New("connect already in progress")

	// ErrNoAccounts is returned when the wallet approved access but exposed no
	// account.
	ErrNoAccounts = errors.New("wallet returned no accounts")
)

// Snapshot is a point-in-time copy of the provider session.
type Snapshot struct {
	ProviderPresent bool
	Account         string
	ChainID         string
	Network         network.State
	Ready           bool
	Connecting      bool
	Switching       bool
	Err             error
}

// Connected reports whether an account is present.
func (s Snapshot) Connected() bool { return s.Account != "" }

// Session is the single owner of the connected account.
type Session struct {
	adapter *provider.Adapter
	network *network.Reconciler
	logger  *log.Logger
	notify  func()

	mu         sync.Mutex
	account    string
	connecting bool
	switching  bool
	err        error
	remove     func()
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotify registers a hook called after every session change.
func WithNotify(fn func()) Option {
	return func(s *Session) { s.notify = fn }
}

// New creates a session on top of an adapter and its network reconciler.
func New(a *provider.Adapter, r *network.Reconciler, opts ...Option) *Session {
	s := &Session{
		adapter: a,
		network: r,
		logger:  log.New(io.Discard),
		notify:  func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("session")
	return s
}

// Start subscribes to accountsChanged and starts the network reconciler.
func (s *Session) Start(ctx context.Context) error {
	if !s.adapter.Present() {
		s.setErr(provider.ErrNoProvider)
		return s.network.Start(ctx)
	}
	remove := s.adapter.On(provider.AccountsChanged, func(ev provider.Event) {
		s.accountsChanged(ev.Accounts)
	})
	s.mu.Lock()
	s.remove = remove
	s.mu.Unlock()
	return s.network.Start(ctx)
}

// Stop tears down the subscriptions.
func (s *Session) Stop() {
	s.mu.Lock()
	remove := s.remove
	s.remove = nil
	s.mu.Unlock()
	if remove != nil {
		remove()
	}
	s.network.Stop()
}

// Connect makes sure the wallet is on the target network, then asks for
// account access. The network goes first so the user never approves a
// connection while pointed at an unrelated chain.
func (s *Session) Connect(ctx context.Context) error {
	if !s.adapter.Present() {
		s.setErr(provider.ErrNoProvider)
		return provider.ErrNoProvider
	}

	if err := s.begin(&s.connecting); err != nil {
		return err
	}
	defer s.end(&s.connecting)

	if err := s.network.EnsureTargetNetwork(ctx); err != nil {
		s.setErr(err)
		return err
	}

	var accounts []string
	if err := s.adapter.Call(ctx, &accounts, provider.MethodRequestAccounts); err != nil {
		err = fmt.Errorf("request accounts: %w", err)
		s.setErr(err)
		return err
	}
	if len(accounts) == 0 {
		s.setErr(ErrNoAccounts)
		return ErrNoAccounts
	}

	s.setAccount(accounts[0])
	s.logger.Info("connected", "account", accounts[0], "chain", s.network.ChainID())
	return nil
}

// SwitchNetwork retries the switch to the target network. It shares the
// in-progress guard with Connect.
func (s *Session) SwitchNetwork(ctx context.Context) error {
	if !s.adapter.Present() {
		s.setErr(provider.ErrNoProvider)
		return provider.ErrNoProvider
	}
	if err := s.begin(&s.switching); err != nil {
		return err
	}
	defer s.end(&s.switching)

	if err := s.network.EnsureTargetNetwork(ctx); err != nil {
		s.setErr(err)
		return err
	}
	return nil
}

// begin marks a connect or switch as running. The rejection leaves the last
// error in place.
func (s *Session) begin(flag *bool) error {
	s.mu.Lock()
	switch {
	case s.connecting:
		s.mu.Unlock()
		return ErrConnectInProgress
	case s.switching:
		s.mu.Unlock()
		return network.ErrSwitchInProgress
	}
	*flag = true
	s.err = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) end(flag *bool) {
	s.mu.Lock()
	*flag = false
	s.mu.Unlock()
	s.notify()
}

func (s *Session) accountsChanged(accounts []string) {
	if len(accounts) == 0 {
		s.logger.Info("wallet disconnected")
		s.setAccount("")
		return
	}
	s.logger.Info("account changed", "account", accounts[0])
	s.setAccount(accounts[0])
}

func (s *Session) setAccount(addr string) {
	if common.IsHexAddress(addr) {
		addr = common.HexToAddress(addr).Hex()
	}
	s.mu.Lock()
	s.account = addr
	s.mu.Unlock()
	s.notify()
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.notify()
}

// Account returns the connected account, "" when disconnected.
func (s *Session) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// NetworkReady reports whether the wallet is on the target chain.
func (s *Session) NetworkReady() bool {
	return s.network.Ready()
}

// ChainID returns the observed chain id.
func (s *Session) ChainID() string {
	return s.network.ChainID()
}

// Target returns the target network descriptor.
func (s *Session) Target() network.Descriptor {
	return s.network.Target()
}

// IsReadyToClaim reports whether an account is connected and the wallet is on
// the target chain.
func (s *Session) IsReadyToClaim() bool {
	return s.Account() != "" && s.network.Ready()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ProviderPresent: s.adapter.Present(),
		Account:         s.account,
		Connecting:      s.connecting,
		Switching:       s.switching,
		Err:             s.err,
	}
	s.mu.Unlock()

	snap.ChainID = s.network.ChainID()
	snap.Network = s.network.State()
	snap.Ready = snap.Network == network.Matched
	snap.Switching = snap.Switching || s.network.Switching()
	return snap
}
