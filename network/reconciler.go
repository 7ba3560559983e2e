// Package network tracks the wallet's active chain against the faucet's target
// chain and drives the switch / add-chain protocol.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"charm-faucet-tui/provider"

	"github.com/charmbracelet/log"
)

// ErrSwitchInProgress is returned when a switch is requested while another
// attempt still waits on the wallet.
var ErrSwitchInProgress = errors.New("network switch already in progress")

// State is the reconciliation state.
type State int

const (
	Unknown State = iota
	Mismatched
	Matched
)

func (s State) String() string {
	switch s {
	case Mismatched:
		return "mismatched"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Reconciler owns the observed chain id. The chain id is only ever taken from
// eth_chainId reads and chainChanged events, never from the outcome of a
// switch request.
type Reconciler struct {
	adapter *provider.Adapter
	target  Descriptor
	logger  *log.Logger
	notify  func()

	mu        sync.Mutex
	chainID   string
	events    uint64 // chainChanged events seen, used to discard stale reads
	reads     uint64 // eth_chainId reads issued
	applied   uint64 // newest read applied; older reads are dropped
	switching bool
	attempted bool
	remove    func()
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithNotify registers a hook called after every state change.
func WithNotify(fn func()) Option {
	return func(r *Reconciler) { r.notify = fn }
}

// NewReconciler creates a reconciler for target.
func NewReconciler(a *provider.Adapter, target Descriptor, opts ...Option) *Reconciler {
	r := &Reconciler{
		adapter: a,
		target:  target.Clone(),
		logger:  log.New(io.Discard),
		notify:  func() {},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithPrefix("network")
	return r
}

// Start subscribes to chainChanged and reads the current chain id. Without a
// provider it does nothing and the state stays Unknown.
func (r *Reconciler) Start(ctx context.Context) error {
	if !r.adapter.Present() {
		r.logger.Warn("no provider, network state stays unknown")
		return nil
	}
	remove := r.adapter.On(provider.ChainChanged, func(ev provider.Event) {
		r.observe(ev.ChainID)
	})
	r.mu.Lock()
	r.remove = remove
	r.mu.Unlock()

	if err := r.read(ctx); err != nil {
		return fmt.Errorf("read initial chain id: %w", err)
	}
	return nil
}

// Stop removes the chainChanged subscription.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	remove := r.remove
	r.remove = nil
	r.mu.Unlock()
	if remove != nil {
		remove()
	}
}

// EnsureTargetNetwork asks the wallet to switch to the target chain, adding the
// chain first when the wallet does not know it. Success of the request is not
// taken as proof: the state is re-read afterwards. Only one attempt runs at a
// time; a second one fails with ErrSwitchInProgress.
func (r *Reconciler) EnsureTargetNetwork(ctx context.Context) error {
	if !r.adapter.Present() {
		return provider.ErrNoProvider
	}

	r.mu.Lock()
	if r.switching {
		r.mu.Unlock()
		return ErrSwitchInProgress
	}
	r.switching = true
	r.attempted = false
	r.mu.Unlock()
	r.notify()

	defer func() {
		r.mu.Lock()
		r.switching = false
		r.mu.Unlock()
		r.notify()
	}()

	r.logger.Info("switch requested", "chain", r.target.ChainID)
	_, err := r.adapter.Request(ctx, provider.MethodSwitchChain, provider.SwitchChainParams{ChainID: r.target.ChainID})
	if err != nil {
		if !provider.IsCode(err, provider.CodeUnrecognizedChain) {
			r.logger.Error("switch failed", "chain", r.target.ChainID, "err", err)
			return fmt.Errorf("switch to %s: %w", r.target.ChainName, err)
		}
		r.logger.Info("chain unknown to wallet, adding", "chain", r.target.ChainID, "name", r.target.ChainName)
		if _, err := r.adapter.Request(ctx, provider.MethodAddChain, r.target.Clone()); err != nil {
			r.logger.Error("add chain failed", "chain", r.target.ChainID, "err", err)
			return fmt.Errorf("add %s: %w", r.target.ChainName, err)
		}
	}

	r.mu.Lock()
	r.attempted = true
	r.mu.Unlock()

	r.Recheck(ctx)
	return nil
}

// Recheck re-reads the active chain id. A failed read leaves the last
// observation in place.
func (r *Reconciler) Recheck(ctx context.Context) {
	if err := r.read(ctx); err != nil {
		r.logger.Warn("chain id re-read failed", "err", err)
	}
}

func (r *Reconciler) read(ctx context.Context) error {
	r.mu.Lock()
	seen := r.events
	r.reads++
	seq := r.reads
	r.mu.Unlock()

	var id string
	if err := r.adapter.Call(ctx, &id, provider.MethodChainID); err != nil {
		return err
	}

	r.mu.Lock()
	if r.events != seen || seq < r.applied {
		r.mu.Unlock()
		r.logger.Debug("dropping chain id read, newer observation arrived", "read", id)
		return nil
	}
	r.applied = seq
	prev, state := r.setLocked(id)
	r.mu.Unlock()

	r.changed(prev, id, state)
	return nil
}

func (r *Reconciler) observe(id string) {
	r.mu.Lock()
	r.events++
	prev, state := r.setLocked(id)
	r.mu.Unlock()

	r.changed(prev, id, state)
}

func (r *Reconciler) setLocked(id string) (string, State) {
	prev := r.chainID
	r.chainID = NormalizeChainID(id)
	return prev, r.stateLocked()
}

func (r *Reconciler) changed(prev, id string, state State) {
	if prev != NormalizeChainID(id) {
		r.logger.Info("chain changed", "from", prev, "to", id, "state", state)
	}
	r.notify()
}

func (r *Reconciler) stateLocked() State {
	switch {
	case r.chainID == "":
		return Unknown
	case SameChain(r.chainID, r.target.ChainID):
		return Matched
	default:
		return Mismatched
	}
}

// State returns the current reconciliation state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// Ready reports whether the wallet is on the target chain.
func (r *Reconciler) Ready() bool {
	return r.State() == Matched
}

// ChainID returns the last observed chain id in canonical form, "" if none.
func (r *Reconciler) ChainID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chainID
}

// Switching reports whether a switch attempt is in progress.
func (r *Reconciler) Switching() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.switching
}

// Attempted reports whether the last switch attempt completed its requests.
func (r *Reconciler) Attempted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempted
}

// Target returns a copy of the target descriptor.
func (r *Reconciler) Target() Descriptor {
	return r.target.Clone()
}
