// Package wallet is an in-process EIP-1193 wallet. It holds signing keys, a set
// of known chains with their node connections, asks an Approver before acting
// for a dapp, and emits chainChanged / accountsChanged like a browser wallet.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"io"
	"sync"

	"charm-faucet-tui/network"
	"charm-faucet-tui/provider"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrNoKeys is returned by New without signing keys.
var ErrNoKeys = errors.New("wallet has no keys")

// Wallet implements provider.Provider.
type Wallet struct {
	keys     []*ecdsa.PrivateKey
	addrs    []common.Address
	approver Approver
	dial     DialFunc
	logger   *log.Logger

	mu         sync.Mutex
	selected   int
	authorized bool
	chains     map[string]*Chain
	order      []string // chain ids in the order they were added
	active     string
	listeners  map[provider.EventKind][]listener
	nextID     int
}

type listener struct {
	id int
	fn provider.Listener
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithApprover sets who answers approval prompts. The default rejects
// everything.
func WithApprover(a Approver) Option {
	return func(w *Wallet) {
		if a != nil {
			w.approver = a
		}
	}
}

// WithDialer sets how chains added by a dapp are dialed.
func WithDialer(d DialFunc) Option {
	return func(w *Wallet) {
		if d != nil {
			w.dial = d
		}
	}
}

// WithChain registers a known chain. The first one becomes active.
func WithChain(d network.Descriptor, b Backend) Option {
	return func(w *Wallet) { w.addChain(d, b) }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Wallet) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a wallet for keys.
func New(keys []*ecdsa.PrivateKey, opts ...Option) (*Wallet, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	w := &Wallet{
		keys:      keys,
		approver:  RejectAll,
		dial:      DialRPC,
		logger:    log.New(io.Discard),
		chains:    make(map[string]*Chain),
		listeners: make(map[provider.EventKind][]listener),
	}
	for _, k := range keys {
		w.addrs = append(w.addrs, crypto.PubkeyToAddress(k.PublicKey))
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithPrefix("wallet")
	return w, nil
}

func (w *Wallet) addChain(d network.Descriptor, b Backend) {
	id := network.NormalizeChainID(d.ChainID)
	d = d.Clone()
	d.ChainID = id
	if _, ok := w.chains[id]; !ok {
		w.order = append(w.order, id)
	}
	w.chains[id] = &Chain{Descriptor: d, Backend: b}
	if w.active == "" {
		w.active = id
	}
}

// On implements provider.Provider.
func (w *Wallet) On(kind provider.EventKind, fn provider.Listener) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	id := w.nextID
	w.listeners[kind] = append(w.listeners[kind], listener{id: id, fn: fn})
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		ls := w.listeners[kind]
		for i, l := range ls {
			if l.id == id {
				w.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// emit delivers ev to the listeners registered at the time of the call. It
// must be called without w.mu held.
func (w *Wallet) emit(ev provider.Event) {
	w.mu.Lock()
	ls := append([]listener(nil), w.listeners[ev.Kind]...)
	w.mu.Unlock()
	for _, l := range ls {
		l.fn(ev)
	}
}

func (w *Wallet) emitChain(id string) {
	w.logger.Debug("emit chainChanged", "chain", id)
	w.emit(provider.Event{Kind: provider.ChainChanged, ChainID: id})
}

func (w *Wallet) emitAccounts(accounts []string) {
	w.logger.Debug("emit accountsChanged", "accounts", accounts)
	w.emit(provider.Event{Kind: provider.AccountsChanged, Accounts: accounts})
}

// exposedLocked returns the accounts visible to the dapp.
func (w *Wallet) exposedLocked() []string {
	if !w.authorized {
		return []string{}
	}
	return []string{w.addrs[w.selected].Hex()}
}

// Accounts returns every address the wallet holds.
func (w *Wallet) Accounts() []common.Address {
	return append([]common.Address(nil), w.addrs...)
}

// Selected returns the active account.
func (w *Wallet) Selected() common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addrs[w.selected]
}

// Authorized reports whether the dapp was granted account access.
func (w *Wallet) Authorized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.authorized
}

// SelectAccount makes account i active, as a user would in the wallet UI.
func (w *Wallet) SelectAccount(i int) error {
	w.mu.Lock()
	if i < 0 || i >= len(w.addrs) {
		w.mu.Unlock()
		return errors.New("account index out of range")
	}
	changed := w.selected != i
	w.selected = i
	accounts := w.exposedLocked()
	authorized := w.authorized
	w.mu.Unlock()

	if changed && authorized {
		w.emitAccounts(accounts)
	}
	return nil
}

// NextAccount cycles the active account.
func (w *Wallet) NextAccount() common.Address {
	w.mu.Lock()
	next := (w.selected + 1) % len(w.addrs)
	w.mu.Unlock()
	_ = w.SelectAccount(next)
	return w.Selected()
}

// Lock revokes the dapp's account access.
func (w *Wallet) Lock() {
	w.mu.Lock()
	was := w.authorized
	w.authorized = false
	w.mu.Unlock()
	if was {
		w.logger.Info("locked")
		w.emitAccounts([]string{})
	}
}

// Chains returns the known chains in the order they were added.
func (w *Wallet) Chains() []network.Descriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]network.Descriptor, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.chains[id].Descriptor.Clone())
	}
	return out
}

// ActiveChain returns the active chain descriptor.
func (w *Wallet) ActiveChain() network.Descriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.chains[w.active]; ok {
		return c.Descriptor.Clone()
	}
	return network.Descriptor{}
}

// UseChain makes a known chain active without asking, as a user would in the
// wallet UI.
func (w *Wallet) UseChain(chainID string) error {
	id := network.NormalizeChainID(chainID)
	w.mu.Lock()
	if _, ok := w.chains[id]; !ok {
		w.mu.Unlock()
		return errors.New("unknown chain " + chainID)
	}
	changed := w.active != id
	w.active = id
	w.mu.Unlock()

	if changed {
		w.logger.Info("network changed", "chain", id)
		w.emitChain(id)
	}
	return nil
}

// NextChain cycles the active chain.
func (w *Wallet) NextChain() network.Descriptor {
	w.mu.Lock()
	next := w.active
	for i, id := range w.order {
		if id == w.active {
			next = w.order[(i+1)%len(w.order)]
			break
		}
	}
	w.mu.Unlock()
	if next != "" {
		_ = w.UseChain(next)
	}
	return w.ActiveChain()
}
