// Package provider is the façade over an injected wallet provider: request and
// response calls, provider-originated events and a presence probe.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Request method names
const (
	MethodChainID            = "eth_chainId"
	MethodAccounts           = "eth_accounts"
	MethodRequestAccounts    = "eth_requestAccounts"
	MethodSwitchChain        = "wallet_switchEthereumChain"
	MethodAddChain           = "wallet_addEthereumChain"
	MethodSendTransaction    = "eth_sendTransaction"
	MethodTransactionReceipt = "eth_getTransactionReceipt"
)

// EventKind names a provider-originated event.
type EventKind string

const (
	ChainChanged    EventKind = "chainChanged"
	AccountsChanged EventKind = "accountsChanged"
)

// Event is a provider notification. ChainID is set for ChainChanged, Accounts
// for AccountsChanged (empty when the wallet disconnected).
type Event struct {
	Kind     EventKind
	ChainID  string
	Accounts []string
}

// Listener receives provider events.
type Listener func(Event)

// Provider is the wallet provider contract. Listeners for one kind must be
// called in the order the provider emits the events.
type Provider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	On(kind EventKind, fn Listener) (remove func())
}

// SwitchChainParams is the single parameter of wallet_switchEthereumChain.
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// TxRequest is the single parameter of eth_sendTransaction.
type TxRequest struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

// ValueOrZero returns the transferred value, zero when unset.
func (r TxRequest) ValueOrZero() *big.Int {
	if r.Value == nil {
		return new(big.Int)
	}
	return r.Value.ToInt()
}

// Adapter wraps an optional Provider. Callers branch on Present before
// issuing requests; a missing provider is not an error for the adapter itself.
type Adapter struct {
	p Provider
}

// NewAdapter wraps p, which may be nil when no wallet was detected.
func NewAdapter(p Provider) *Adapter {
	return &Adapter{p: p}
}

// Present reports whether a provider is available.
func (a *Adapter) Present() bool {
	return a != nil && a.p != nil
}

// Request forwards to the provider. Failures always come back as *RequestError.
func (a *Adapter) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if !a.Present() {
		return nil, ErrNoProvider
	}
	res, err := a.p.Request(ctx, method, params...)
	if err != nil {
		return nil, AsRequestError(err)
	}
	return res, nil
}

// Call issues method and decodes the result into result, which may be nil.
func (a *Adapter) Call(ctx context.Context, result any, method string, params ...any) error {
	raw, err := a.Request(ctx, method, params...)
	if err != nil {
		return err
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

// On subscribes fn to events of kind. Without a provider it does nothing.
func (a *Adapter) On(kind EventKind, fn Listener) (remove func()) {
	if !a.Present() {
		return func() {}
	}
	return a.p.On(kind, fn)
}
