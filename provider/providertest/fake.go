// Package providertest provides a scriptable provider.Provider for tests.
package providertest

import (
	"context"
	"encoding/json"
	"sync"

	"charm-faucet-tui/provider"
)

// Handler answers one request. Returning a nil result encodes as JSON null.
type Handler func(ctx context.Context, params []any) (any, error)

// Call records a request seen by the fake.
type Call struct {
	Method string
	Params []any
}

// Fake is an in-memory provider. Unscripted methods fail with an
// unsupported-method error. Events are delivered synchronously by Emit.
type Fake struct {
	mu        sync.Mutex
	handlers  map[string]Handler
	calls     []Call
	listeners map[provider.EventKind][]*entry
	nextID    int
}

type entry struct {
	id int
	fn provider.Listener
}

// New returns an empty fake.
func New() *Fake {
	return &Fake{
		handlers:  make(map[string]Handler),
		listeners: make(map[provider.EventKind][]*entry),
	}
}

// Handle scripts method.
func (f *Fake) Handle(method string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
	return f
}

// Return scripts method to always answer with result.
func (f *Fake) Return(method string, result any) *Fake {
	return f.Handle(method, func(context.Context, []any) (any, error) { return result, nil })
}

// Fail scripts method to always fail with err.
func (f *Fake) Fail(method string, err error) *Fake {
	return f.Handle(method, func(context.Context, []any) (any, error) { return nil, err })
}

// Request implements provider.Provider.
func (f *Fake) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Params: params})
	h := f.handlers[method]
	f.mu.Unlock()

	if h == nil {
		return nil, provider.NewRequestError(provider.CodeUnsupportedMethod, "method "+method+" not supported")
	}
	res, err := h(ctx, params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

// On implements provider.Provider.
func (f *Fake) On(kind provider.EventKind, fn provider.Listener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.listeners[kind] = append(f.listeners[kind], &entry{id: id, fn: fn})
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := f.listeners[kind]
		for i, e := range list {
			if e.id == id {
				f.listeners[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to the current listeners of its kind.
func (f *Fake) Emit(ev provider.Event) {
	f.mu.Lock()
	list := append([]*entry(nil), f.listeners[ev.Kind]...)
	f.mu.Unlock()
	for _, e := range list {
		e.fn(ev)
	}
}

// EmitChainChanged is a shorthand for a chainChanged event.
func (f *Fake) EmitChainChanged(chainID string) {
	f.Emit(provider.Event{Kind: provider.ChainChanged, ChainID: chainID})
}

// EmitAccountsChanged is a shorthand for an accountsChanged event.
func (f *Fake) EmitAccountsChanged(accounts ...string) {
	f.Emit(provider.Event{Kind: provider.AccountsChanged, Accounts: accounts})
}

// Calls returns the requests seen so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Methods returns the method names of the requests seen so far.
func (f *Fake) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Method)
	}
	return out
}

// Listeners reports how many listeners are registered for kind.
func (f *Fake) Listeners(kind provider.EventKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners[kind])
}
