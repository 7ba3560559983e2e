// Package claim submits the faucet claim transaction and follows it until it is
// confirmed or fails.
package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"charm-faucet-tui/network"
	"charm-faucet-tui/provider"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// DefaultPollInterval is the receipt polling interval.
const DefaultPollInterval = 2 * time.Second

// Status is the lifecycle state of a claim transaction.
type Status int

const (
	Idle Status = iota
	Pending
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// Transaction is one claim attempt.
type Transaction struct {
	ID          uuid.UUID
	Hash        string
	Status      Status
	Err         error
	Detail      string
	StartedAt   time.Time
	FinishedAt  time.Time
	BlockNumber uint64
}

// Done reports whether the attempt reached a final state.
func (t Transaction) Done() bool { return t.Status == Success || t.Status == Failed }

// Gate is what the workflow needs to know about the session before and during
// a claim.
type Gate interface {
	Account() string
	NetworkReady() bool
	ChainID() string
}

type receipt struct {
	TransactionHash common.Hash    `json:"transactionHash"`
	BlockNumber     *hexutil.Big   `json:"blockNumber"`
	Status          hexutil.Uint64 `json:"status"`
}

// Workflow runs claim attempts one at a time.
type Workflow struct {
	adapter  *provider.Adapter
	gate     Gate
	target   network.Descriptor
	contract common.Address
	poll     time.Duration
	timeout  time.Duration
	logger   *log.Logger
	notify   func()
	now      func() time.Time

	mu   sync.Mutex
	tx   *Transaction
	busy bool
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithPollInterval sets how often the receipt is polled.
func WithPollInterval(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.poll = d
		}
	}
}

// WithConfirmationTimeout bounds the wait for a receipt. Zero waits until the
// context is done.
func WithConfirmationTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithNotify registers a hook called after every transaction change.
func WithNotify(fn func()) Option {
	return func(w *Workflow) { w.notify = fn }
}

// New creates a workflow claiming from contract on the target network.
func New(a *provider.Adapter, gate Gate, target network.Descriptor, contract common.Address, opts ...Option) *Workflow {
	w := &Workflow{
		adapter:  a,
		gate:     gate,
		target:   target.Clone(),
		contract: contract,
		poll:     DefaultPollInterval,
		logger:   log.New(io.Discard),
		notify:   func() {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithPrefix("claim")
	return w
}

// Contract returns the faucet contract address.
func (w *Workflow) Contract() common.Address { return w.contract }

// Current returns a copy of the latest attempt, nil before the first one.
func (w *Workflow) Current() *Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tx == nil {
		return nil
	}
	tx := *w.tx
	return &tx
}

// Busy reports whether a claim is in flight.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Submit runs one claim attempt to completion and returns the final
// transaction. The returned error is also recorded on the transaction.
func (w *Workflow) Submit(ctx context.Context) (Transaction, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return Transaction{}, ErrClaimInFlight
	}
	w.busy = true
	w.tx = &Transaction{ID: uuid.New(), StartedAt: w.now()}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
		w.notify()
	}()

	account := w.gate.Account()
	if account == "" {
		return w.fail(ErrNotConnected)
	}
	if !w.gate.NetworkReady() {
		return w.fail(&WrongNetworkError{
			Want:    w.target.ChainName,
			WantID:  w.target.ChainID,
			ChainID: w.gate.ChainID(),
		})
	}
	chainID := w.gate.ChainID()

	w.update(func(tx *Transaction) { tx.Status = Pending })
	logger := w.logger.With("id", w.Current().ID)
	logger.Info("submitting claim", "account", account, "contract", w.contract.Hex())

	hash, err := w.send(ctx, account)
	if err != nil {
		logger.Error("claim not sent", "err", err)
		return w.fail(&SubmissionError{Err: err})
	}
	w.update(func(tx *Transaction) { tx.Hash = hash })
	logger.Info("claim sent", "hash", hash)

	rcpt, err := w.wait(ctx, hash, chainID)
	if err != nil {
		logger.Error("claim not confirmed", "hash", hash, "err", err)
		return w.fail(&ConfirmationError{Hash: hash, Err: err})
	}

	var block uint64
	if rcpt.BlockNumber != nil {
		block = rcpt.BlockNumber.ToInt().Uint64()
	}
	logger.Info("claim confirmed", "hash", hash, "block", block)
	return w.finish(func(tx *Transaction) {
		tx.Status = Success
		tx.BlockNumber = block
	}), nil
}

func (w *Workflow) send(ctx context.Context, account string) (string, error) {
	data, err := faucetCalldata()
	if err != nil {
		return "", err
	}
	to := w.contract
	req := provider.TxRequest{
		From: common.HexToAddress(account),
		To:   &to,
		Data: data,
	}
	var hash string
	if err := w.adapter.Call(ctx, &hash, provider.MethodSendTransaction, req); err != nil {
		return "", err
	}
	if hash == "" {
		return "", errors.New("wallet returned an empty transaction hash")
	}
	return hash, nil
}

// wait polls for the receipt of hash until it is mined, the wallet leaves
// chainID or ctx is done.
func (w *Workflow) wait(ctx context.Context, hash, chainID string) (*receipt, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		if !network.SameChain(w.gate.ChainID(), chainID) {
			return nil, ErrNetworkChanged
		}

		raw, err := w.adapter.Request(ctx, provider.MethodTransactionReceipt, hash)
		if err != nil {
			return nil, err
		}
		if rcpt, err := decodeReceipt(raw); err != nil {
			return nil, err
		} else if rcpt != nil {
			if rcpt.Status == 0 {
				return nil, ErrReverted
			}
			return rcpt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func decodeReceipt(raw json.RawMessage) (*receipt, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var r receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	return &r, nil
}

func (w *Workflow) update(fn func(*Transaction)) {
	w.mu.Lock()
	fn(w.tx)
	w.mu.Unlock()
	w.notify()
}

func (w *Workflow) finish(fn func(*Transaction)) Transaction {
	w.mu.Lock()
	fn(w.tx)
	w.tx.FinishedAt = w.now()
	tx := *w.tx
	w.mu.Unlock()
	return tx
}

func (w *Workflow) fail(err error) (Transaction, error) {
	tx := w.finish(func(tx *Transaction) {
		tx.Status = Failed
		tx.Err = err
		tx.Detail = Detail(err)
	})
	return tx, err
}
