package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"charm-faucet-tui/network"
	"charm-faucet-tui/provider"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

func rejected(msg string) error {
	return provider.NewRequestError(provider.CodeUserRejected, msg)
}

func invalidParams(format string, args ...any) error {
	return provider.NewRequestError(provider.CodeInvalidParams, fmt.Sprintf(format, args...))
}

// Request implements provider.Provider.
func (w *Wallet) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	var (
		res any
		err error
	)
	switch method {
	case provider.MethodChainID:
		res = w.chainID()
	case provider.MethodAccounts:
		w.mu.Lock()
		res = w.exposedLocked()
		w.mu.Unlock()
	case provider.MethodRequestAccounts:
		res, err = w.requestAccounts(ctx)
	case provider.MethodSwitchChain:
		err = w.switchChain(ctx, params)
	case provider.MethodAddChain:
		err = w.addEthereumChain(ctx, params)
	case provider.MethodSendTransaction:
		res, err = w.sendTransaction(ctx, params)
	case provider.MethodTransactionReceipt:
		res, err = w.transactionReceipt(ctx, params)
	default:
		err = provider.NewRequestError(provider.CodeUnsupportedMethod,
			fmt.Sprintf("The method %q does not exist / is not available.", method))
	}
	if err != nil {
		w.logger.Debug("request failed", "method", method, "err", err)
		return nil, provider.AsRequestError(err)
	}
	return json.Marshal(res)
}

func decodeParam(params []any, i int, dst any) error {
	if i >= len(params) {
		return invalidParams("missing parameter %d", i)
	}
	raw, err := json.Marshal(params[i])
	if err != nil {
		return invalidParams("parameter %d: %v", i, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return invalidParams("parameter %d: %v", i, err)
	}
	return nil
}

func (w *Wallet) chainID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Wallet) approve(ctx context.Context, req Approval) (bool, error) {
	req.ID = uuid.New()
	w.logger.Info("approval requested", "kind", req.Kind, "id", req.ID)
	ok, err := w.approver.Approve(ctx, req)
	if err != nil {
		return false, fmt.Errorf("approval: %w", err)
	}
	w.logger.Info("approval answered", "kind", req.Kind, "id", req.ID, "approved", ok)
	return ok, nil
}

func (w *Wallet) requestAccounts(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	if w.authorized {
		accounts := w.exposedLocked()
		w.mu.Unlock()
		return accounts, nil
	}
	account := w.addrs[w.selected]
	chain := w.chains[w.active]
	w.mu.Unlock()

	req := Approval{Kind: ApproveConnect, Account: account}
	if chain != nil {
		req.Chain = chain.Descriptor.Clone()
	}
	ok, err := w.approve(ctx, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rejected("User rejected the request.")
	}

	w.mu.Lock()
	w.authorized = true
	accounts := w.exposedLocked()
	w.mu.Unlock()
	w.emitAccounts(accounts)
	return accounts, nil
}

func (w *Wallet) switchChain(ctx context.Context, params []any) error {
	var p provider.SwitchChainParams
	if err := decodeParam(params, 0, &p); err != nil {
		return err
	}
	id := network.NormalizeChainID(p.ChainID)

	w.mu.Lock()
	chain, known := w.chains[id]
	active := w.active == id
	account := w.addrs[w.selected]
	w.mu.Unlock()

	if !known {
		return provider.NewRequestError(provider.CodeUnrecognizedChain,
			fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", p.ChainID))
	}
	if active {
		return nil
	}

	ok, err := w.approve(ctx, Approval{Kind: ApproveSwitchChain, Account: account, Chain: chain.Descriptor.Clone()})
	if err != nil {
		return err
	}
	if !ok {
		return rejected("User rejected the request.")
	}
	return w.UseChain(id)
}

func validateDescriptor(d network.Descriptor) error {
	if d.ChainIDBig() == nil || d.ChainIDBig().Sign() <= 0 {
		return invalidParams("Expected 0x-prefixed, unpadded, non-zero hexadecimal string 'chainId'. Received: %q", d.ChainID)
	}
	if d.ChainName == "" {
		return invalidParams("Expected non-empty string 'chainName'.")
	}
	if len(d.RPCURLs) == 0 {
		return invalidParams("Expected an array with at least one valid string HTTPS url 'rpcUrls'.")
	}
	if d.NativeCurrency.Symbol == "" {
		return invalidParams("Expected non-empty string 'nativeCurrency.symbol'.")
	}
	if d.NativeCurrency.Decimals != 18 {
		return invalidParams("Expected the number 18 for 'nativeCurrency.decimals' when 'nativeCurrency' is provided. Received: %d", d.NativeCurrency.Decimals)
	}
	return nil
}

func (w *Wallet) addEthereumChain(ctx context.Context, params []any) error {
	var d network.Descriptor
	if err := decodeParam(params, 0, &d); err != nil {
		return err
	}
	if err := validateDescriptor(d); err != nil {
		return err
	}
	id := network.NormalizeChainID(d.ChainID)

	w.mu.Lock()
	_, known := w.chains[id]
	account := w.addrs[w.selected]
	w.mu.Unlock()
	if known {
		return w.switchChain(ctx, []any{provider.SwitchChainParams{ChainID: id}})
	}

	ok, err := w.approve(ctx, Approval{Kind: ApproveAddChain, Account: account, Chain: d.Clone()})
	if err != nil {
		return err
	}
	if !ok {
		return rejected("User rejected the request.")
	}

	backend, err := w.dial(ctx, d.RPCURLs[0])
	if err != nil {
		return provider.NewRequestError(provider.CodeInternal,
			fmt.Sprintf("Could not fetch chain ID. Is your RPC URL correct? (%v)", err))
	}
	got, err := backend.ChainID(ctx)
	if err != nil {
		return provider.NewRequestError(provider.CodeInternal,
			fmt.Sprintf("Could not fetch chain ID. Is your RPC URL correct? (%v)", err))
	}
	if network.ChainIDFromBig(got) != id {
		return invalidParams("Chain ID returned by RPC URL %s does not match %s (got %s).",
			d.RPCURLs[0], d.ChainID, network.ChainIDFromBig(got))
	}

	w.mu.Lock()
	w.addChain(d, backend)
	w.active = id
	w.mu.Unlock()

	w.logger.Info("chain added", "chain", id, "name", d.ChainName)
	w.emitChain(id)
	return nil
}

func (w *Wallet) sendTransaction(ctx context.Context, params []any) (string, error) {
	var req provider.TxRequest
	if err := decodeParam(params, 0, &req); err != nil {
		return "", err
	}

	w.mu.Lock()
	authorized := w.authorized
	idx := w.selected
	from := w.addrs[idx]
	chain := w.chains[w.active]
	w.mu.Unlock()

	if !authorized || req.From != from {
		return "", provider.NewRequestError(provider.CodeUnauthorized,
			"The requested account and/or method has not been authorized by the user.")
	}
	if chain == nil || chain.Backend == nil {
		return "", provider.NewRequestError(provider.CodeChainDisconnected, "The provider is disconnected from the specified chain.")
	}

	ok, err := w.approve(ctx, Approval{Kind: ApproveTransaction, Account: from, Chain: chain.Descriptor.Clone(), Tx: &req})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", rejected("User denied transaction signature.")
	}

	chainID := chain.Descriptor.ChainIDBig()
	tx, err := buildTx(ctx, chain.Backend, chainID, req)
	if err != nil {
		return "", err
	}
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.keys[idx])
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	if err := chain.Backend.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	w.logger.Info("transaction sent", "hash", signed.Hash().Hex(), "nonce", signed.Nonce(), "gas", signed.Gas())
	return signed.Hash().Hex(), nil
}

// buildTx fills nonce, fees and gas for an EIP-1559 transaction.
func buildTx(ctx context.Context, b Backend, chainID *big.Int, req provider.TxRequest) (*types.Transaction, error) {
	nonce, err := b.PendingNonceAt(ctx, req.From)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	tip, err := b.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest tip: %w", err)
	}
	head, err := b.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("latest header: %w", err)
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	value := req.ValueOrZero()
	var gas uint64
	if req.Gas != nil {
		gas = uint64(*req.Gas)
	} else {
		gas, err = b.EstimateGas(ctx, ethereum.CallMsg{
			From:  req.From,
			To:    req.To,
			Value: value,
			Data:  req.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("estimate gas: %w", err)
		}
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        req.To,
		Value:     value,
		Data:      req.Data,
	}), nil
}

func (w *Wallet) transactionReceipt(ctx context.Context, params []any) (*types.Receipt, error) {
	var hash common.Hash
	if err := decodeParam(params, 0, &hash); err != nil {
		return nil, err
	}

	w.mu.Lock()
	chain := w.chains[w.active]
	w.mu.Unlock()
	if chain == nil || chain.Backend == nil {
		return nil, provider.NewRequestError(provider.CodeChainDisconnected, "The provider is disconnected from the specified chain.")
	}

	r, err := chain.Backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("receipt %s: %w", hash.Hex(), err)
	}
	return r, nil
}
