package wallet

import (
	"context"
	"fmt"

	"charm-faucet-tui/helpers"
	"charm-faucet-tui/network"
	"charm-faucet-tui/provider"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// ApprovalKind is what the user is asked to approve.
type ApprovalKind int

const (
	ApproveConnect ApprovalKind = iota
	ApproveSwitchChain
	ApproveAddChain
	ApproveTransaction
)

func (k ApprovalKind) String() string {
	switch k {
	case ApproveConnect:
		return "connect"
	case ApproveSwitchChain:
		return "switch network"
	case ApproveAddChain:
		return "add network"
	case ApproveTransaction:
		return "sign transaction"
	default:
		return "unknown"
	}
}

// Approval is one pending user decision.
type Approval struct {
	ID      uuid.UUID
	Kind    ApprovalKind
	Account common.Address
	Chain   network.Descriptor
	Tx      *provider.TxRequest
}

// Title is a short heading for the approval prompt.
func (a Approval) Title() string {
	switch a.Kind {
	case ApproveConnect:
		return "Connect to the faucet?"
	case ApproveSwitchChain:
		return fmt.Sprintf("Switch to %s?", a.Chain.ChainName)
	case ApproveAddChain:
		return fmt.Sprintf("Add %s?", a.Chain.ChainName)
	case ApproveTransaction:
		return "Sign transaction?"
	}
	return "Approve request?"
}

// Description lists what is being approved.
func (a Approval) Description() string {
	switch a.Kind {
	case ApproveConnect:
		return fmt.Sprintf("Share account %s with the faucet.", helpers.ShortenAddr(a.Account.Hex()))
	case ApproveSwitchChain:
		return fmt.Sprintf("Chain ID %s", a.Chain.ChainID)
	case ApproveAddChain:
		rpcURL := ""
		if len(a.Chain.RPCURLs) > 0 {
			rpcURL = a.Chain.RPCURLs[0]
		}
		return fmt.Sprintf("Chain ID %s\nRPC %s\nCurrency %s", a.Chain.ChainID, rpcURL, a.Chain.NativeCurrency.Symbol)
	case ApproveTransaction:
		to := "contract creation"
		if a.Tx != nil && a.Tx.To != nil {
			to = helpers.ShortenAddr(a.Tx.To.Hex())
		}
		value := "0"
		data := 0
		if a.Tx != nil {
			value = helpers.FormatUnits(a.Tx.ValueOrZero(), a.Chain.NativeCurrency.Decimals)
			data = len(a.Tx.Data)
		}
		return fmt.Sprintf("From %s\nTo %s\nValue %s %s\nData %d bytes\nNetwork %s",
			helpers.ShortenAddr(a.Account.Hex()), to, value, a.Chain.NativeCurrency.Symbol, data, a.Chain.ChainName)
	}
	return ""
}

// Approver decides approvals. It blocks until the user answered or ctx is
// done.
type Approver interface {
	Approve(ctx context.Context, req Approval) (bool, error)
}

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(ctx context.Context, req Approval) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, req Approval) (bool, error) { return f(ctx, req) }

// AutoApprove approves everything.
var AutoApprove = ApproverFunc(func(context.Context, Approval) (bool, error) { return true, nil })

// RejectAll rejects everything.
var RejectAll = ApproverFunc(func(context.Context, Approval) (bool, error) { return false, nil })
