// Package projection derives what the faucet screen shows from the session and
// the latest claim. It never mutates either.
package projection

import (
	"errors"
	"fmt"

	"charm-faucet-tui/claim"
	"charm-faucet-tui/network"
	"charm-faucet-tui/session"
)

// State is one of the mutually exclusive screen states.
type State string

const (
	Disconnected          State = "disconnected"
	Connecting            State = "connecting"
	ConnectedWrongNetwork State = "connected-wrong-network"
	ConnectedReady        State = "connected-ready"
	ClaimPending          State = "claim-pending"
	ClaimSuccess          State = "claim-success"
	ClaimError            State = "claim-error"
)

// Input is everything the projection reads.
type Input struct {
	Session        session.Snapshot
	Claim          *claim.Transaction
	ClaimBusy      bool
	Target         network.Descriptor
	ExplorerTxBase string
}

// View is the derived screen.
type View struct {
	State   State
	Title   string
	Message string
	// Error is the last connect or switch failure, or a claim turned down
	// before it reached the wallet, shown next to the state.
	Error string

	Account string
	TxHash  string
	TxURL   string

	ConnectEnabled bool
	ClaimEnabled   bool
	SwitchVisible  bool
}

// Project derives the view. Precedence: a running connect or switch, then a
// pending claim, then the connection state, then the last claim outcome.
func Project(in Input) View {
	snap := in.Session
	v := View{Account: snap.Account}
	if snap.Err != nil {
		v.Error = claim.Detail(snap.Err)
	}
	if in.Claim != nil && in.Claim.Hash != "" {
		v.TxHash = in.Claim.Hash
		v.TxURL = in.ExplorerTxBase + in.Claim.Hash
	}

	pending := in.ClaimBusy || (in.Claim != nil && in.Claim.Status == claim.Pending)
	wrongNetwork := snap.Connected() && !snap.Ready
	v.ClaimEnabled = snap.Connected() && snap.Ready && !pending && !snap.Connecting && !snap.Switching

	switch {
	case snap.Connecting || snap.Switching:
		v.State = Connecting
		v.Title = "Switching Network..."
		if snap.Connecting && !snap.Switching {
			v.Title = "Connecting..."
		}
		v.Message = "Confirm the request in your wallet."

	case pending:
		v.State = ClaimPending
		v.Title = "Claiming Tokens..."
		v.Message = "Confirm the transaction in your wallet."
		if v.TxHash != "" {
			v.Message = "Transaction sent, waiting for confirmation."
		}

	case !snap.ProviderPresent:
		v.State = Disconnected
		v.Title = "No wallet detected"
		v.Message = "Please install a wallet to claim tokens."

	case !snap.Connected():
		v.State = Disconnected
		v.Title = "Connect Wallet"
		v.Message = "Connect your wallet and claim tokens to start building."
		v.ConnectEnabled = true
		if v.Error == "" && refused(in.Claim) {
			v.Error = in.Claim.Detail
		}

	case wrongNetwork:
		v.State = ConnectedWrongNetwork
		v.Title = "Wrong Network"
		v.Message = fmt.Sprintf("Please switch to %s to claim tokens.", in.Target.ChainName)
		v.SwitchVisible = true
		if v.Error == "" && refused(in.Claim) {
			v.Error = in.Claim.Detail
		}

	case in.Claim != nil && in.Claim.Status == claim.Success:
		v.State = ClaimSuccess
		v.Title = "Success!"
		v.Message = "Tokens have been sent to your wallet."

	case in.Claim != nil && in.Claim.Status == claim.Failed:
		v.State = ClaimError
		v.Title = "Error"
		v.Message = in.Claim.Detail
		if v.Message == "" {
			v.Message = "Failed to claim tokens"
		}

	default:
		v.State = ConnectedReady
		v.Title = "Claim Testnet Tokens"
		v.Message = fmt.Sprintf("Ready to claim %s on %s.", in.Target.NativeCurrency.Symbol, in.Target.ChainName)
	}
	return v
}

// refused reports whether the last claim failed its preconditions.
func refused(tx *claim.Transaction) bool {
	if tx == nil || tx.Status != claim.Failed {
		return false
	}
	var wrong *claim.WrongNetworkError
	return errors.Is(tx.Err, claim.ErrNotConnected) || errors.As(tx.Err, &wrong)
}
