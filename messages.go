package main

import (
	"charm-faucet-tui/claim"
	"charm-faucet-tui/rpc"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{}

// clearClipboardMsg clears the copy feedback
type clearClipboardMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// stateChangedMsg signals that a component changed state
type stateChangedMsg struct{}

// sessionStartedMsg carries the result of the initial network read
type sessionStartedMsg struct {
	err error
}

// connectDoneMsg carries the result of a connect attempt
type connectDoneMsg struct {
	err error
}

// switchDoneMsg carries the result of a network switch attempt
type switchDoneMsg struct {
	err error
}

// claimDoneMsg carries the final claim transaction
type claimDoneMsg struct {
	tx  claim.Transaction
	err error
}

// approvalRequestedMsg opens the approval dialog for a wallet request
type approvalRequestedMsg struct {
	req approvalRequest
}

// rpcConnectedMsg contains result of the faucet network RPC connection
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
}

// balanceLoadedMsg contains the account balance on the faucet network
type balanceLoadedMsg struct {
	d rpc.BalanceDetails
}
