package main

import (
	"context"

	"charm-faucet-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

// approvalRequest is a wallet prompt waiting for the user.
type approvalRequest struct {
	approval wallet.Approval
	reply    chan bool
}

// approvalBridge hands the wallet's approval prompts to the TUI. Approve
// blocks the wallet request until the dialog is answered.
type approvalBridge struct {
	requests chan approvalRequest
}

func newApprovalBridge() *approvalBridge {
	return &approvalBridge{requests: make(chan approvalRequest)}
}

// Approve implements wallet.Approver.
func (b *approvalBridge) Approve(ctx context.Context, a wallet.Approval) (bool, error) {
	req := approvalRequest{approval: a, reply: make(chan bool, 1)}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// wait delivers the next prompt to the program.
func (b *approvalBridge) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-b.requests:
			return approvalRequestedMsg{req: req}
		case <-ctx.Done():
			return nil
		}
	}
}

// answer replies to a prompt. It never blocks.
func (r approvalRequest) answer(ok bool) {
	select {
	case r.reply <- ok:
	default:
	}
}
