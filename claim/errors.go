package claim

import (
	"errors"
	"fmt"

	"charm-faucet-tui/provider"
)

var (
	// ErrNotConnected is returned when a claim is attempted without an account.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrClaimInFlight is returned when a claim is attempted while another one
	// has not finished.
	ErrClaimInFlight = errors.New("a claim is already in progress")

	// ErrReverted is returned when the claim transaction was mined but failed.
	ErrReverted = errors.New("transaction reverted")

	// ErrNetworkChanged is returned when the wallet left the claim's network
	// while the transaction was waiting for confirmation.
	ErrNetworkChanged = errors.New("network changed while waiting for confirmation")
)

// WrongNetworkError is returned when a claim is attempted on another chain.
type WrongNetworkError struct {
	Want    string // chain name
	WantID  string
	ChainID string // observed chain id, "" when unknown
}

func (e *WrongNetworkError) Error() string {
	have := e.ChainID
	if have == "" {
		have = "unknown"
	}
	return fmt.Sprintf("wrong network: on %s, need %s (%s)", have, e.Want, e.WantID)
}

// SubmissionError is returned when the claim transaction could not be sent.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return "submit claim: " + e.Err.Error() }
func (e *SubmissionError) Unwrap() error { return e.Err }

// ConfirmationError is returned when a sent claim transaction failed or could
// not be confirmed.
type ConfirmationError struct {
	Hash string
	Err  error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("confirm claim %s: %s", e.Hash, e.Err)
}
func (e *ConfirmationError) Unwrap() error { return e.Err }

// Detail returns the text shown to the user for err. Provider messages are kept
// verbatim since they usually explain themselves.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var wrong *WrongNetworkError
	switch {
	case errors.Is(err, ErrNotConnected):
		return "Please connect your wallet first."
	case errors.As(err, &wrong):
		return fmt.Sprintf("Please switch to %s network.", wrong.Want)
	case errors.Is(err, ErrClaimInFlight):
		return "A claim is already in progress."
	case errors.Is(err, ErrReverted):
		return "The claim transaction was reverted."
	case errors.Is(err, ErrNetworkChanged):
		return "The wallet switched networks before the claim was confirmed."
	}
	var re *provider.RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to claim tokens"
}
