package projection_test

import (
	"errors"
	"testing"

	"charm-faucet-tui/claim"
	"charm-faucet-tui/network"
	"charm-faucet-tui/projection"
	"charm-faucet-tui/provider"
	"charm-faucet-tui/session"

	"github.com/google/go-cmp/cmp"
)

const (
	alice   = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	hash    = "0xabc123"
	txBase  = "https://explorer.btcs.network/tx/"
	txLink  = txBase + hash
	onChain = "0x45a"
)

func ready() session.Snapshot {
	return session.Snapshot{
		ProviderPresent: true,
		Account:         alice,
		ChainID:         onChain,
		Network:         network.Matched,
		Ready:           true,
	}
}

func TestProject(t *testing.T) {
	wrong := ready()
	wrong.ChainID, wrong.Network, wrong.Ready = "0x1", network.Mismatched, false

	switching := wrong
	switching.Switching = true

	connecting := session.Snapshot{ProviderPresent: true, Connecting: true}

	rejected := session.Snapshot{
		ProviderPresent: true,
		Err:             provider.NewRequestError(provider.CodeUserRejected, "User rejected the request."),
	}

	tests := []struct {
		name string
		in   projection.Input
		want projection.View
	}{
		{
			name: "no provider",
			in: projection.Input{Session: session.Snapshot{Err: provider.ErrNoProvider}},
			want: projection.View{
				State:   projection.Disconnected,
				Title:   "No wallet detected",
				Message: "Please install a wallet to claim tokens.",
				Error:   "no wallet provider detected",
			},
		},
		{
			name: "disconnected",
			in:   projection.Input{Session: session.Snapshot{ProviderPresent: true}},
			want: projection.View{
				State:          projection.Disconnected,
				Title:          "Connect Wallet",
				Message:        "Connect your wallet and claim tokens to start building.",
				ConnectEnabled: true,
			},
		},
		{
			name: "connect rejected",
			in:   projection.Input{Session: rejected},
			want: projection.View{
				State:          projection.Disconnected,
				Title:          "Connect Wallet",
				Message:        "Connect your wallet and claim tokens to start building.",
				Error:          "User rejected the request.",
				ConnectEnabled: true,
			},
		},
		{
			name: "connecting",
			in:   projection.Input{Session: connecting},
			want: projection.View{
				State:   projection.Connecting,
				Title:   "Connecting...",
				Message: "Confirm the request in your wallet.",
			},
		},
		{
			name: "switching wins over wrong network",
			in:   projection.Input{Session: switching},
			want: projection.View{
				State:   projection.Connecting,
				Title:   "Switching Network...",
				Message: "Confirm the request in your wallet.",
				Account: alice,
			},
		},
		{
			name: "wrong network",
			in:   projection.Input{Session: wrong},
			want: projection.View{
				State:         projection.ConnectedWrongNetwork,
				Title:         "Wrong Network",
				Message:       "Please switch to Core Testnet 2 to claim tokens.",
				Account:       alice,
				SwitchVisible: true,
			},
		},
		{
			name: "ready",
			in:   projection.Input{Session: ready()},
			want: projection.View{
				State:        projection.ConnectedReady,
				Title:        "Claim Testnet Tokens",
				Message:      "Ready to claim tCORE2 on Core Testnet 2.",
				Account:      alice,
				ClaimEnabled: true,
			},
		},
		{
			name: "claim awaiting signature",
			in: projection.Input{
				Session:   ready(),
				Claim:     &claim.Transaction{Status: claim.Pending},
				ClaimBusy: true,
			},
			want: projection.View{
				State:   projection.ClaimPending,
				Title:   "Claiming Tokens...",
				Message: "Confirm the transaction in your wallet.",
				Account: alice,
			},
		},
		{
			name: "claim awaiting confirmation shows hash",
			in: projection.Input{
				Session:        ready(),
				Claim:          &claim.Transaction{Status: claim.Pending, Hash: hash},
				ClaimBusy:      true,
				ExplorerTxBase: txBase,
			},
			want: projection.View{
				State:   projection.ClaimPending,
				Title:   "Claiming Tokens...",
				Message: "Transaction sent, waiting for confirmation.",
				Account: alice,
				TxHash:  hash,
				TxURL:   txLink,
			},
		},
		{
			name: "claim success",
			in: projection.Input{
				Session:        ready(),
				Claim:          &claim.Transaction{Status: claim.Success, Hash: hash},
				ExplorerTxBase: txBase,
			},
			want: projection.View{
				State:        projection.ClaimSuccess,
				Title:        "Success!",
				Message:      "Tokens have been sent to your wallet.",
				Account:      alice,
				TxHash:       hash,
				TxURL:        txLink,
				ClaimEnabled: true,
			},
		},
		{
			name: "claim rejected",
			in: projection.Input{
				Session: ready(),
				Claim: &claim.Transaction{
					Status: claim.Failed,
					Err:    errors.New("denied"),
					Detail: "User denied transaction signature.",
				},
			},
			want: projection.View{
				State:        projection.ClaimError,
				Title:        "Error",
				Message:      "User denied transaction signature.",
				Account:      alice,
				ClaimEnabled: true,
			},
		},
		{
			name: "wrong network hides last claim and disables claim",
			in: projection.Input{
				Session: wrong,
				Claim:   &claim.Transaction{Status: claim.Success, Hash: hash},
			},
			want: projection.View{
				State:         projection.ConnectedWrongNetwork,
				Title:         "Wrong Network",
				Message:       "Please switch to Core Testnet 2 to claim tokens.",
				Account:       alice,
				TxHash:        hash,
				TxURL:         hash,
				SwitchVisible: true,
			},
		},
		{
			name: "claim refused while disconnected keeps its detail",
			in: projection.Input{
				Session: session.Snapshot{ProviderPresent: true},
				Claim: &claim.Transaction{
					Status: claim.Failed,
					Err:    claim.ErrNotConnected,
					Detail: claim.Detail(claim.ErrNotConnected),
				},
			},
			want: projection.View{
				State:          projection.Disconnected,
				Title:          "Connect Wallet",
				Message:        "Connect your wallet and claim tokens to start building.",
				Error:          "Please connect your wallet first.",
				ConnectEnabled: true,
			},
		},
		{
			name: "claim refused on wrong network keeps its detail",
			in: projection.Input{
				Session: wrong,
				Claim: &claim.Transaction{
					Status: claim.Failed,
					Err:    &claim.WrongNetworkError{Want: "Core Testnet 2", WantID: onChain, ChainID: "0x1"},
					Detail: "Please switch to Core Testnet 2 network.",
				},
			},
			want: projection.View{
				State:         projection.ConnectedWrongNetwork,
				Title:         "Wrong Network",
				Message:       "Please switch to Core Testnet 2 to claim tokens.",
				Error:         "Please switch to Core Testnet 2 network.",
				Account:       alice,
				SwitchVisible: true,
			},
		},
		{
			name: "connect error wins over refused claim",
			in: projection.Input{
				Session: rejected,
				Claim: &claim.Transaction{
					Status: claim.Failed,
					Err:    claim.ErrNotConnected,
					Detail: claim.Detail(claim.ErrNotConnected),
				},
			},
			want: projection.View{
				State:          projection.Disconnected,
				Title:          "Connect Wallet",
				Message:        "Connect your wallet and claim tokens to start building.",
				Error:          "User rejected the request.",
				ConnectEnabled: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Target = network.CoreTestnet2()
			got := projection.Project(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Project() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Only a connected, ready and idle session may claim.
func TestClaimEnabledOnlyWhenReady(t *testing.T) {
	for _, connected := range []bool{false, true} {
		for _, isReady := range []bool{false, true} {
			for _, busy := range []bool{false, true} {
				snap := session.Snapshot{ProviderPresent: true, Ready: isReady}
				if connected {
					snap.Account = alice
				}
				v := projection.Project(projection.Input{Session: snap, ClaimBusy: busy, Target: network.CoreTestnet2()})
				want := connected && isReady && !busy
				if v.ClaimEnabled != want {
					t.Errorf("connected=%v ready=%v busy=%v: ClaimEnabled = %v, want %v",
						connected, isReady, busy, v.ClaimEnabled, want)
				}
			}
		}
	}
}
