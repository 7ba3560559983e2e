package faucet

import (
	"testing"

	"charm-faucet-tui/network"
	"charm-faucet-tui/projection"

	"github.com/stretchr/testify/assert"
)

func TestNavShowsAvailableActions(t *testing.T) {
	ready := projection.View{State: projection.ConnectedReady, ClaimEnabled: true}
	nav := Nav(200, ready, false)
	assert.Contains(t, nav, "claim")
	assert.NotContains(t, nav, "connect")
	assert.NotContains(t, nav, "switch network")
	assert.NotContains(t, nav, "lock")

	wrong := projection.View{State: projection.ConnectedWrongNetwork, SwitchVisible: true}
	nav = Nav(200, wrong, true)
	assert.Contains(t, nav, "switch network")
	assert.NotContains(t, nav, "claim")
	assert.Contains(t, nav, "lock")
}

func TestRenderClaimStates(t *testing.T) {
	target := network.CoreTestnet2()

	out := Render(projection.View{
		State:   projection.ClaimSuccess,
		Title:   "Success!",
		Message: "Tokens have been sent to your wallet.",
		TxHash:  "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060",
		TxURL:   "https://explorer.btcs.network/tx/0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060",
	}, target, 70, "", "Copied!")
	assert.Contains(t, out, "Tokens have been sent to your wallet.")
	assert.Contains(t, out, "0x5c50...2060")
	assert.Contains(t, out, "Copied!")

	out = Render(projection.View{
		State:         projection.ConnectedWrongNetwork,
		Title:         "Wrong Network",
		Message:       "Please switch to Core Testnet 2 to claim tokens.",
		SwitchVisible: true,
	}, target, 70, "", "")
	assert.Contains(t, out, "Switch to Core Testnet 2")
}

func TestFooter(t *testing.T) {
	assert.Contains(t, Footer(100, network.CoreTestnet2()),
		"Core Testnet 2 tokens are for testing purposes only and have no real value.")
}
