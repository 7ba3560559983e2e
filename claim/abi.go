package claim

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// FaucetABI is the part of the faucet contract the workflow calls.
const FaucetABI = `[{"inputs":[],"name":"faucet","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

const faucetMethod = "faucet"

// faucetCalldata packs a call to faucet().
func faucetCalldata() ([]byte, error) {
	parsed, err := abi.JSON(strings.NewReader(FaucetABI))
	if err != nil {
		return nil, fmt.Errorf("parse faucet abi: %w", err)
	}
	data, err := parsed.Pack(faucetMethod)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", faucetMethod, err)
	}
	return data, nil
}
