package wallet

import (
	"context"
	"math/big"

	"charm-faucet-tui/network"
	"charm-faucet-tui/rpc"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the node access the wallet needs to sign and follow transactions
// on one chain. *ethclient.Client satisfies it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Chain is a network the wallet knows, with its node connection.
type Chain struct {
	Descriptor network.Descriptor
	Backend    Backend
}

// DialFunc connects to a chain's RPC endpoint. It is used when a dapp adds a
// chain the wallet did not know.
type DialFunc func(ctx context.Context, url string) (Backend, error)

// DialRPC dials url with the rpc package.
func DialRPC(ctx context.Context, url string) (Backend, error) {
	client, err := rpc.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	return client.Client, nil
}
