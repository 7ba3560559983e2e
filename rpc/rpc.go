package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a dial plus the chain id probe.
const DefaultTimeout = 8 * time.Second

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL     string
	ChainID *big.Int
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Name   string
	Client *Client
	Error  error
}

// Endpoint is a named RPC URL.
type Endpoint struct {
	Name string
	URL  string
}

// Dial connects to url and asks the node for its chain id, so a client is only
// returned for an endpoint that actually answers.
func Dial(ctx context.Context, url string) (*Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain id from %s: %w", url, err)
	}
	return &Client{Client: client, URL: url, ChainID: id}, nil
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, DefaultTimeout)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := Dial(ctx, url)
	if err != nil {
		return ConnectResult{Error: err}
	}
	return ConnectResult{Client: client}
}

// ConnectAll dials every endpoint concurrently. Results come back in endpoint
// order; one failing endpoint does not cancel the others.
func ConnectAll(ctx context.Context, endpoints []Endpoint, timeout time.Duration) []ConnectResult {
	results := make([]ConnectResult, len(endpoints))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, ep := range endpoints {
		g.Go(func() error {
			dctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			client, err := Dial(dctx, ep.URL)
			results[i] = ConnectResult{Name: ep.Name, Client: client, Error: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// BalanceDetails is the native balance of one address.
type BalanceDetails struct {
	Address    string
	Wei        *big.Int
	LoadedAt   time.Time
	ErrMessage string
}

// LoadBalance fetches the native balance for an address
func LoadBalance(client *Client, addr common.Address) BalanceDetails {
	return LoadBalanceWithTimeout(client, addr, 12*time.Second)
}

// LoadBalanceWithTimeout fetches the balance with a custom timeout
func LoadBalanceWithTimeout(client *Client, addr common.Address, timeout time.Duration) BalanceDetails {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	d := BalanceDetails{
		Address:  addr.Hex(),
		Wei:      big.NewInt(0),
		LoadedAt: time.Now(),
	}

	if client == nil || client.Client == nil {
		d.ErrMessage = "No RPC client for the faucet network."
		return d
	}

	wei, err := client.BalanceAt(ctx, addr, nil)
	if err != nil {
		d.ErrMessage = "Failed to load balance."
		return d
	}
	d.Wei = wei
	return d
}
