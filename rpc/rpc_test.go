package rpc

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestConnect(t *testing.T) {
	// Get RPC URL from environment
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping connection test")
	}

	t.Run("successful connection", func(t *testing.T) {
		result := Connect(rpcURL)

		if result.Error != nil {
			t.Fatalf("Failed to connect to RPC: %v", result.Error)
		}
		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}
		if result.Client.URL != rpcURL {
			t.Errorf("Expected URL %s, got %s", rpcURL, result.Client.URL)
		}
		if result.Client.ChainID == nil || result.Client.ChainID.Sign() <= 0 {
			t.Errorf("Expected a chain id, got %v", result.Client.ChainID)
		}
		t.Logf("Connected to chain ID: %s", result.Client.ChainID)
	})

	t.Run("connection with timeout", func(t *testing.T) {
		result := ConnectWithTimeout(rpcURL, 10*time.Second)

		if result.Error != nil {
			t.Fatalf("Failed to connect with custom timeout: %v", result.Error)
		}
		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}
	})
}

func TestConnectUnreachable(t *testing.T) {
	result := ConnectWithTimeout("http://127.0.0.1:1", 2*time.Second)
	if result.Error == nil {
		t.Fatal("Expected an error for an unreachable endpoint")
	}
	if result.Client != nil {
		t.Error("Expected no client for an unreachable endpoint")
	}
}

func TestConnectAllKeepsOrder(t *testing.T) {
	endpoints := []Endpoint{
		{Name: "first", URL: "http://127.0.0.1:1"},
		{Name: "second", URL: "not-a-valid-url"},
		{Name: "third", URL: "http://127.0.0.1:2"},
	}

	results := ConnectAll(context.Background(), endpoints, 2*time.Second)

	if len(results) != len(endpoints) {
		t.Fatalf("Expected %d results, got %d", len(endpoints), len(results))
	}
	for i, r := range results {
		if r.Name != endpoints[i].Name {
			t.Errorf("result %d: expected name %s, got %s", i, endpoints[i].Name, r.Name)
		}
		if r.Error == nil {
			t.Errorf("result %d: expected an error", i)
		}
	}
}

func TestLoadBalance(t *testing.T) {
	testAddr := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	t.Run("nil client", func(t *testing.T) {
		details := LoadBalance(nil, testAddr)

		if !strings.Contains(details.ErrMessage, "No RPC client") {
			t.Errorf("Expected 'No RPC client' error, got: %s", details.ErrMessage)
		}
		if details.Wei == nil || details.Wei.Sign() != 0 {
			t.Errorf("Expected zero balance, got %v", details.Wei)
		}
		if details.Address != testAddr.Hex() {
			t.Errorf("Expected address %s, got %s", testAddr.Hex(), details.Address)
		}
	})

	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping balance test")
	}

	t.Run("live", func(t *testing.T) {
		conn := Connect(rpcURL)
		if conn.Error != nil {
			t.Fatalf("Failed to connect: %v", conn.Error)
		}
		defer conn.Client.Close()

		details := LoadBalance(conn.Client, testAddr)
		// rate limits are common on public endpoints
		if details.ErrMessage != "" {
			t.Logf("Got error message: %s", details.ErrMessage)
		}
		if details.LoadedAt.IsZero() {
			t.Error("LoadedAt timestamp is zero")
		}
		t.Logf("Balance (wei): %s", details.Wei)
	})
}
