package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"charm-faucet-tui/helpers"

	"github.com/ethereum/go-ethereum/common"
)

// FileName is the config file kept in the user's home directory.
const FileName = ".charm-faucet-config.json"

// Config represents the application configuration
type Config struct {
	RPCURLs       []RPCUrl        `json:"rpc_urls"`
	Keystores     []KeystoreEntry `json:"keystores"`
	PrivateKeyEnv string          `json:"private_key_env"`
	Faucet        Faucet          `json:"faucet"`
	Logger        bool            `json:"logger"`
}

// RPCUrl represents a network the built-in wallet knows about. The active one
// is the wallet's network at startup.
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// KeystoreEntry points at an encrypted V3 keystore. The password is read from
// the named environment variable.
type KeystoreEntry struct {
	Path        string `json:"path"`
	PasswordEnv string `json:"password_env"`
}

// Faucet holds the claim settings.
type Faucet struct {
	Contract              string `json:"contract"`
	ExplorerTxBase        string `json:"explorer_tx_base"`
	PollSeconds           int    `json:"poll_seconds"`
	ConfirmTimeoutSeconds int    `json:"confirm_timeout_seconds,omitempty"`
}

// DefaultPath returns ~/.charm-faucet-config.json, or the file name alone when
// the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Sepolia",
				URL:    "https://ethereum-sepolia-rpc.publicnode.com",
				Active: true,
			},
			{
				Name: "Public Mainnet",
				URL:  "https://ethereum-rpc.publicnode.com",
			},
		},
		PrivateKeyEnv: "FAUCET_PRIVATE_KEY",
		Faucet: Faucet{
			Contract:       "0x80705Cc3B81A41c4e9AE785004d2F65445782a18",
			ExplorerTxBase: "https://explorer.btcs.network/tx/",
			PollSeconds:    2,
		},
		Logger: false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg) // a read-only home still runs with the defaults
		return cfg
	}

	// Missing fields fall back to the defaults.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// WithEnv applies environment overrides. ETH_RPC_URL becomes the wallet's
// active network.
func (c Config) WithEnv(getenv func(string) string) Config {
	url := getenv("ETH_RPC_URL")
	if url == "" {
		return c
	}
	rpcs := []RPCUrl{{Name: "ETH_RPC_URL", URL: url, Active: true}}
	for _, r := range c.RPCURLs {
		r.Active = false
		rpcs = append(rpcs, r)
	}
	c.RPCURLs = rpcs
	return c
}

// ActiveRPC returns the active RPC entry, or the first one.
func (c Config) ActiveRPC() (RPCUrl, bool) {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r, true
		}
	}
	if len(c.RPCURLs) > 0 {
		return c.RPCURLs[0], true
	}
	return RPCUrl{}, false
}

// PollInterval is the receipt polling interval.
func (c Config) PollInterval() time.Duration {
	if c.Faucet.PollSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.Faucet.PollSeconds) * time.Second
}

// ConfirmTimeout bounds the confirmation wait. Zero means no bound.
func (c Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.Faucet.ConfirmTimeoutSeconds) * time.Second
}

// ContractAddress returns the faucet contract address.
func (c Config) ContractAddress() common.Address {
	return common.HexToAddress(c.Faucet.Contract)
}

// Validate checks the values the app cannot run without.
func (c Config) Validate() error {
	var errs []error
	if !helpers.IsValidEthAddress(c.Faucet.Contract) {
		errs = append(errs, fmt.Errorf("faucet.contract %q is not an address", c.Faucet.Contract))
	}
	if c.Faucet.ExplorerTxBase == "" {
		errs = append(errs, errors.New("faucet.explorer_tx_base is empty"))
	}
	for i, r := range c.RPCURLs {
		if r.URL == "" {
			errs = append(errs, fmt.Errorf("rpc_urls[%d] has no url", i))
		}
	}
	return errors.Join(errs...)
}
