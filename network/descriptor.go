package network

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Currency describes a chain's native currency.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Descriptor is the EIP-3085 chain description sent with wallet_addEthereumChain.
type Descriptor struct {
	ChainID           string   `json:"chainId"`
	ChainName         string   `json:"chainName"`
	RPCURLs           []string `json:"rpcUrls"`
	NativeCurrency    Currency `json:"nativeCurrency"`
	BlockExplorerURLs []string `json:"blockExplorerUrls,omitempty"`
}

// coreTestnet2 is the network the faucet contract lives on.
var coreTestnet2 = Descriptor{
	ChainID:   "0x45A", // 1114
	ChainName: "Core Testnet 2",
	RPCURLs:   []string{"http://rpc.test2.btcs.network/"},
	NativeCurrency: Currency{
		Name:     "tCORE2",
		Symbol:   "tCORE2",
		Decimals: 18,
	},
	BlockExplorerURLs: []string{"https://explorer.btcs.network"},
}

// CoreTestnet2 returns a copy of the Core Testnet 2 descriptor.
func CoreTestnet2() Descriptor {
	return coreTestnet2.Clone()
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	d.RPCURLs = append([]string(nil), d.RPCURLs...)
	d.BlockExplorerURLs = append([]string(nil), d.BlockExplorerURLs...)
	return d
}

// ChainIDBig returns the numeric chain id, nil if it does not parse.
func (d Descriptor) ChainIDBig() *big.Int {
	return parseChainID(d.ChainID)
}

// Explorer returns the first block explorer URL without a trailing slash.
func (d Descriptor) Explorer() string {
	if len(d.BlockExplorerURLs) == 0 {
		return ""
	}
	return strings.TrimRight(d.BlockExplorerURLs[0], "/")
}

func parseChainID(s string) *big.Int {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "0x") || len(s) == 2 {
		return nil
	}
	n, ok := new(big.Int).SetString(s[2:], 16)
	if !ok || n.Sign() < 0 {
		return nil
	}
	return n
}

// NormalizeChainID returns the canonical form of a hex chain id: lower case,
// 0x prefixed, no leading zeros. Values that are not hex come back trimmed and
// lower-cased so they still compare consistently.
func NormalizeChainID(s string) string {
	if n := parseChainID(s); n != nil {
		return hexutil.EncodeBig(n)
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// ChainIDFromBig formats a numeric chain id in canonical form.
func ChainIDFromBig(n *big.Int) string {
	if n == nil {
		return ""
	}
	return hexutil.EncodeBig(n)
}

// SameChain reports whether a and b name the same chain. Empty ids never match.
func SameChain(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return NormalizeChainID(a) == NormalizeChainID(b)
}
