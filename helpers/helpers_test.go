package helpers

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/stretchr/testify/assert"
)

func TestShortenAddr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0x5aAe...eAed"},
		{"0xabc1230000000000000000000000000000000000000000000000000000000001", "0xabc1...0001"},
		{"0x1234", "0x1234"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShortenAddr(tt.in), tt.in)
	}
}

func TestIsValidEthAddress(t *testing.T) {
	assert.True(t, IsValidEthAddress("0x80705Cc3B81A41c4e9AE785004d2F65445782a18"))
	assert.False(t, IsValidEthAddress("80705Cc3B81A41c4e9AE785004d2F65445782a18"))
	assert.False(t, IsValidEthAddress("0x80705Cc3"))
}

func TestFormatUnits(t *testing.T) {
	oneAndHalf, _ := new(big.Int).SetString("1500000000000000000", 10)
	tests := []struct {
		name     string
		amount   *big.Int
		decimals int
		want     string
	}{
		{"nil", nil, 18, "0"},
		{"zero", big.NewInt(0), 18, "0"},
		{"one and a half", oneAndHalf, 18, "1.5"},
		{"one wei", big.NewInt(1), 18, "0.000000000000000001"},
		{"no decimals", big.NewInt(42), 0, "42"},
		{"negative", big.NewInt(-250), 2, "-2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUnits(tt.amount, tt.decimals))
		})
	}
}

func TestFormatBalance(t *testing.T) {
	wei, _ := new(big.Int).SetString("2000000000000000000", 10)
	assert.Equal(t, "2.0000 tCORE2", FormatBalance(wei, 18, "tCORE2"))
	assert.Equal(t, "0 tCORE2", FormatBalance(nil, 18, "tCORE2"))
}

func TestChainIDDecimal(t *testing.T) {
	assert.Equal(t, "1114", ChainIDDecimal("0x45A"))
	assert.Equal(t, "1", ChainIDDecimal("0x1"))
	assert.Equal(t, "mainnet", ChainIDDecimal("mainnet"))
}

func TestExplorerURLs(t *testing.T) {
	assert.Equal(t, "https://explorer.btcs.network/address/0x01", ExplorerAddressURL("https://explorer.btcs.network/", "0x01"))
	assert.Empty(t, ExplorerAddressURL("", "0x01"))
}

func TestHyperlink(t *testing.T) {
	assert.Equal(t, "plain", Hyperlink("", "plain"))
	link := Hyperlink("https://example.com", "text")
	assert.True(t, strings.HasPrefix(link, "\x1b]8;;https://example.com"))
	assert.Contains(t, link, "text")
}

func TestLoadedAt(t *testing.T) {
	assert.Equal(t, "loading…", LoadedAt(time.Now(), true))
	assert.Equal(t, "never", LoadedAt(time.Time{}, false))
	assert.Equal(t, "13:04:05", LoadedAt(time.Date(2024, 1, 1, 13, 4, 5, 0, time.UTC), false))
}

func TestFadeString(t *testing.T) {
	assert.Empty(t, FadeString("", "#f86522", "#ffa02f"))
	out := FadeString("Faucet", "#f86522", "#ffa02f")
	for _, r := range "Faucet" {
		assert.Contains(t, out, string(r))
	}
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 3, Max(2, 3))
	assert.Equal(t, 2, Min(2, 3))
}

func TestGenerateQRCode(t *testing.T) {
	assert.Empty(t, GenerateQRCode(""))

	qr := GenerateQRCode("https://explorer.btcs.network/tx/0xabc")
	lines := strings.Split(qr, "\n")
	assert.Greater(t, len(lines), 10)
	assert.Contains(t, qr, qrterminal.WHITE_WHITE)
}
