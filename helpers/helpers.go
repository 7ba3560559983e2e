package helpers

import (
	"image/color"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
)

var ethAddressRe = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

// ShortenAddr shortens an address or hash for display: the first 6 and last 4
// characters.
func ShortenAddr(addr string) string {
	if len(addr) <= 13 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// IsValidEthAddress checks if a string is a valid Ethereum address
func IsValidEthAddress(s string) bool {
	return ethAddressRe.MatchString(s)
}

// FormatUnits formats an integer amount with the given number of decimals,
// trimming trailing zeros.
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	if decimals <= 0 {
		return amount.String()
	}
	neg := amount.Sign() < 0
	s := new(big.Int).Abs(amount).String()
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole, frac := s[:len(s)-decimals], strings.TrimRight(s[len(s)-decimals:], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatBalance formats a native balance with 4 decimals and the symbol.
func FormatBalance(wei *big.Int, decimals int, symbol string) string {
	if wei == nil {
		return "0 " + symbol
	}
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	amount := new(big.Float).Quo(new(big.Float).SetInt(wei), divisor)
	return amount.Text('f', 4) + " " + symbol
}

// ChainIDDecimal renders a hex chain id in decimal, or the input when it is not
// hex.
func ChainIDDecimal(hexID string) string {
	s := strings.ToLower(strings.TrimSpace(hexID))
	if !strings.HasPrefix(s, "0x") {
		return hexID
	}
	n, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return hexID
	}
	return n.String()
}

// ExplorerAddressURL links an address on an explorer root URL.
func ExplorerAddressURL(explorer, addr string) string {
	if explorer == "" {
		return ""
	}
	return strings.TrimRight(explorer, "/") + "/address/" + addr
}

// Hyperlink wraps text in an OSC 8 terminal hyperlink. Terminals without
// support just show text.
func Hyperlink(url, text string) string {
	if url == "" {
		return text
	}
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// LoadedAt formats the loaded timestamp
func LoadedAt(t time.Time, loading bool) string {
	if loading {
		return "loading…"
	}
	if t.IsZero() {
		return "never"
	}
	return t.Format("15:04:05")
}

// FadeString creates a gradient colored string
func FadeString(s string, firstColor string, lastColor string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	blends := gamut.Blends(lipgloss.Color(firstColor), lipgloss.Color(lastColor), len(runes))
	return rainbow(lipgloss.NewStyle(), runes, blends)
}

func rainbow(baseStyle lipgloss.Style, runes []rune, colors []color.Color) string {
	var b strings.Builder
	for i, c := range runes {
		col, _ := colorful.MakeColor(colors[i%len(colors)])
		b.WriteString(baseStyle.Foreground(lipgloss.Color(col.Hex())).Render(string(c)))
	}
	return b.String()
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
