package ledger

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimals is the number of base units per native unit's power of ten.
const Decimals = 24

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// ParseAmount converts a decimal amount in native units ("1.0", "0.25") into
// base units. Balances routinely exceed uint64, so everything stays big.Int.
// Only unsigned digits with at most one decimal point are accepted; signs and
// a bare "." are rejected.
func ParseAmount(dec string) (*big.Int, error) {
	dec = strings.TrimSpace(dec)
	whole, frac := dec, ""
	if i := strings.IndexByte(dec, '.'); i >= 0 {
		whole, frac = dec[:i], dec[i+1:]
	}
	if len(frac) > Decimals {
		return nil, fmt.Errorf("parse amount %q: more than %d fractional digits", dec, Decimals)
	}
	if !digitsOnly(whole) || !digitsOnly(frac) || whole+frac == "" {
		return nil, fmt.Errorf("parse amount %q: not a decimal number", dec)
	}
	digits := whole + frac + strings.Repeat("0", Decimals-len(frac))
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("parse amount %q: not a decimal number", dec)
	}
	return n, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders base units as a decimal string in native units, with
// trailing fractional zeros trimmed.
func FormatAmount(n *big.Int) string {
	q, r := new(big.Int).QuoRem(n, unit, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	digits := r.String()
	frac := strings.Repeat("0", Decimals-len(digits)) + digits
	return q.String() + "." + strings.TrimRight(frac, "0")
}
