package abi

import (
	"fmt"
	"math"
	"strings"
)

// Symbol is a currency code plus its decimal precision.
type Symbol struct {
	Precision uint8
	Code      string
}

// pack encodes the symbol as precision byte plus up to seven code bytes.
func (s Symbol) pack() uint64 {
	v := uint64(s.Precision)
	for i := 0; i < len(s.Code) && i < 7; i++ {
		v |= uint64(s.Code[i]) << uint(8*(i+1))
	}
	return v
}

// Valid reports whether the code is 1-7 uppercase letters.
func (s Symbol) Valid() bool {
	if len(s.Code) == 0 || len(s.Code) > 7 {
		return false
	}
	for i := 0; i < len(s.Code); i++ {
		if s.Code[i] < 'A' || s.Code[i] > 'Z' {
			return false
		}
	}
	return true
}

// Asset is a fixed-point currency amount. Amount is in the smallest unit
// (10^-precision of a whole token).
type Asset struct {
	Amount int64
	Symbol Symbol
}

// NewAsset converts a whole-token value into an Asset, rounding to the
// symbol's precision.
func NewAsset(value float64, sym Symbol) Asset {
	scale := math.Pow10(int(sym.Precision))
	return Asset{Amount: int64(math.Round(value * scale)), Symbol: sym}
}

// String formats the asset the way the chain prints quantities, e.g.
// "1234.0000 GEM".
func (a Asset) String() string {
	scale := int64(math.Pow10(int(a.Symbol.Precision)))
	whole := a.Amount / scale
	frac := a.Amount % scale
	if frac < 0 {
		frac = -frac
	}
	if a.Symbol.Precision == 0 {
		return fmt.Sprintf("%d %s", whole, a.Symbol.Code)
	}
	return fmt.Sprintf("%d.%0*d %s", whole, a.Symbol.Precision, frac, a.Symbol.Code)
}

// ParseBalance extracts the numeric value from a quantity string such as
// "12.3456 GEM". Returns an error on malformed input.
func ParseBalance(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty balance string")
	}
	var v float64
	if _, err := fmt.Sscanf(fields[0], "%f", &v); err != nil {
		return 0, fmt.Errorf("parse balance %q: %w", s, err)
	}
	return v, nil
}
