package abi

import "fmt"

// Names are up to 13 characters from ".12345abcdefghijklmnopqrstuvwxyz",
// packed big-end-first into a uint64: five bits per character for the first
// twelve, four bits for the thirteenth.

func charToSymbol(c byte) (uint64, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6, true
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1, true
	case c == '.':
		return 0, true
	default:
		return 0, false
	}
}

// PackName encodes a name string into its on-chain uint64 representation.
func PackName(s string) (uint64, error) {
	if len(s) > 13 {
		return 0, fmt.Errorf("name %q is longer than 13 characters", s)
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		sym, ok := charToSymbol(s[i])
		if !ok {
			return 0, fmt.Errorf("name %q contains invalid character %q", s, s[i])
		}
		if i < 12 {
			v |= (sym & 0x1f) << uint(64-5*(i+1))
		} else {
			if sym > 0x0f {
				return 0, fmt.Errorf("name %q: 13th character out of range", s)
			}
			v |= sym
		}
	}
	return v, nil
}
