// Package validate implements the EIP-55 mixed-case checksum check used to
// filter candidate account addresses pulled out of explorer pages.
package validate

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// IsHexAddress reports whether s has the shape of an account address:
// exactly 42 characters, 0x-prefixed, 40 hex digits. No checksum is
// asserted.
func IsHexAddress(s string) bool {
	if len(s) != 42 || s[0] != '0' || s[1] != 'x' {
		return false
	}
	for i := 2; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

// IsValidAddress reports whether s is an acceptable account address.
//
// All-lowercase (or all-digit) addresses pass on shape alone; the checksum
// is only asserted when the address carries at least one uppercase letter.
// In that case the Keccak-256 digest of the lowercased 40-character body
// dictates the case of every letter: nibble i of the digest > 7 requires
// uppercase at position i, <= 7 requires lowercase.
func IsValidAddress(s string) bool {
	if !IsHexAddress(s) {
		return false
	}

	hasUpper := false
	for i := 2; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'F' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return true
	}

	return checksumMatches(s[2:])
}

// checksumMatches verifies the EIP-55 relation for the 40-character hex
// body. Every nibble is checked; there is no early success.
func checksumMatches(body string) bool {
	lower := make([]byte, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= 'A' && c <= 'F' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}

	digest := crypto.Keccak256(lower)

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= '0' && c <= '9' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble > 7 {
			if c < 'A' || c > 'F' {
				return false
			}
		} else {
			if c < 'a' || c > 'f' {
				return false
			}
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
