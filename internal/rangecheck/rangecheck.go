// Package rangecheck performs value-level bit-width checks on native field
// elements.
//
// In the full proving stack these bounds are enforced by lookup-based range
// arguments; the gate layer treats that machinery as an external
// collaborator and checks the same bounds directly on witness values.
package rangecheck

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Fits reports whether e, read as a regular integer, fits in nbBits bits.
func Fits(e *fr.Element, nbBits int) bool {
	var v big.Int
	e.BigInt(&v)
	return v.BitLen() <= nbBits
}
