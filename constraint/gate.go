// Package constraint holds the row-based gate layer of the proving system:
// typed gates, their wiring into the copy-constraint permutation, and the
// system container dispatching row verification to registered gate
// arguments.
package constraint

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// NbWiredColumns is the number of leftmost witness columns taking part in
// the copy-constraint permutation. Each gate carries one wire per wired
// column.
const NbWiredColumns = 7

// GateType tags the row-local identity a gate enforces.
type GateType uint8

const (
	// Zero is the padding gate: no identity.
	Zero GateType = iota
	// ForeignFieldAdd constrains one limb-wise foreign-field addition or
	// subtraction; the result limbs live on the next row.
	ForeignFieldAdd
	// Rot64 constrains one 64-bit left rotation by the power of two carried
	// in the gate coefficient.
	Rot64
)

func (t GateType) String() string {
	switch t {
	case Zero:
		return "Zero"
	case ForeignFieldAdd:
		return "ForeignFieldAdd"
	case Rot64:
		return "Rot64"
	default:
		return fmt.Sprintf("GateType(%d)", uint8(t))
	}
}

// Wire points at a witness cell. The copy-constraint permutation asserts
// that the cell carrying the wire equals the cell the wire targets; a cell
// pointing at itself is unconstrained.
type Wire struct {
	Row int
	Col int
}

// GateWires assigns one wire to each wired column of a row.
type GateWires [NbWiredColumns]Wire

// SelfWires returns the identity wiring for row: every cell points at
// itself.
func SelfWires(row int) GateWires {
	var ws GateWires
	for col := range ws {
		ws[col] = Wire{Row: row, Col: col}
	}
	return ws
}

// Gate is one circuit row: its type tag, its wiring and its row-local
// coefficients. Gates are immutable once placed into a system.
//
// Coefficients by type: ForeignFieldAdd rows carry one coefficient, zero for
// a chain row and one for the bound-check row; Rot64 rows carry the single
// coefficient 2^r. The foreign modulus itself is a system-level input, not a
// gate coefficient.
type Gate struct {
	Type   GateType
	Wires  GateWires
	Coeffs []fr.Element
}
