// Package rotation provides the 64-bit left-rotation gate: one Rot64 row
// rotates a word by a fixed amount r carried as the gate coefficient 2^r,
// with 0 < r < 64.
//
// Row layout:
//
//	col 0   word, below 2^64
//	col 1   rotated word, below 2^64
//	col 2   excess, the r bits wrapping around: word >> (64-r)
//	col 3   bound complement 2^r - excess - 1, proving excess < 2^r
//
// The package also lays out the rotation batch of the Keccak permutation's
// rho step: one row per non-zero entry of the 5x5 offset table, 24 rows in
// total.
package rotation

import (
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/witness"
)

// Column indices of the gate row.
const (
	colWord    = 0
	colRotated = 1
	colExcess  = 2
	colBound   = 3
)

// RotTable is the rotation offset table of the Keccak rho step, indexed
// [x][y]. The zero offset of lane (0,0) needs no gate.
var RotTable = [5][5]int{
	{0, 36, 3, 41, 18},
	{1, 44, 10, 45, 2},
	{62, 6, 43, 15, 61},
	{28, 55, 25, 21, 56},
	{27, 20, 39, 8, 14},
}

// CreateGadget lays out one rotation gate at startRow, rotating by r bits.
// It returns the next free row and the gate, wired to itself.
func CreateGadget(startRow, r int) (int, []constraint.Gate) {
	if startRow < 0 {
		panic("rotation: negative start row")
	}
	checkAmount(r)

	var coeff fr.Element
	coeff.SetUint64(uint64(1) << uint(r))
	gate := constraint.Gate{
		Type:   constraint.Rot64,
		Wires:  constraint.SelfWires(startRow),
		Coeffs: []fr.Element{coeff},
	}
	return startRow + 1, []constraint.Gate{gate}
}

// CreateWitness fills the single row rotating word left by r bits.
func CreateWitness(word uint64, r int) witness.Witness {
	checkAmount(r)
	w := witness.New(1)
	fillRow(w, 0, word, r)
	return w
}

// CreateKeccakGadget lays out the 24 rotation gates of one Keccak rho step,
// scanning the offset table row by row and skipping the zero offset. It
// returns the next free row and the gates.
func CreateKeccakGadget(startRow int) (int, []constraint.Gate) {
	row := startRow
	gates := make([]constraint.Gate, 0, 24)
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			if RotTable[x][y] == 0 {
				continue
			}
			var g []constraint.Gate
			row, g = CreateGadget(row, RotTable[x][y])
			gates = append(gates, g...)
		}
	}
	return row, gates
}

// CreateKeccakWitness fills the 24 rotation rows of one Keccak rho step over
// state, in the scan order of CreateKeccakGadget.
func CreateKeccakWitness(state *[5][5]uint64) witness.Witness {
	w := witness.New(24)
	row := 0
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			if RotTable[x][y] == 0 {
				continue
			}
			fillRow(w, row, state[x][y], RotTable[x][y])
			row++
		}
	}
	return w
}

func fillRow(w witness.Witness, row int, word uint64, r int) {
	excess := word >> (64 - uint(r))
	bound := uint64(1)<<uint(r) - excess - 1
	w[colWord][row].SetUint64(word)
	w[colRotated][row].SetUint64(bits.RotateLeft64(word, r))
	w[colExcess][row].SetUint64(excess)
	w[colBound][row].SetUint64(bound)
}

func checkAmount(r int) {
	if r <= 0 || r >= 64 {
		panic("rotation: amount must lie strictly between 0 and 64")
	}
}
