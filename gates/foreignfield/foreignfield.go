// Package foreignfield provides the chained foreign-field addition gate:
// one ForeignFieldAdd row per addition or subtraction modulo a foreign
// modulus p of at most 264 bits, with operands split into three 88-bit
// limbs over the native field.
//
// Row layout of one operation (the result limbs live on the following row):
//
//	col 0..2   left operand limbs (lo, mi, hi)
//	col 3..5   right operand limbs (lo, mi, hi)
//	col 6      sign s, 1 for Add and -1 for Sub
//	col 7      field overflow o, either 0 or s
//	col 8      low limb carry c_lo in {-1, 0, 1}
//	col 9      middle limb carry c_mi in {-1, 0, 1}
//
// Operations chain: the result row of one operation is the left-operand row
// of the next. The chain closes with a bound-check row adding the virtual
// operand 2^264 to the final result x, so that the terminating zero row
// carries u = x + 2^264 - p; u staying below 2^264 proves x < p.
package foreignfield

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/debug"
	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/witness"
)

// Column indices of the gate row.
const (
	colLeftLo   = 0
	colRightLo  = 3
	colSign     = 6
	colOverflow = 7
	colCarryLo  = 8
	colCarryMi  = 9
)

// Op selects the field operation of one chain row.
type Op uint8

const (
	Add Op = iota
	Sub
)

func (op Op) String() string {
	if op == Sub {
		return "sub"
	}
	return "add"
}

// sign returns the row sign s of the operation.
func (op Op) sign() int64 {
	if op == Sub {
		return -1
	}
	return 1
}

var (
	limbMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), emulated.BitsPerLimb), big.NewInt(1))
	twoTo264 = new(big.Int).Lsh(big.NewInt(1), emulated.NbLimbs*emulated.BitsPerLimb)
)

// CreateGadget lays out the gates of an nbOps-operation chain starting at
// startRow: nbOps chain rows, the bound-check row (coefficient one) and the
// terminating Zero row holding the upper-bound witness. It returns the next
// free row and the gates, all wired to themselves.
func CreateGadget(startRow, nbOps int) (int, []constraint.Gate) {
	if startRow < 0 {
		panic("foreignfield: negative start row")
	}
	if nbOps <= 0 {
		panic("foreignfield: a chain needs at least one operation")
	}

	gates := make([]constraint.Gate, 0, nbOps+2)
	row := startRow
	for i := 0; i < nbOps; i++ {
		gates = append(gates, constraint.Gate{
			Type:   constraint.ForeignFieldAdd,
			Wires:  constraint.SelfWires(row),
			Coeffs: []fr.Element{{}},
		})
		row++
	}

	one := fr.One()
	gates = append(gates, constraint.Gate{
		Type:   constraint.ForeignFieldAdd,
		Wires:  constraint.SelfWires(row),
		Coeffs: []fr.Element{one},
	})
	row++

	gates = append(gates, constraint.Gate{
		Type:  constraint.Zero,
		Wires: constraint.SelfWires(row),
	})
	row++

	return row, gates
}

// CreateWitness fills the trace of an operation chain: one row per
// operation, the bound-check row and the terminating zero row. A chain of n
// operations takes n+1 inputs; inputs are reduced modulo p on entry, so
// callers may pass values of the native field or larger.
func CreateWitness(inputs []*big.Int, ops []Op, p *big.Int) witness.Witness {
	if len(inputs) != len(ops)+1 {
		panic("foreignfield: an n-operation chain takes n+1 inputs")
	}
	if p == nil || p.Sign() <= 0 || p.BitLen() > emulated.NbLimbs*emulated.BitsPerLimb {
		panic("foreignfield: modulus must be positive and fit in the limb decomposition")
	}

	nbOps := len(ops)
	w := witness.New(nbOps + 2)
	pLimbs := bigLimbs(p)

	left := new(big.Int).Mod(inputs[0], p)
	for i, op := range ops {
		right := new(big.Int).Mod(inputs[i+1], p)
		result, ovf := reduce(left, right, op, p)
		cLo, cMi := limbCarries(bigLimbs(left), bigLimbs(right), bigLimbs(result), pLimbs, op.sign(), ovf)

		setLimbs(w, i, colLeftLo, left)
		setLimbs(w, i, colRightLo, right)
		w[colSign][i] = signedCell(op.sign())
		w[colOverflow][i] = signedCell(ovf)
		w[colCarryLo][i] = signedCell(cLo)
		w[colCarryMi][i] = signedCell(cMi)

		left = result
	}

	fillBoundRow(w, nbOps, left, p, pLimbs)
	return w
}

// fillBoundRow writes the bound-check row for the chain result x and the
// upper-bound witness u = x + 2^264 - p on the row after it. The row reuses
// the addition identities with sign 1, overflow 1 and the right operand
// pinned to 2^264.
func fillBoundRow(w witness.Witness, row int, x, p *big.Int, pLimbs [emulated.NbLimbs]*big.Int) {
	u := new(big.Int).Add(x, twoTo264)
	u.Sub(u, p)

	// the limbs of 2^264 deliberately escape the canonical range: (0, 0, 2^88)
	var hi big.Int
	hi.Lsh(big.NewInt(1), emulated.BitsPerLimb)
	bound := [emulated.NbLimbs]*big.Int{big.NewInt(0), big.NewInt(0), &hi}

	cLo, cMi := limbCarries(bigLimbs(x), bound, bigLimbs(u), pLimbs, 1, 1)

	setLimbs(w, row, colLeftLo, x)
	for k, b := range bound {
		w[colRightLo+k][row].SetBigInt(b)
	}
	w[colSign][row].SetOne()
	w[colOverflow][row].SetOne()
	w[colCarryLo][row] = signedCell(cLo)
	w[colCarryMi][row] = signedCell(cMi)

	setLimbs(w, row+1, colLeftLo, u)
}

// reduce applies one operation to reduced operands and returns the reduced
// result together with the field overflow: 1 when an addition wraps past p,
// -1 when a subtraction wraps below zero, 0 otherwise.
func reduce(left, right *big.Int, op Op, p *big.Int) (*big.Int, int64) {
	res := new(big.Int)
	if op == Sub {
		res.Sub(left, right)
		if res.Sign() < 0 {
			return res.Add(res, p), -1
		}
		return res, 0
	}
	res.Add(res.Add(res, left), right)
	if res.Cmp(p) >= 0 {
		return res.Sub(res, p), 1
	}
	return res, 0
}

// limbCarries derives the limb carries from the low and middle limb
// identities; both divisions by 2^88 are exact for consistent row values.
//
//	c_lo = (left0 + s*right0 - o*p0 - result0) / 2^88
//	c_mi = (left1 + s*right1 - o*p1 - result1 + c_lo) / 2^88
func limbCarries(left, right, result, p [emulated.NbLimbs]*big.Int, sign, ovf int64) (int64, int64) {
	var carries [2]int64
	carry := int64(0)
	for k := 0; k < 2; k++ {
		t := big.NewInt(carry)
		t.Add(t, left[k])
		if sign > 0 {
			t.Add(t, right[k])
		} else {
			t.Sub(t, right[k])
		}
		switch ovf {
		case 1:
			t.Sub(t, p[k])
		case -1:
			t.Add(t, p[k])
		}
		t.Sub(t, result[k])
		t.Rsh(t, emulated.BitsPerLimb)
		carries[k] = t.Int64()
		carry = carries[k]
	}

	if debug.Debug {
		// the high limb identity closes with no carry left over
		t := big.NewInt(carries[1])
		t.Add(t, left[2])
		if sign > 0 {
			t.Add(t, right[2])
		} else {
			t.Sub(t, right[2])
		}
		switch ovf {
		case 1:
			t.Sub(t, p[2])
		case -1:
			t.Add(t, p[2])
		}
		t.Sub(t, result[2])
		debug.Assert(t.Sign() == 0, "unbalanced high limb identity")
	}

	return carries[0], carries[1]
}

// bigLimbs splits v into integer limbs, low first.
func bigLimbs(v *big.Int) [emulated.NbLimbs]*big.Int {
	var out [emulated.NbLimbs]*big.Int
	rest := new(big.Int).Set(v)
	for k := range out {
		out[k] = new(big.Int).And(rest, limbMask)
		rest.Rsh(rest, emulated.BitsPerLimb)
	}
	return out
}

// setLimbs writes the limb decomposition of v into three consecutive
// columns of a row.
func setLimbs(w witness.Witness, row, col int, v *big.Int) {
	limbs := emulated.FromBigInt(v).Limbs()
	for k := range limbs {
		w[col+k][row] = limbs[k]
	}
}

// signedCell encodes a small signed value into the native field, -1
// becoming the field's minus one.
func signedCell(v int64) fr.Element {
	var e fr.Element
	if v >= 0 {
		e.SetUint64(uint64(v))
		return e
	}
	e.SetUint64(uint64(-v))
	e.Neg(&e)
	return e
}
