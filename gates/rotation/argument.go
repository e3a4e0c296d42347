package rotation

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/internal/rangecheck"
)

var (
	one             = fr.One()
	twoTo64MinusOne fr.Element
)

func init() {
	twoTo64MinusOne.SetUint64(math.MaxUint64)
	constraint.RegisterArgument(argument{})
}

type argument struct{}

func (argument) GateType() constraint.GateType { return constraint.Rot64 }

func (argument) NbConstraints() int { return 2 }

// Constraints evaluates the two gate identities, with 2^r read from the row
// coefficient:
//
//	(1) word * 2^r - rotated - excess * (2^64 - 1)
//	(2) excess + bound + 1 - 2^r
//
// (1) encodes rotated = (word << r | word >> (64-r)) once word, rotated and
// excess hold their ranges; (2) ties the bound complement to excess.
func (argument) Constraints(env constraint.Env) []fr.Element {
	coeff := env.Coeff(0)
	word := env.Curr(colWord)
	rotated := env.Curr(colRotated)
	excess := env.Curr(colExcess)
	bound := env.Curr(colBound)

	out := make([]fr.Element, 2)
	var t fr.Element

	out[0].Mul(&word, &coeff)
	out[0].Sub(&out[0], &rotated)
	t.Mul(&excess, &twoTo64MinusOne)
	out[0].Sub(&out[0], &t)

	out[1].Add(&excess, &bound)
	out[1].Add(&out[1], &one)
	out[1].Sub(&out[1], &coeff)

	return out
}

// CheckRow validates the row coefficient and performs the value-level range
// checks: word and rotated below 2^64, excess and the bound complement
// below 2^r.
func (argument) CheckRow(env *constraint.RowEnv) error {
	r, ok := rotationAmount(env.Coeff(0))
	if !ok {
		return errors.New("coefficient is not a power of two strictly between 1 and 2^64")
	}
	if w := env.Curr(colWord); !rangecheck.Fits(&w, 64) {
		return errors.New("word exceeds 64 bits")
	}
	if rot := env.Curr(colRotated); !rangecheck.Fits(&rot, 64) {
		return errors.New("rotated word exceeds 64 bits")
	}
	if e := env.Curr(colExcess); !rangecheck.Fits(&e, r) {
		return fmt.Errorf("excess exceeds %d bits", r)
	}
	if b := env.Curr(colBound); !rangecheck.Fits(&b, r) {
		return fmt.Errorf("bound complement exceeds %d bits", r)
	}
	return nil
}

// rotationAmount recovers r from the row coefficient 2^r, requiring a clean
// power of two with 0 < r < 64.
func rotationAmount(coeff fr.Element) (int, bool) {
	if !coeff.IsUint64() {
		return 0, false
	}
	v := coeff.Uint64()
	if v == 0 || v&(v-1) != 0 {
		return 0, false
	}
	r := bits.TrailingZeros64(v)
	if r == 0 {
		return 0, false
	}
	return r, true
}
