package foreignfield

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/internal/rangecheck"
)

var (
	one     = fr.One()
	twoTo88 fr.Element
)

func init() {
	twoTo88.SetBigInt(new(big.Int).Lsh(big.NewInt(1), emulated.BitsPerLimb))
	constraint.RegisterArgument(argument{})
}

// argument enforces the limb-wise addition identities of a ForeignFieldAdd
// row. The same identities serve chain rows and the bound-check row; the
// bound row only differs in its pinned right operand, checked by CheckRow.
type argument struct{}

func (argument) GateType() constraint.GateType { return constraint.ForeignFieldAdd }

func (argument) NbConstraints() int { return 7 }

// Constraints evaluates the seven gate identities:
//
//	(1) s^2 - 1                                          sign is +-1
//	(2) o * (o - s)                                      overflow is 0 or s
//	(3) c_lo * (c_lo - 1) * (c_lo + 1)                   low carry in {-1, 0, 1}
//	(4) c_mi * (c_mi - 1) * (c_mi + 1)                   middle carry in {-1, 0, 1}
//	(5) left0 + s*right0 - o*p0 - result0 - 2^88 * c_lo
//	(6) left1 + s*right1 - o*p1 - result1 + c_lo - 2^88 * c_mi
//	(7) left2 + s*right2 - o*p2 - result2 + c_mi
//
// with the result limbs read from the next row.
func (argument) Constraints(env constraint.Env) []fr.Element {
	pLimbs := env.ForeignFieldModulusLimbs().Limbs()

	s := env.Curr(colSign)
	o := env.Curr(colOverflow)
	cLo := env.Curr(colCarryLo)
	cMi := env.Curr(colCarryMi)

	out := make([]fr.Element, 7)
	var t fr.Element

	out[0].Square(&s)
	out[0].Sub(&out[0], &one)

	t.Sub(&o, &s)
	out[1].Mul(&o, &t)

	out[2] = unitCube(cLo)
	out[3] = unitCube(cMi)

	for k := 0; k < emulated.NbLimbs; k++ {
		left := env.Curr(colLeftLo + k)
		right := env.Curr(colRightLo + k)
		result := env.Next(colLeftLo + k)

		var acc fr.Element
		acc.Mul(&right, &s)
		acc.Add(&acc, &left)
		t.Mul(&o, &pLimbs[k])
		acc.Sub(&acc, &t)
		acc.Sub(&acc, &result)
		out[4+k] = acc
	}

	t.Mul(&twoTo88, &cLo)
	out[4].Sub(&out[4], &t)

	out[5].Add(&out[5], &cLo)
	t.Mul(&twoTo88, &cMi)
	out[5].Sub(&out[5], &t)

	out[6].Add(&out[6], &cMi)

	return out
}

// unitCube evaluates c*(c-1)*(c+1), zero exactly when c is -1, 0 or 1.
func unitCube(c fr.Element) fr.Element {
	var m, p fr.Element
	m.Sub(&c, &one)
	p.Add(&c, &one)
	m.Mul(&m, &p)
	m.Mul(&m, &c)
	return m
}

// CheckRow performs the value-level bound checks of the row: the 88-bit
// range of the operand and result limbs, and on the bound-check row the
// pinned right operand and the final x < p comparison.
func (argument) CheckRow(env *constraint.RowEnv) error {
	for k := 0; k < emulated.NbLimbs; k++ {
		if l := env.Curr(colLeftLo + k); !rangecheck.Fits(&l, emulated.BitsPerLimb) {
			return fmt.Errorf("left limb %d exceeds %d bits", k, emulated.BitsPerLimb)
		}
		if r := env.Next(colLeftLo + k); !rangecheck.Fits(&r, emulated.BitsPerLimb) {
			return fmt.Errorf("result limb %d exceeds %d bits", k, emulated.BitsPerLimb)
		}
	}

	if c := env.Coeff(0); !c.IsOne() {
		// chain row: the right operand is a regular field element
		for k := 0; k < emulated.NbLimbs; k++ {
			if r := env.Curr(colRightLo + k); !rangecheck.Fits(&r, emulated.BitsPerLimb) {
				return fmt.Errorf("right limb %d exceeds %d bits", k, emulated.BitsPerLimb)
			}
		}
		return nil
	}

	// bound-check row: the right operand is pinned to 2^264 = (0, 0, 2^88)
	// and the row adds it with sign one and overflow one, so the next-row
	// limbs hold u = x + 2^264 - p
	if r := env.Curr(colRightLo); !r.IsZero() {
		return errors.New("bound row right low limb is not zero")
	}
	if r := env.Curr(colRightLo + 1); !r.IsZero() {
		return errors.New("bound row right middle limb is not zero")
	}
	if r := env.Curr(colRightLo + 2); !r.Equal(&twoTo88) {
		return errors.New("bound row right high limb is not 2^88")
	}
	if s := env.Curr(colSign); !s.IsOne() {
		return errors.New("bound row sign is not one")
	}
	if o := env.Curr(colOverflow); !o.IsOne() {
		return errors.New("bound row overflow is not one")
	}

	// final result below the modulus, compared half by half: the 128-bit
	// tops decide, the bottoms break a tie
	var x, half big.Int
	for k := emulated.NbLimbs - 1; k >= 0; k-- {
		l := env.Curr(colLeftLo + k)
		x.Lsh(&x, emulated.BitsPerLimb)
		x.Add(&x, l.BigInt(&half))
	}
	xBottom := new(big.Int).And(&x, mask128)
	xTop := new(big.Int).Rsh(&x, 128)

	pBottom, pTop := env.CS.ForeignFieldModulusHalves()
	switch xTop.Cmp(pTop) {
	case 1:
		return errors.New("result exceeds the modulus")
	case 0:
		if xBottom.Cmp(pBottom) >= 0 {
			return errors.New("result exceeds the modulus")
		}
	}

	return nil
}

var mask128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
