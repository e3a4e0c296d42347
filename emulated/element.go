// Package emulated represents integers of a foreign field, whose modulus may
// exceed the native scalar field, as triples of 88-bit limbs over the native
// field.
package emulated

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

const (
	// NbLimbs is the number of limbs of an element.
	NbLimbs = 3
	// BitsPerLimb is the width of one limb.
	BitsPerLimb = 88
	// NbBytes is the length of the canonical byte encoding of an element.
	NbBytes = NbLimbs * BitsPerLimb / 8
)

var limbMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), BitsPerLimb), big.NewInt(1))

// Element is a foreign-field integer split into three 88-bit limbs over the
// native field. The represented value is
//
//	Lo + Mi*2^88 + Hi*2^176
//
// so any value below 2^264 is representable, in particular every residue of
// a foreign modulus of at most 264 bits. Limbs built by this package always
// stay below 2^88; the gate layer range-checks witness limbs separately and
// never reduces them implicitly.
type Element struct {
	Lo, Mi, Hi fr.Element
}

// Zero returns the zero element.
func Zero() Element {
	return Element{}
}

// FromBigInt splits v into limbs. It panics if v is negative or does not fit
// in NbLimbs limbs of BitsPerLimb bits.
func FromBigInt(v *big.Int) Element {
	if v.Sign() < 0 || v.BitLen() > NbLimbs*BitsPerLimb {
		panic("emulated: value does not fit in 3 limbs of 88 bits")
	}
	var e Element
	var t, limb big.Int
	t.Set(v)
	limb.And(&t, limbMask)
	e.Lo.SetBigInt(&limb)
	t.Rsh(&t, BitsPerLimb)
	limb.And(&t, limbMask)
	e.Mi.SetBigInt(&limb)
	t.Rsh(&t, BitsPerLimb)
	e.Hi.SetBigInt(&t)
	return e
}

// FromBytes splits a big-endian byte string into limbs, with the same bound
// as FromBigInt. Byte strings are fixed-length encodings sized to the
// foreign modulus byte-width (32 bytes for secp256k1).
func FromBytes(b []byte) Element {
	var v big.Int
	v.SetBytes(b)
	return FromBigInt(&v)
}

// BigInt recomposes the represented value into res and returns it.
func (e Element) BigInt(res *big.Int) *big.Int {
	var lo, mi, hi big.Int
	e.Lo.BigInt(&lo)
	e.Mi.BigInt(&mi)
	e.Hi.BigInt(&hi)
	res.Lsh(&hi, BitsPerLimb)
	res.Add(res, &mi)
	res.Lsh(res, BitsPerLimb)
	res.Add(res, &lo)
	return res
}

// Bytes returns the canonical NbBytes-long big-endian encoding of e.
func (e Element) Bytes() [NbBytes]byte {
	var v big.Int
	e.BigInt(&v)
	var res [NbBytes]byte
	v.FillBytes(res[:])
	return res
}

// Limbs returns the ordered limbs (lo, mi, hi), for layout loops.
func (e Element) Limbs() [NbLimbs]fr.Element {
	return [NbLimbs]fr.Element{e.Lo, e.Mi, e.Hi}
}

// IsZero reports whether e represents zero.
func (e Element) IsZero() bool {
	return e.Lo.IsZero() && e.Mi.IsZero() && e.Hi.IsZero()
}

// Neg returns the field negation p - e of e modulo the foreign modulus p,
// with zero as fixed point. It panics if e exceeds p.
func (e Element) Neg(p *big.Int) Element {
	if e.IsZero() {
		return Element{}
	}
	var v big.Int
	e.BigInt(&v)
	if v.Cmp(p) > 0 {
		panic("emulated: negation operand exceeds the modulus")
	}
	v.Sub(p, &v)
	return FromBigInt(&v)
}

func (e Element) String() string {
	var v big.Int
	e.BigInt(&v)
	return "0x" + v.Text(16)
}
