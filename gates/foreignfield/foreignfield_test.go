package foreignfield

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/test"
	"github.com/consensys/plonkish/witness"
)

// Maximum value in the secp256k1 base field:
// FFFFFFFF FFFFFFFF FFFFFFFF FFFFFFFF FFFFFFFF FFFFFFFF FFFFFFFE FFFFFC2E
var maxSecp256k1 = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2E,
}

// A value that produces a negative low carry when added to itself.
var ovfNegLo = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// A value that produces a negative middle carry when added to itself.
var ovfNegMi = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2E,
}

// A pair that overflows with the high limb of the result smaller than the
// high limb of the modulus.
var ovfLessHiLeft = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2E,
}
var ovfLessHiRight = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x03, 0xD1,
}

// A value that produces two negative carries when added to ovfZeroMiNegLo.
var ovfNegBoth = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// A value that produces two negative carries when added to itself, with an
// all-zero middle limb.
var ovfZeroMiNegLo = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// All 0x55 bytes, the pattern 0101...
var tic = []byte{
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
}

// 0xAA prefix with a zero suffix, small enough for the field.
var toc = []byte{
	0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA,
	0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Produces a carry in the low limb when added to tic.
var tocLo = []byte{
	0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA,
	0xAA, 0xAA, 0xAA, 0xAA, 0xA9, 0xBA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Produces a carry in the middle limb when added to tic.
var tocMi = []byte{
	0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xA9, 0xBA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA,
	0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Produces carries in both lower limbs when added to tic.
var tocTwo = []byte{
	0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xA9, 0xBA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA,
	0xAA, 0xAA, 0xAA, 0xAA, 0xA9, 0xBA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Bottom half of the secp256k1 modulus:
// 00000000 00000000 00000000 00000000 FFFFFFFF FFFFFFFF FFFFFFFE FFFFFC2F
var forModBot = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2F,
}

// Top half of the secp256k1 modulus:
// FFFFFFFF FFFFFFFF FFFFFFFF FFFFFFFF 00000000 00000000 00000000 00000000
var forModTop = []byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Values that cancel a +1 and a -1 carry when added to the field maximum.
var (
	nullCarryLo   = []byte{0x01, 0x00, 0x00, 0x03, 0xD2}
	nullCarryMi   = []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	nullCarryBoth = []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x03, 0xD2}
)

func fromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

func pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

// testChain builds the circuit and witness of one operation chain and
// verifies every row, including the zero padding of the domain.
func testChain(t *testing.T, p *big.Int, inputs []*big.Int, ops []Op) (witness.Witness, *constraint.System) {
	t.Helper()
	assert := test.NewAssert(t)

	_, gates := CreateGadget(0, len(ops))
	cs, err := constraint.NewSystem(gates, constraint.WithForeignFieldModulus(p))
	assert.NoError(err)

	w := CreateWitness(inputs, ops, p)
	assert.Equal(len(ops)+2, w.NbRows())

	padded := w.Pad(int(cs.Domain.Cardinality))
	for row := 0; row < padded.NbRows(); row++ {
		assert.NoError(cs.Verify(row, padded, nil), "row %d", row)
	}
	return w, cs
}

// checkResults asserts the result limbs of the trailing operations, each
// found on the row after its operation row.
func checkResults(t *testing.T, w witness.Witness, results ...*big.Int) {
	t.Helper()
	assert := test.NewAssert(t)
	first := w.NbRows() - 1 - len(results)
	for i, res := range results {
		want := emulated.FromBigInt(res).Limbs()
		for k := range want {
			assert.True(want[k].Equal(&w[colLeftLo+k][first+i]), "result %d limb %d", i, k)
		}
	}
}

// checkOverflow asserts the overflow cell of the last chain row.
func checkOverflow(t *testing.T, w witness.Witness, want int64) {
	t.Helper()
	assert := test.NewAssert(t)
	e := signedCell(want)
	assert.True(e.Equal(&w[colOverflow][w.NbRows()-3]), "overflow")
}

// checkCarries asserts the carry cells of the last chain row.
func checkCarries(t *testing.T, w witness.Witness, lo, mi int64) {
	t.Helper()
	assert := test.NewAssert(t)
	row := w.NbRows() - 3
	wantLo := signedCell(lo)
	wantMi := signedCell(mi)
	assert.True(wantLo.Equal(&w[colCarryLo][row]), "low carry")
	assert.True(wantMi.Equal(&w[colCarryMi][row]), "middle carry")
}

// valueAt recomposes the limbs of columns 0..2 on a row.
func valueAt(w witness.Witness, row int) *big.Int {
	e := emulated.Element{Lo: w[0][row], Mi: w[1][row], Hi: w[2][row]}
	return e.BigInt(new(big.Int))
}

func TestZeroAdd(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{big.NewInt(0), big.NewInt(0)}, []Op{Add})
	checkResults(t, w, big.NewInt(0))
	checkCarries(t, w, 0, 0)
}

func TestZeroSumForeign(t *testing.T) {
	// the two halves add up to the modulus, so the sum reduces to zero
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(forModBot), fromBytes(forModTop)}, []Op{Add})
	checkResults(t, w, big.NewInt(0))
	checkOverflow(t, w, 1)
}

func TestZeroSumNative(t *testing.T) {
	// terms adding up to the native modulus, well below the foreign one
	p := constraint.DefaultForeignFieldModulus()
	native := fr.Modulus()
	left := big.NewInt(1)
	right := new(big.Int).Sub(native, big.NewInt(1))
	w, _ := testChain(t, p, []*big.Int{left, right}, []Op{Add})
	checkResults(t, w, native)
}

func TestOnePlusOne(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{big.NewInt(1), big.NewInt(1)}, []Op{Add})
	checkResults(t, w, big.NewInt(2))
}

func TestMaxNumber(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	max := fromBytes(maxSecp256k1)
	w, _ := testChain(t, p, []*big.Int{max, max}, []Op{Add})

	sum := new(big.Int).Add(max, max)
	sum.Sub(sum, p)
	checkOverflow(t, w, 1)
	checkResults(t, w, sum)
}

func TestZeroMinusOne(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()

	// first as 0 + neg(1)
	negOne := emulated.FromBigInt(big.NewInt(1)).Neg(p)
	negOneValue := negOne.BigInt(new(big.Int))
	wNeg, _ := testChain(t, p, []*big.Int{big.NewInt(0), negOneValue}, []Op{Add})
	checkResults(t, wNeg, negOneValue)

	// then as 0 - 1, with the same result
	wSub, _ := testChain(t, p, []*big.Int{big.NewInt(0), big.NewInt(1)}, []Op{Sub})
	checkResults(t, wSub, negOneValue)
}

func TestOneMinusOnePlusOne(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	one := big.NewInt(1)
	negNegOne := emulated.FromBigInt(one).Neg(p).Neg(p).BigInt(new(big.Int))

	w, _ := testChain(t, p, []*big.Int{one, one, negNegOne}, []Op{Sub, Add})

	// the intermediate 1 - 1 is zero, the final 0 + 1 is one
	checkResults(t, w, big.NewInt(0), big.NewInt(1))
}

func TestMinusMinus(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	negOne := emulated.FromBigInt(big.NewInt(1)).Neg(p).BigInt(new(big.Int))
	negTwo := emulated.FromBigInt(big.NewInt(2)).Neg(p).BigInt(new(big.Int))

	// as neg(1) + neg(1)
	wNeg, _ := testChain(t, p, []*big.Int{negOne, negOne}, []Op{Add})
	checkResults(t, wNeg, negTwo)

	// as 0 - 1 - 1
	wSub, _ := testChain(t, p, []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(1)}, []Op{Sub, Sub})
	checkResults(t, wSub, negOne, negTwo)
}

func TestNegCarryLo(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	v := fromBytes(ovfNegLo)
	w, _ := testChain(t, p, []*big.Int{v, v}, []Op{Add})
	checkCarries(t, w, -1, 0)
}

func TestNegCarryMi(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	v := fromBytes(ovfNegMi)
	w, _ := testChain(t, p, []*big.Int{v, v}, []Op{Add})
	checkCarries(t, w, 0, -1)
}

func TestPropagateCarry(t *testing.T) {
	// negative low carry across an all-zero middle limb
	p := constraint.DefaultForeignFieldModulus()
	v := fromBytes(ovfZeroMiNegLo)
	w, _ := testChain(t, p, []*big.Int{v, v}, []Op{Add})
	checkCarries(t, w, -1, -1)
}

func TestNegCarries(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(ovfNegBoth), fromBytes(ovfZeroMiNegLo)}, []Op{Add})
	checkCarries(t, w, -1, -1)
}

func TestUpperbound(t *testing.T) {
	// overflowing sum whose high limb ends up below the modulus high limb
	p := constraint.DefaultForeignFieldModulus()
	testChain(t, p, []*big.Int{fromBytes(ovfLessHiLeft), fromBytes(ovfLessHiRight)}, []Op{Add})
}

func TestNullCarryLo(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(maxSecp256k1), fromBytes(nullCarryLo)}, []Op{Add})
	checkCarries(t, w, 0, 0)
}

func TestNullCarryMi(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(maxSecp256k1), fromBytes(nullCarryMi)}, []Op{Add})
	checkCarries(t, w, 0, 0)
}

func TestNullCarryBoth(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(maxSecp256k1), fromBytes(nullCarryBoth)}, []Op{Add})
	checkCarries(t, w, 0, 0)
}

func TestNoCarryLimbs(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(tic), fromBytes(toc)}, []Op{Add})
	checkCarries(t, w, 0, 0)

	// the middle limb of the result is all ones
	var allOnes fr.Element
	allOnes.SetBigInt(new(big.Int).Sub(pow2(uint(emulated.BitsPerLimb)), big.NewInt(1)))
	assert := test.NewAssert(t)
	assert.True(allOnes.Equal(&w[1][1]))
}

func TestPosCarryLimbLo(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(tic), fromBytes(tocLo)}, []Op{Add})
	checkCarries(t, w, 1, 0)
}

func TestPosCarryLimbMid(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(tic), fromBytes(tocMi)}, []Op{Add})
	checkCarries(t, w, 0, 1)
}

func TestPosCarryLimbLoMid(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{fromBytes(tic), fromBytes(tocTwo)}, []Op{Add})
	checkCarries(t, w, 1, 1)
}

// TestCarryCombinations drives the carry pair through all nine sign
// combinations. The secp256k1 modulus cannot reach (-1, +1): its middle limb
// is maximal, so a borrowed low limb can never push the middle sum past
// 2^88. That case runs over 2^263 + 1 instead.
func TestCarryCombinations(t *testing.T) {
	secp := constraint.DefaultForeignFieldModulus()

	cases := []struct {
		name    string
		modulus *big.Int
		input   *big.Int
		ovf     int64
		lo, mi  int64
	}{
		{"zero,zero", secp, big.NewInt(1), 0, 0, 0},
		{"pos,zero", secp, pow2(87), 0, 1, 0},
		{"zero,pos", secp, pow2(175), 0, 0, 1},
		{"pos,pos", secp, new(big.Int).Add(pow2(175), pow2(87)), 0, 1, 1},
		{"neg,zero", secp, new(big.Int).Sub(pow2(256), pow2(88)), 1, -1, 0},
		{"zero,neg", secp, new(big.Int).Add(pow2(255), pow2(87)), 1, 0, -1},
		{"neg,neg", secp, pow2(255), 1, -1, -1},
		{"pos,neg", secp, new(big.Int).Sub(new(big.Int).Add(pow2(256), pow2(88)), new(big.Int).Add(pow2(176), big.NewInt(1))), 1, 1, -1},
		{"neg,pos", new(big.Int).Add(pow2(263), big.NewInt(1)), new(big.Int).Add(pow2(262), new(big.Int).Add(pow2(175), pow2(88))), 1, -1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := testChain(t, tc.modulus, []*big.Int{tc.input, tc.input}, []Op{Add})
			checkOverflow(t, w, tc.ovf)
			checkCarries(t, w, tc.lo, tc.mi)
		})
	}
}

func TestWrongSum(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	w, cs := testChain(t, p, []*big.Int{fromBytes(tic), fromBytes(toc)}, []Op{Add})

	// corrupt the low limb of the result
	var allOnes fr.Element
	allOnes.SetBigInt(new(big.Int).Sub(pow2(uint(emulated.BitsPerLimb)), big.NewInt(1)))
	w[0][1] = allOnes

	assert := test.NewAssert(t)
	err := cs.Verify(0, w, nil)
	assert.ErrorIs(err, constraint.ErrInvalidConstraint)
	var gateErr *constraint.GateError
	assert.ErrorAs(err, &gateErr)
	assert.Equal(constraint.ForeignFieldAdd, gateErr.GateType)
	assert.Equal(0, gateErr.Row)

	// the zero row holding the bound witness is untouched and still passes
	assert.NoError(cs.Verify(2, w, nil))
}

func TestZeroSubModulus(t *testing.T) {
	// the modulus reduces to zero on entry, so 0 - p is 0
	p := constraint.DefaultForeignFieldModulus()
	w, _ := testChain(t, p, []*big.Int{big.NewInt(0), new(big.Int).Set(p)}, []Op{Sub})
	checkResults(t, w, big.NewInt(0))
}

func TestZeroSubMax(t *testing.T) {
	p := constraint.DefaultForeignFieldModulus()
	max := fromBytes(maxSecp256k1)
	negMax := emulated.FromBigInt(max).Neg(p).BigInt(new(big.Int))
	w, _ := testChain(t, p, []*big.Int{big.NewInt(0), max}, []Op{Sub})
	checkOverflow(t, w, -1)
	checkResults(t, w, negMax)
}

// TestSmallModulusAdd uses a modulus far below the native field, with
// inputs up to the native maximum reduced on entry.
func TestSmallModulusAdd(t *testing.T) {
	p := goldilocks.Modulus()

	maxForeign := new(big.Int).Sub(p, big.NewInt(1))
	w, _ := testChain(t, p, []*big.Int{big.NewInt(0), maxForeign}, []Op{Add})
	checkResults(t, w, maxForeign)

	maxNative := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	want := new(big.Int).Mod(maxNative, p)
	w, _ = testChain(t, p, []*big.Int{big.NewInt(0), maxNative}, []Op{Add})
	checkResults(t, w, want)
}

func TestSmallModulusSub(t *testing.T) {
	p := goldilocks.Modulus()

	maxForeign := new(big.Int).Sub(p, big.NewInt(1))
	w, _ := testChain(t, p, []*big.Int{big.NewInt(0), maxForeign}, []Op{Sub})
	checkResults(t, w, big.NewInt(1))

	maxNative := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	want := new(big.Int).Mod(maxNative, p)
	want.Sub(p, want)
	want.Mod(want, p)
	w, _ = testChain(t, p, []*big.Int{big.NewInt(0), maxNative}, []Op{Sub})
	checkResults(t, w, want)
}

func TestUnconstrainedColumns(t *testing.T) {
	// columns past the carry cells are free: scribbling on them must not
	// trip any row check
	p := constraint.DefaultForeignFieldModulus()
	w, cs := testChain(t, p, []*big.Int{fromBytes(tic), fromBytes(toc)}, []Op{Add})

	var junk fr.Element
	junk.SetUint64(7)
	w[10][0] = junk
	w[14][1] = junk

	assert := test.NewAssert(t)
	for row := 0; row < w.NbRows(); row++ {
		assert.NoError(cs.Verify(row, w, nil), "row %d", row)
	}
}

func TestGadgetLayout(t *testing.T) {
	assert := test.NewAssert(t)

	next, gates := CreateGadget(3, 2)
	assert.Equal(7, next)
	assert.Len(gates, 4)

	for i, g := range gates[:3] {
		assert.Equal(constraint.ForeignFieldAdd, g.Type, "gate %d", i)
		assert.Equal(constraint.SelfWires(3+i), g.Wires, "gate %d", i)
	}
	assert.Equal(constraint.Zero, gates[3].Type)

	// chain rows carry coefficient zero, the bound row coefficient one
	assert.True(gates[0].Coeffs[0].IsZero())
	assert.True(gates[1].Coeffs[0].IsZero())
	assert.True(gates[2].Coeffs[0].IsOne())
}

func TestGadgetContracts(t *testing.T) {
	assert := test.NewAssert(t)
	p := constraint.DefaultForeignFieldModulus()
	inputs := []*big.Int{big.NewInt(1), big.NewInt(1)}

	assert.Panics(func() { CreateGadget(0, 0) })
	assert.Panics(func() { CreateGadget(-1, 1) })
	assert.Panics(func() { CreateWitness(inputs[:1], []Op{Add}, p) })
	assert.Panics(func() { CreateWitness(inputs, []Op{Add}, nil) })
	assert.Panics(func() { CreateWitness(inputs, []Op{Add}, big.NewInt(0)) })
	assert.Panics(func() { CreateWitness(inputs, []Op{Add}, pow2(265)) })
}

func TestChainProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	p := constraint.DefaultForeignFieldModulus()
	_, gates := CreateGadget(0, 2)
	cs, err := constraint.NewSystem(gates, constraint.WithForeignFieldModulus(p))
	if err != nil {
		t.Fatal(err)
	}

	genValue := gen.SliceOfN(emulated.NbBytes, gen.UInt8()).Map(func(bs []uint8) *big.Int {
		return new(big.Int).Mod(new(big.Int).SetBytes(bs), p)
	})
	genOp := gen.OneConstOf(Add, Sub)

	apply := func(a, b *big.Int, op Op) *big.Int {
		res := new(big.Int)
		if op == Sub {
			res.Sub(a, b)
		} else {
			res.Add(a, b)
		}
		return res.Mod(res, p)
	}

	properties.Property("two chained operations verify and reduce modulo p", prop.ForAll(
		func(a, b, c *big.Int, op1, op2 Op) bool {
			w := CreateWitness([]*big.Int{a, b, c}, []Op{op1, op2}, p)
			for row := 0; row < w.NbRows(); row++ {
				if cs.Verify(row, w, nil) != nil {
					return false
				}
			}
			want := apply(apply(a, b, op1), c, op2)
			return valueAt(w, w.NbRows()-2).Cmp(want) == 0
		},
		genValue, genValue, genValue, genOp, genOp,
	))

	properties.Property("the bound witness is the result shifted by 2^264 - p", prop.ForAll(
		func(a, b *big.Int, op Op) bool {
			w := CreateWitness([]*big.Int{a, b}, []Op{op}, p)
			x := valueAt(w, w.NbRows()-2)
			u := valueAt(w, w.NbRows()-1)
			want := new(big.Int).Add(x, twoTo264)
			want.Sub(want, p)
			return u.Cmp(want) == 0
		},
		genValue, genValue, genOp,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
