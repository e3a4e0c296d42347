package backend

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/witness"
)

// Verify checks a proof against the public inputs: the gate identities
// folded over the claimed openings must match the quotient times the
// vanishing polynomial at the evaluation point, and both kzg batch openings
// must verify.
func Verify(vk *VerifyingKey, proof *Proof, public []fr.Element) error {
	log := logger.Logger().With().Str("backend", "plonkish").Logger()
	start := time.Now()

	cs := vk.cs
	if len(public) != cs.Public {
		return fmt.Errorf("%w: got %d public inputs, the system pins %d", errInvalidWitness, len(public), cs.Public)
	}
	if len(proof.BatchedProof.ClaimedValues) != witness.NbColumns+1 ||
		len(proof.ShiftedProof.ClaimedValues) != nbShiftedColumns {
		return errInvalidProof
	}

	// re-derive the challenges from the transcript
	hFunc := sha256.New()
	fs := fiatshamir.NewTranscript(hFunc, "alpha", "zeta")
	if err := bindPublicData(fs, "alpha", cs, public); err != nil {
		return err
	}
	alpha, err := deriveRandomness(fs, "alpha", proof.Columns[:]...)
	if err != nil {
		return err
	}
	zeta, err := deriveRandomness(fs, "zeta", proof.Quotient)
	if err != nil {
		return err
	}

	// the vanishing polynomial at zeta
	var one, zetaPowerN, zhZeta fr.Element
	one.SetOne()
	zetaPowerN.Exp(zeta, new(big.Int).SetUint64(vk.Size))
	zhZeta.Sub(&zetaPowerN, &one)
	if zhZeta.IsZero() {
		return fmt.Errorf("%w: evaluation point in the domain", errInvalidProof)
	}

	evals := vk.evalSystemPolys(zeta, zetaPowerN, public)
	env := &openingEnv{
		proof: proof,
		coeff: evals.qc,
		limbs: cs.ForeignFieldModulusLimbs(),
	}

	// fold the identities over the openings
	var acc, term, alphaPow fr.Element
	term.Sub(&proof.BatchedProof.ClaimedValues[0], &evals.public)
	acc.Mul(&term, &evals.qpub)

	alphaPow.Set(&alpha)
	for k, arg := range activeArguments() {
		for _, c := range arg.Constraints(env) {
			term.Mul(&c, &evals.qs[k])
			term.Mul(&term, &alphaPow)
			acc.Add(&acc, &term)
			alphaPow.Mul(&alphaPow, &alpha)
		}
	}

	// N(zeta) = t(zeta) * Z_H(zeta)
	var rhs fr.Element
	rhs.Mul(&proof.BatchedProof.ClaimedValues[witness.NbColumns], &zhZeta)
	if !acc.Equal(&rhs) {
		return errAlgebraicRelation
	}

	// check the openings against the commitments
	digests := make([]kzg.Digest, 0, witness.NbColumns+1)
	digests = append(digests, proof.Columns[:]...)
	digests = append(digests, proof.Quotient)
	if err := kzg.BatchVerifySinglePoint(digests, &proof.BatchedProof, zeta, hFunc, vk.Kzg); err != nil {
		return err
	}
	var zetaShifted fr.Element
	zetaShifted.Mul(&zeta, &vk.Generator)
	if err := kzg.BatchVerifySinglePoint(digests[:nbShiftedColumns], &proof.ShiftedProof, zetaShifted, hFunc, vk.Kzg); err != nil {
		return err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("verifier done")
	return nil
}

// openingEnv is the argument frame over the openings at zeta: current-row
// cells read the batched opening, next-row cells the shifted one.
type openingEnv struct {
	proof *Proof
	coeff fr.Element
	limbs emulated.Element
}

func (e *openingEnv) Curr(col int) fr.Element {
	return e.proof.BatchedProof.ClaimedValues[col]
}

func (e *openingEnv) Next(col int) fr.Element {
	if col >= nbShiftedColumns {
		return fr.Element{}
	}
	return e.proof.ShiftedProof.ClaimedValues[col]
}

func (e *openingEnv) Coeff(i int) fr.Element {
	if i != 0 {
		return fr.Element{}
	}
	return e.coeff
}

func (e *openingEnv) ForeignFieldModulusLimbs() emulated.Element { return e.limbs }

// systemEvals carries the evaluations at zeta of the polynomials the
// verifier recomputes from the gate list instead of receiving commitments.
type systemEvals struct {
	qs     []fr.Element
	qc     fr.Element
	qpub   fr.Element
	public fr.Element
}

// evalSystemPolys evaluates the selector, coefficient and public polynomials
// at zeta through the Lagrange basis. Only the rows before padding can
// contribute.
func (vk *VerifyingKey) evalSystemPolys(zeta, zetaPowerN fr.Element, public []fr.Element) systemEvals {
	cs := vk.cs
	args := activeArguments()
	res := systemEvals{qs: make([]fr.Element, len(args))}

	argIndex := make(map[constraint.GateType]int, len(args))
	for k, a := range args {
		argIndex[a.GateType()] = k
	}

	// L_r(zeta) = omega^r * (zeta^n - 1) / (n * (zeta - omega^r)); the
	// denominators are inverted in one batch
	nbRows := cs.NbGates()
	lagrange := make([]fr.Element, nbRows)
	var wPow fr.Element
	wPow.SetOne()
	for r := 0; r < nbRows; r++ {
		lagrange[r].Sub(&zeta, &wPow)
		wPow.Mul(&wPow, &vk.Generator)
	}
	lagrange = fr.BatchInvert(lagrange)

	var one, common fr.Element
	one.SetOne()
	common.Sub(&zetaPowerN, &one)
	common.Mul(&common, &vk.SizeInv)

	wPow.SetOne()
	for r := 0; r < nbRows; r++ {
		lagrange[r].Mul(&lagrange[r], &common)
		lagrange[r].Mul(&lagrange[r], &wPow)
		wPow.Mul(&wPow, &vk.Generator)

		gate := &cs.Gates[r]
		if k, ok := argIndex[gate.Type]; ok {
			res.qs[k].Add(&res.qs[k], &lagrange[r])
		}
		if len(gate.Coeffs) > 0 {
			var t fr.Element
			t.Mul(&gate.Coeffs[0], &lagrange[r])
			res.qc.Add(&res.qc, &t)
		}
		if r < cs.Public {
			res.qpub.Add(&res.qpub, &lagrange[r])
			var t fr.Element
			t.Mul(&public[r], &lagrange[r])
			res.public.Add(&res.public, &t)
		}
	}
	return res
}
