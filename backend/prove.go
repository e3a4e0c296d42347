package backend

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"math/bits"
	"runtime"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/witness"
)

// Prove commits to the witness columns and produces an opening proof of the
// gate identities against the public inputs. The witness is zero-padded to
// the domain and fully re-verified first, wiring included; a trace that
// fails any row is refused.
func Prove(pk *ProvingKey, w witness.Witness, public []fr.Element, opts ...ProverOption) (*Proof, error) {
	log := logger.Logger().With().Str("backend", "plonkish").Logger()
	start := time.Now()

	cfg, err := newProverConfig(opts...)
	if err != nil {
		return nil, err
	}
	commit := func(p []fr.Element) (kzg.Digest, error) {
		if cfg.nbTasks > 0 {
			return kzg.Commit(p, pk.Kzg, cfg.nbTasks)
		}
		return kzg.Commit(p, pk.Kzg)
	}

	cs := pk.Vk.cs
	n := int(pk.Vk.Size)
	if w.NbRows() > n {
		return nil, fmt.Errorf("%w: %d rows exceed the %d-row domain", errInvalidWitness, w.NbRows(), n)
	}
	if len(public) != cs.Public {
		return nil, fmt.Errorf("%w: got %d public inputs, the system pins %d", errInvalidWitness, len(public), cs.Public)
	}
	w = w.Pad(n)

	for row := 0; row < n; row++ {
		if err := cs.Verify(row, w, public); err != nil {
			return nil, fmt.Errorf("refusing to prove: %w", err)
		}
	}

	// interpolate and commit the columns
	proof := &Proof{}
	var cols [witness.NbColumns][]fr.Element
	for i := range cols {
		c := make([]fr.Element, n)
		copy(c, w[i])
		toCanonical(c, pk.Domain)
		cols[i] = c
	}
	var g errgroup.Group
	for i := range cols {
		g.Go(func() error {
			var err error
			proof.Columns[i], err = commit(cols[i])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the public inputs interpolated over the public rows
	pubPoly := make([]fr.Element, n)
	copy(pubPoly, public)
	toCanonical(pubPoly, pk.Domain)

	hFunc := sha256.New()
	fs := fiatshamir.NewTranscript(hFunc, "alpha", "zeta")
	if err := bindPublicData(fs, "alpha", cs, public); err != nil {
		return nil, err
	}
	alpha, err := deriveRandomness(fs, "alpha", proof.Columns[:]...)
	if err != nil {
		return nil, err
	}

	// evaluate everything on the coset of the big domain, bit reversed
	args := activeArguments()
	var evalCols [witness.NbColumns][]fr.Element
	evalQs := make([][]fr.Element, len(args))
	var evalQc, evalQpub, evalPub []fr.Element
	var ge errgroup.Group
	for i := range cols {
		ge.Go(func() error {
			evalCols[i] = evalBigCoset(cols[i], pk.DomainBig)
			return nil
		})
	}
	for k := range pk.Qs {
		ge.Go(func() error {
			evalQs[k] = evalBigCoset(pk.Qs[k], pk.DomainBig)
			return nil
		})
	}
	ge.Go(func() error { evalQc = evalBigCoset(pk.Qc, pk.DomainBig); return nil })
	ge.Go(func() error { evalQpub = evalBigCoset(pk.Qpub, pk.DomainBig); return nil })
	ge.Go(func() error { evalPub = evalBigCoset(pubPoly, pk.DomainBig); return nil })
	if err := ge.Wait(); err != nil {
		return nil, err
	}

	// fold the identities into the quotient numerator and divide by the
	// vanishing polynomial, point by point
	bigN := int(pk.DomainBig.Cardinality)
	ratio := bigN / n
	nn := uint64(64 - bits.TrailingZeros64(uint64(bigN)))
	zhInv := zhInvBigCoset(pk.DomainBig, pk.Domain)
	limbs := cs.ForeignFieldModulusLimbs()

	num := make([]fr.Element, bigN)
	nbChunks := runtime.NumCPU()
	chunk := (bigN + nbChunks - 1) / nbChunks
	var gn errgroup.Group
	for begin := 0; begin < bigN; begin += chunk {
		end := min(begin+chunk, bigN)
		gn.Go(func() error {
			env := &cosetEnv{cols: &evalCols, coeff: evalQc, limbs: limbs}
			var acc, term, alphaPow fr.Element
			for i := begin; i < end; i++ {
				irev := int(bits.Reverse64(uint64(i)) >> nn)
				iNext := int(bits.Reverse64(uint64((irev+ratio)%bigN)) >> nn)
				env.curr, env.next = i, iNext

				// public pinning term, constraint zero
				term.Sub(&evalCols[0][i], &evalPub[i])
				acc.Mul(&term, &evalQpub[i])

				alphaPow.Set(&alpha)
				for k := range args {
					for _, c := range args[k].Constraints(env) {
						term.Mul(&c, &evalQs[k][i])
						term.Mul(&term, &alphaPow)
						acc.Add(&acc, &term)
						alphaPow.Mul(&alphaPow, &alpha)
					}
				}

				num[i].Mul(&acc, &zhInv[irev%ratio])
			}
			return nil
		})
	}
	if err := gn.Wait(); err != nil {
		return nil, err
	}

	// back to canonical form and commit the quotient
	pk.DomainBig.FFTInverse(num, fft.DIT, fft.OnCoset())
	if proof.Quotient, err = commit(num); err != nil {
		return nil, err
	}

	zeta, err := deriveRandomness(fs, "zeta", proof.Quotient)
	if err != nil {
		return nil, err
	}

	// open the columns and the quotient at zeta, and the result columns at
	// the shifted point
	polys := make([][]fr.Element, 0, witness.NbColumns+1)
	digests := make([]kzg.Digest, 0, witness.NbColumns+1)
	for i := range cols {
		polys = append(polys, cols[i])
		digests = append(digests, proof.Columns[i])
	}
	polys = append(polys, num)
	digests = append(digests, proof.Quotient)

	if proof.BatchedProof, err = kzg.BatchOpenSinglePoint(polys, digests, zeta, hFunc, pk.Kzg); err != nil {
		return nil, err
	}

	var zetaShifted fr.Element
	zetaShifted.Mul(&zeta, &pk.Vk.Generator)
	if proof.ShiftedProof, err = kzg.BatchOpenSinglePoint(polys[:nbShiftedColumns], digests[:nbShiftedColumns], zetaShifted, hFunc, pk.Kzg); err != nil {
		return nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Int("rows", n).Msg("prover done")
	return proof, nil
}

// cosetEnv is the argument frame over the coset evaluations of the columns,
// in bit-reversed order. Next reads the evaluation one small-domain row
// ahead, ratio points ahead in natural order.
type cosetEnv struct {
	cols  *[witness.NbColumns][]fr.Element
	coeff []fr.Element
	limbs emulated.Element
	curr  int
	next  int
}

func (e *cosetEnv) Curr(col int) fr.Element { return e.cols[col][e.curr] }

func (e *cosetEnv) Next(col int) fr.Element { return e.cols[col][e.next] }

func (e *cosetEnv) Coeff(i int) fr.Element {
	if i != 0 {
		return fr.Element{}
	}
	return e.coeff[e.curr]
}

func (e *cosetEnv) ForeignFieldModulusLimbs() emulated.Element { return e.limbs }

// evalBigCoset evaluates a canonical polynomial over the coset of the big
// domain, bit reversed.
func evalBigCoset(p []fr.Element, domain *fft.Domain) []fr.Element {
	res := make([]fr.Element, domain.Cardinality)
	copy(res, p)
	domain.FFT(res, fft.DIF, fft.OnCoset())
	return res
}

// zhInvBigCoset returns the inverses of the vanishing polynomial of the
// small domain over the coset of the big one. The values are periodic with
// period ratio, indexed by the natural position modulo ratio.
func zhInvBigCoset(bigDomain, smallDomain *fft.Domain) []fr.Element {
	ratio := int(bigDomain.Cardinality / smallDomain.Cardinality)
	res := make([]fr.Element, ratio)

	var one fr.Element
	one.SetOne()

	// Z_H(s*mu^j) = s^n * (mu^n)^j - 1 depends only on j mod ratio
	expo := new(big.Int).SetUint64(smallDomain.Cardinality)
	var sn, mun fr.Element
	sn.Exp(bigDomain.FrMultiplicativeGen, expo)
	mun.Exp(bigDomain.Generator, expo)
	for k := 0; k < ratio; k++ {
		res[k].Sub(&sn, &one)
		sn.Mul(&sn, &mun)
	}
	return fr.BatchInvert(res)
}
