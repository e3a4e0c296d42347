package backend

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/logger"
)

// ProvingKey holds the prover side of the preprocessed system: the selector
// and coefficient polynomials in canonical form, the evaluation domains and
// the kzg proving key.
type ProvingKey struct {
	Vk *VerifyingKey

	// Domain is the system domain, DomainBig its four-fold extension on
	// which the quotient is computed.
	Domain    *fft.Domain
	DomainBig *fft.Domain

	// Qs holds one selector polynomial per active argument, in registry
	// order.
	Qs [][]fr.Element
	// Qc interpolates the first gate coefficient of each row.
	Qc []fr.Element
	// Qpub selects the public rows.
	Qpub []fr.Element

	Kzg kzg.ProvingKey
}

// VerifyingKey holds the verifier side: the domain parameters and the kzg
// verifying key. Selector evaluations are recomputed from the gate list.
type VerifyingKey struct {
	Size      uint64
	SizeInv   fr.Element
	Generator fr.Element

	Kzg kzg.VerifyingKey

	cs *constraint.System
}

// Setup preprocesses a gate system for proving. The srs must hold at least
// four times the domain cardinality in G1, the length of the quotient.
func Setup(cs *constraint.System, srs *kzg.SRS) (*ProvingKey, *VerifyingKey, error) {
	log := logger.Logger().With().Str("backend", "plonkish").Logger()
	start := time.Now()

	n := cs.Domain.Cardinality
	if uint64(len(srs.Pk.G1)) < 4*n {
		return nil, nil, fmt.Errorf("srs too small: %d G1 points, the quotient needs %d", len(srs.Pk.G1), 4*n)
	}

	vk := &VerifyingKey{
		Size:      n,
		SizeInv:   cs.Domain.CardinalityInv,
		Generator: cs.Domain.Generator,
		Kzg:       srs.Vk,
		cs:        cs,
	}
	pk := &ProvingKey{
		Vk:        vk,
		Domain:    cs.Domain,
		DomainBig: fft.NewDomain(4 * n),
		Kzg:       srs.Pk,
	}

	args := activeArguments()
	one := fr.One()
	pk.Qs = make([][]fr.Element, len(args))
	for k, arg := range args {
		sel := make([]fr.Element, n)
		for row := range cs.Gates {
			if cs.Gates[row].Type == arg.GateType() {
				sel[row] = one
			}
		}
		toCanonical(sel, pk.Domain)
		pk.Qs[k] = sel
	}

	qc := make([]fr.Element, n)
	for row := range cs.Gates {
		if len(cs.Gates[row].Coeffs) > 0 {
			qc[row] = cs.Gates[row].Coeffs[0]
		}
	}
	toCanonical(qc, pk.Domain)
	pk.Qc = qc

	qpub := make([]fr.Element, n)
	for row := 0; row < cs.Public; row++ {
		qpub[row] = one
	}
	toCanonical(qpub, pk.Domain)
	pk.Qpub = qpub

	log.Debug().
		Dur("took", time.Since(start)).
		Uint64("domain", n).
		Int("selectors", len(args)).
		Msg("setup done")

	return pk, vk, nil
}

// toCanonical turns evaluations over the domain into coefficients in
// regular order.
func toCanonical(evals []fr.Element, domain *fft.Domain) {
	domain.FFTInverse(evals, fft.DIF)
	fft.BitReverse(evals)
}
