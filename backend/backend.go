// Package backend implements a reference commit-and-open backend over the
// gate layer: witness columns are interpolated over the system domain and
// committed with kzg, the gate identities are folded into one quotient
// polynomial over a coset, and the quotient relation is checked at a random
// evaluation point derived by Fiat-Shamir.
//
// The backend proves the row identities and the public-input pinning. The
// copy-constraint permutation argument is not part of the proof; the prover
// checks the wiring on the witness and refuses to prove a trace that fails
// it.
//
// Next-row reads wrap around at the domain boundary in the polynomial
// world. A gate whose identity reads the next row must therefore not sit on
// the last row of the domain; the gadget constructors close with a padding
// row, which also keeps the final result row free of gate checks.
//
// Identities are folded argument by argument, in the order of the argument
// registry. Provers and verifiers must register the same gate packages.
package backend

import (
	"encoding/binary"
	"errors"
	"fmt"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/witness"
)

// nbShiftedColumns is the number of leading columns opened at the shifted
// point: the result columns the add gate reads on the next row.
const nbShiftedColumns = emulated.NbLimbs

var (
	errInvalidWitness    = errors.New("invalid witness")
	errInvalidProof      = errors.New("malformed proof")
	errAlgebraicRelation = errors.New("algebraic relation does not hold")
)

// Proof is the opening bundle of one trace: the column commitments, the
// quotient commitment and two batch openings, at the evaluation point and
// at its domain shift.
type Proof struct {
	// Columns commits each witness column.
	Columns [witness.NbColumns]kzg.Digest
	// Quotient commits the quotient polynomial.
	Quotient kzg.Digest
	// BatchedProof opens the columns and the quotient at zeta.
	BatchedProof kzg.BatchOpeningProof
	// ShiftedProof opens the result columns at zeta shifted by the domain
	// generator, the next-row reads of the gate identities.
	ShiftedProof kzg.BatchOpeningProof
}

// ProverOption configures Prove.
type ProverOption func(*proverConfig) error

type proverConfig struct {
	nbTasks int
}

// WithNbTasks bounds the parallelism of the multi-exponentiations.
func WithNbTasks(n int) ProverOption {
	return func(cfg *proverConfig) error {
		if n <= 0 {
			return fmt.Errorf("number of tasks must be positive, got %d", n)
		}
		cfg.nbTasks = n
		return nil
	}
}

func newProverConfig(opts ...ProverOption) (proverConfig, error) {
	var cfg proverConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// activeArguments returns the registered gate arguments carrying at least
// one identity, in registry order.
func activeArguments() []constraint.Argument {
	var args []constraint.Argument
	for _, a := range constraint.Arguments() {
		if a.NbConstraints() > 0 {
			args = append(args, a)
		}
	}
	return args
}

// bindPublicData binds the proving context to a transcript challenge: the
// foreign modulus, the domain size and the public inputs.
func bindPublicData(fs *fiatshamir.Transcript, challenge string, cs *constraint.System, public []fr.Element) error {
	if err := fs.Bind(challenge, cs.ForeignFieldModulus().Bytes()); err != nil {
		return err
	}
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], cs.Domain.Cardinality)
	if err := fs.Bind(challenge, size[:]); err != nil {
		return err
	}
	for i := range public {
		if err := fs.Bind(challenge, public[i].Marshal()); err != nil {
			return err
		}
	}
	return nil
}

// deriveRandomness binds commitments to a transcript challenge and computes
// it.
func deriveRandomness(fs *fiatshamir.Transcript, challenge string, points ...kzg.Digest) (fr.Element, error) {
	var buf [curve.SizeOfG1AffineUncompressed]byte
	var r fr.Element
	for i := range points {
		buf = points[i].RawBytes()
		if err := fs.Bind(challenge, buf[:]); err != nil {
			return r, err
		}
	}
	b, err := fs.ComputeChallenge(challenge)
	if err != nil {
		return r, err
	}
	r.SetBytes(b)
	return r, nil
}
