package constraint

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	fp_secp256k1 "github.com/consensys/gnark-crypto/ecc/secp256k1/fp"

	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/logger"
)

// maxLog2Domain is the two-adicity of the bn254 scalar field: the largest
// power-of-two subgroup available as an evaluation domain.
const maxLog2Domain = 28

// System is an ordered gate sequence padded to a power-of-two evaluation
// domain, together with the foreign modulus its add gates reduce by.
type System struct {
	// Gates is the padded row sequence; rows past the built gates are Zero
	// gates wired to themselves.
	Gates []Gate
	// Public is the number of leading rows pinned to public inputs.
	Public int
	// Domain is the fft domain sized to the padded gate count.
	Domain *fft.Domain

	nbGates   int     // gate count before padding
	ffModulus big.Int // foreign modulus p
	ffLimbs   emulated.Element
	ffBottom  big.Int // p mod 2^128
	ffTop     big.Int // p >> 128
}

// Option configures NewSystem.
type Option func(*config) error

type config struct {
	modulus *big.Int
	public  int
}

// WithForeignFieldModulus sets the modulus the foreign-field gates reduce
// by. It defaults to the secp256k1 base field modulus.
func WithForeignFieldModulus(p *big.Int) Option {
	return func(c *config) error {
		if p == nil || p.Sign() <= 0 {
			return errors.New("foreign modulus must be a positive integer")
		}
		c.modulus = new(big.Int).Set(p)
		return nil
	}
}

// WithPublicInputs declares the first n rows public: column 0 of those rows
// is pinned to the public input values handed to verification.
func WithPublicInputs(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return errors.New("public input count must be non-negative")
		}
		c.public = n
		return nil
	}
}

// DefaultForeignFieldModulus returns the secp256k1 base field modulus.
func DefaultForeignFieldModulus() *big.Int {
	return fp_secp256k1.Modulus()
}

var mask128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// NewSystem builds a verifying system from an ordered gate list. It pads the
// list with Zero gates to the next power-of-two domain size, validates the
// wiring, and precomputes the limb decomposition and 128-bit-aligned halves
// of the foreign modulus.
func NewSystem(gates []Gate, opts ...Option) (*System, error) {
	log := logger.Logger()

	if len(gates) == 0 {
		return nil, errors.New("building a system from an empty gate list")
	}

	cfg := config{modulus: DefaultForeignFieldModulus()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.modulus.BitLen() > emulated.NbLimbs*emulated.BitsPerLimb {
		return nil, fmt.Errorf("foreign modulus needs %d bits, limbs carry at most %d",
			cfg.modulus.BitLen(), emulated.NbLimbs*emulated.BitsPerLimb)
	}
	if cfg.public > len(gates) {
		return nil, fmt.Errorf("%d public rows exceed the %d gates", cfg.public, len(gates))
	}

	cardinality := ecc.NextPowerOfTwo(uint64(len(gates)))
	if cardinality > 1<<maxLog2Domain {
		return nil, fmt.Errorf("%d gates need a domain larger than the 2^%d-point subgroup of the scalar field",
			len(gates), maxLog2Domain)
	}
	domain := fft.NewDomain(cardinality)

	padded := make([]Gate, domain.Cardinality)
	copy(padded, gates)
	for i := len(gates); i < len(padded); i++ {
		padded[i] = Gate{Type: Zero, Wires: SelfWires(i)}
	}

	cs := &System{
		Gates:   padded,
		Public:  cfg.public,
		Domain:  domain,
		nbGates: len(gates),
	}
	cs.ffModulus.Set(cfg.modulus)
	cs.ffLimbs = emulated.FromBigInt(cfg.modulus)
	cs.ffBottom.And(cfg.modulus, mask128)
	cs.ffTop.Rsh(cfg.modulus, 128)

	if err := cs.checkWires(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("nbGates", cs.nbGates).
		Uint64("domainSize", domain.Cardinality).
		Int("modulusBits", cfg.modulus.BitLen()).
		Msg("built gate system")

	return cs, nil
}

// checkWires validates that the gate wires describe a permutation of the
// wired cells: every wire targets a wired column of an existing row, and no
// cell is targeted twice. With one wire per wired cell, no-duplicates makes
// the map a bijection.
func (cs *System) checkWires() error {
	n := len(cs.Gates)
	seen := bitset.New(uint(n * NbWiredColumns))
	for row := range cs.Gates {
		for col, wire := range cs.Gates[row].Wires {
			if wire.Row < 0 || wire.Row >= n || wire.Col < 0 || wire.Col >= NbWiredColumns {
				return fmt.Errorf("gate %d column %d: wire targets out-of-range cell (%d,%d)",
					row, col, wire.Row, wire.Col)
			}
			idx := uint(wire.Row*NbWiredColumns + wire.Col)
			if seen.Test(idx) {
				return fmt.Errorf("cell (%d,%d) is the target of two wires", wire.Row, wire.Col)
			}
			seen.Set(idx)
		}
	}
	return nil
}

// NbGates returns the gate count before padding.
func (cs *System) NbGates() int {
	return cs.nbGates
}

// ForeignFieldModulus returns a copy of the foreign modulus p.
func (cs *System) ForeignFieldModulus() *big.Int {
	return new(big.Int).Set(&cs.ffModulus)
}

// ForeignFieldModulusLimbs returns the limb decomposition of the foreign
// modulus.
func (cs *System) ForeignFieldModulusLimbs() emulated.Element {
	return cs.ffLimbs
}

// ForeignFieldModulusHalves returns the 128-bit-aligned halves of the
// foreign modulus: p mod 2^128 and p >> 128. The bound-check comparison
// reads them instead of recomputing per row.
func (cs *System) ForeignFieldModulusHalves() (bottom, top *big.Int) {
	return new(big.Int).Set(&cs.ffBottom), new(big.Int).Set(&cs.ffTop)
}
