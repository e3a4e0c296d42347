package test

import (
	"crypto/rand"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"

	"github.com/consensys/plonkish/constraint"
)

var (
	srsLock  sync.Mutex
	srsCache = make(map[uint64]*kzg.SRS)
)

// NewKZGSRS returns an srs large enough to set up cs, cached by size. The
// trapdoor is sampled in process, so this is a test convenience only; in
// production an srs generated through a ceremony should be used.
func NewKZGSRS(cs *constraint.System) (*kzg.SRS, error) {
	// the quotient lives on the four-fold domain
	size := ecc.NextPowerOfTwo(4*cs.Domain.Cardinality) + 3

	srsLock.Lock()
	defer srsLock.Unlock()
	if srs, ok := srsCache[size]; ok {
		return srs, nil
	}
	alpha, err := rand.Int(rand.Reader, fr.Modulus())
	if err != nil {
		return nil, err
	}
	srs, err := kzg.NewSRS(size, alpha)
	if err != nil {
		return nil, err
	}
	srsCache[size] = srs
	return srs, nil
}
