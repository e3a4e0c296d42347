// Package witness defines the execution trace consumed by the gate layer: a
// grid of native field elements, NbColumns wide, addressed column first.
package witness

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// NbColumns is the width of the witness grid. The leftmost columns take part
// in the copy-constraint permutation; the rest hold gate-local values and
// padding.
const NbColumns = 15

// Witness is a column-first grid of native field elements: w[col][row]
// addresses one cell. All columns have the same length.
type Witness [NbColumns][]fr.Element

// New returns an all-zero witness with nbRows rows.
func New(nbRows int) Witness {
	var w Witness
	for i := range w {
		w[i] = make([]fr.Element, nbRows)
	}
	return w
}

// NbRows returns the number of rows.
func (w Witness) NbRows() int {
	return len(w[0])
}

// Pad returns a copy of w extended with zero rows up to nbRows, or w itself
// if it is already long enough.
func (w Witness) Pad(nbRows int) Witness {
	if w.NbRows() >= nbRows {
		return w
	}
	var res Witness
	for i := range w {
		res[i] = make([]fr.Element, nbRows)
		copy(res[i], w[i])
	}
	return res
}

// Clone returns a deep copy of w.
func (w Witness) Clone() Witness {
	var res Witness
	for i := range w {
		res[i] = make([]fr.Element, len(w[i]))
		copy(res[i], w[i])
	}
	return res
}

// Append returns the rows of w followed by the rows of other, used to stitch
// gadget witnesses into one trace.
func (w Witness) Append(other Witness) Witness {
	var res Witness
	for i := range w {
		res[i] = make([]fr.Element, 0, len(w[i])+len(other[i]))
		res[i] = append(res[i], w[i]...)
		res[i] = append(res[i], other[i]...)
	}
	return res
}
