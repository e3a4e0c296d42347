package witness

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"

	"github.com/consensys/plonkish/internal/ioutils"
)

// serializedTrace is the wire form of a Witness: the column slices of the
// grid.
type serializedTrace struct {
	Columns [][]fr.Element
}

// WriteTo serializes the trace to dst in deterministic cbor, so a trace can
// be produced on one machine and proven on another. It implements
// io.WriterTo.
func (w Witness) WriteTo(dst io.Writer) (int64, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	cnt := ioutils.WriterCounter{W: dst}
	encoder := enc.NewEncoder(&cnt)

	data := serializedTrace{Columns: w[:]}
	if err := encoder.Encode(&data); err != nil {
		return cnt.N, err
	}
	return cnt.N, nil
}

// ReadFrom deserializes a trace written by WriteTo, checking the grid shape.
// It implements io.ReaderFrom.
func (w *Witness) ReadFrom(r io.Reader) (int64, error) {
	dm, err := cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		return 0, err
	}
	cnt := ioutils.ReaderCounter{R: r}
	decoder := dm.NewDecoder(&cnt)

	var data serializedTrace
	if err := decoder.Decode(&data); err != nil {
		return cnt.N, err
	}
	if len(data.Columns) != NbColumns {
		return cnt.N, fmt.Errorf("trace has %d columns, want %d", len(data.Columns), NbColumns)
	}
	for i := range data.Columns {
		if len(data.Columns[i]) != len(data.Columns[0]) {
			return cnt.N, fmt.Errorf("column %d has %d rows, column 0 has %d", i, len(data.Columns[i]), len(data.Columns[0]))
		}
	}
	copy(w[:], data.Columns)
	return cnt.N, nil
}
