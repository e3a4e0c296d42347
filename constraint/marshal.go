package constraint

import (
	"io"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/consensys/plonkish/internal/ioutils"
)

// serializedSystem is the wire form of a System: the gate prefix before
// padding, the public row count and the foreign modulus. The padding, the
// fft domain and the modulus decompositions are deterministic and rebuilt on
// read.
type serializedSystem struct {
	Gates   []Gate
	Public  int
	Modulus []byte
}

// WriteTo serializes the system to w in deterministic cbor. It implements
// io.WriterTo.
func (cs *System) WriteTo(w io.Writer) (int64, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	cnt := ioutils.WriterCounter{W: w}
	encoder := enc.NewEncoder(&cnt)

	data := serializedSystem{
		Gates:   cs.Gates[:cs.nbGates],
		Public:  cs.Public,
		Modulus: cs.ffModulus.Bytes(),
	}
	if err := encoder.Encode(&data); err != nil {
		return cnt.N, err
	}
	return cnt.N, nil
}

// ReadFrom deserializes a system written by WriteTo, rebuilding the padding
// and the domain through NewSystem so a decoded system passes the same
// validation as a built one. It implements io.ReaderFrom.
func (cs *System) ReadFrom(r io.Reader) (int64, error) {
	dm, err := cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		return 0, err
	}
	cnt := ioutils.ReaderCounter{R: r}
	decoder := dm.NewDecoder(&cnt)

	var data serializedSystem
	if err := decoder.Decode(&data); err != nil {
		return cnt.N, err
	}

	modulus := new(big.Int).SetBytes(data.Modulus)
	restored, err := NewSystem(data.Gates,
		WithForeignFieldModulus(modulus),
		WithPublicInputs(data.Public),
	)
	if err != nil {
		return cnt.N, err
	}
	*cs = *restored
	return cnt.N, nil
}
