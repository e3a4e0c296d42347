package backend

import (
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
)

// WriteTo serializes the proof to w: the column and quotient commitments in
// compressed form, then the two batch openings. It implements io.WriterTo.
func (proof *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)

	toEncode := make([]interface{}, 0, len(proof.Columns)+5)
	for i := range proof.Columns {
		toEncode = append(toEncode, &proof.Columns[i])
	}
	toEncode = append(toEncode,
		&proof.Quotient,
		&proof.BatchedProof.H,
		proof.BatchedProof.ClaimedValues,
		&proof.ShiftedProof.H,
		proof.ShiftedProof.ClaimedValues,
	)

	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom deserializes a proof written by WriteTo, allocating the claimed
// value slices. It implements io.ReaderFrom.
func (proof *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)

	toDecode := make([]interface{}, 0, len(proof.Columns)+5)
	for i := range proof.Columns {
		toDecode = append(toDecode, &proof.Columns[i])
	}
	toDecode = append(toDecode,
		&proof.Quotient,
		&proof.BatchedProof.H,
		&proof.BatchedProof.ClaimedValues,
		&proof.ShiftedProof.H,
		&proof.ShiftedProof.ClaimedValues,
	)

	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	return dec.BytesRead(), nil
}
