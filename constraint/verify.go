package constraint

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/witness"
)

// VerifyWitness checks the row-local identity of the gate at row against the
// witness, dispatching on the gate's type tag. public carries the values of
// the system's leading public rows; rows below System.Public additionally
// pin column 0 to the matching public value.
//
// Failures return a *GateError wrapping ErrInvalidConstraint (or
// ErrUnknownGateType for an unregistered tag).
func (cs *System) VerifyWitness(row int, w witness.Witness, public []fr.Element) error {
	if row < 0 || row >= len(cs.Gates) || row >= w.NbRows() {
		return fmt.Errorf("row %d out of range", row)
	}
	gate := &cs.Gates[row]

	if row < cs.Public {
		if row >= len(public) {
			return &GateError{Row: row, GateType: gate.Type, Check: "missing public input", Err: ErrInvalidConstraint}
		}
		if !w[0][row].Equal(&public[row]) {
			return &GateError{Row: row, GateType: gate.Type, Check: "public input", Err: ErrInvalidConstraint}
		}
	}

	arg, ok := GetArgument(gate.Type)
	if !ok {
		return &GateError{Row: row, GateType: gate.Type, Err: ErrUnknownGateType}
	}

	env := &RowEnv{CS: cs, Row: row, Witness: w}
	for i, c := range arg.Constraints(env) {
		if !c.IsZero() {
			return &GateError{Row: row, GateType: gate.Type, Check: fmt.Sprintf("constraint %d", i+1), Err: ErrInvalidConstraint}
		}
	}
	if err := arg.CheckRow(env); err != nil {
		return &GateError{Row: row, GateType: gate.Type, Check: err.Error(), Err: ErrInvalidConstraint}
	}
	return nil
}

// Verify runs VerifyWitness and additionally checks the row's wiring: every
// wired cell must equal the cell its wire targets. Wiring failures return a
// *GateError wrapping ErrInvalidCopyConstraint.
func (cs *System) Verify(row int, w witness.Witness, public []fr.Element) error {
	if err := cs.VerifyWitness(row, w, public); err != nil {
		return err
	}
	gate := &cs.Gates[row]
	for col, wire := range gate.Wires {
		a := cell(w, row, col)
		b := cell(w, wire.Row, wire.Col)
		if !a.Equal(&b) {
			return &GateError{
				Row:      row,
				GateType: gate.Type,
				Check:    fmt.Sprintf("cell (%d,%d) does not match wired cell (%d,%d)", row, col, wire.Row, wire.Col),
				Err:      ErrInvalidCopyConstraint,
			}
		}
	}
	return nil
}

// cell reads a witness cell, with rows past the trace reading as zero (the
// padding rows of the domain).
func cell(w witness.Witness, row, col int) fr.Element {
	if row >= w.NbRows() {
		return fr.Element{}
	}
	return w[col][row]
}
