package constraint

import (
	"sort"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/emulated"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/witness"
)

// Env is the evaluation frame a gate argument reads: the current row, the
// next row and the row coefficients. It is implemented over witness rows
// (RowEnv) and over polynomial openings at a random point (the backend), so
// the same identities serve both.
type Env interface {
	// Curr returns the value of column col on the current row.
	Curr(col int) fr.Element
	// Next returns the value of column col on the next row.
	Next(col int) fr.Element
	// Coeff returns the i-th gate coefficient, or zero when absent.
	Coeff(i int) fr.Element
	// ForeignFieldModulusLimbs returns the limb decomposition of the
	// system's foreign modulus.
	ForeignFieldModulusLimbs() emulated.Element
}

// Argument implements the checks of one gate type. Implementations register
// themselves with RegisterArgument, typically from an init function of the
// gate package.
type Argument interface {
	GateType() GateType
	// NbConstraints returns the number of identities Constraints evaluates.
	// It fixes the argument's share of the global constraint numbering.
	NbConstraints() int
	// Constraints evaluates the gate's polynomial identities on env; a
	// satisfied row yields all zeros. Identities stay at degree three or
	// below in the row cells and may read Next only for the result columns
	// 0 to 2, the only next-row cells the backend opens.
	Constraints(env Env) []fr.Element
	// CheckRow performs the gate's value-level bound checks, standing in
	// for the lookup-based range arguments of the full stack. It runs only
	// during witness verification, never on openings.
	CheckRow(env *RowEnv) error
}

// RowEnv is the evaluation frame over one witness row.
type RowEnv struct {
	CS      *System
	Row     int
	Witness witness.Witness
}

func (e *RowEnv) Curr(col int) fr.Element {
	return e.Witness[col][e.Row]
}

// Next reads the following row; rows past the end of the witness read as
// zero, matching the zero padding of the trace.
func (e *RowEnv) Next(col int) fr.Element {
	if e.Row+1 >= e.Witness.NbRows() {
		return fr.Element{}
	}
	return e.Witness[col][e.Row+1]
}

func (e *RowEnv) Coeff(i int) fr.Element {
	coeffs := e.CS.Gates[e.Row].Coeffs
	if i >= len(coeffs) {
		return fr.Element{}
	}
	return coeffs[i]
}

func (e *RowEnv) ForeignFieldModulusLimbs() emulated.Element {
	return e.CS.ffLimbs
}

var (
	argRegistry = make(map[GateType]Argument)
	argLock     sync.RWMutex
)

// RegisterArgument makes a gate argument available to system verification.
// Registering a second argument for the same gate type overwrites the first
// and logs a warning.
func RegisterArgument(a Argument) {
	argLock.Lock()
	defer argLock.Unlock()
	t := a.GateType()
	if _, ok := argRegistry[t]; ok {
		log := logger.Logger()
		log.Warn().Str("gateType", t.String()).Msg("overwriting registered gate argument")
	}
	argRegistry[t] = a
}

// GetArgument returns the registered argument for a gate type.
func GetArgument(t GateType) (Argument, bool) {
	argLock.RLock()
	defer argLock.RUnlock()
	a, ok := argRegistry[t]
	return a, ok
}

// Arguments returns the registered gate arguments sorted by gate type. The
// order fixes the global constraint numbering the backend and its verifier
// share.
func Arguments() []Argument {
	argLock.RLock()
	defer argLock.RUnlock()
	res := make([]Argument, 0, len(argRegistry))
	for _, a := range argRegistry {
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].GateType() < res[j].GateType() })
	return res
}

// zeroArgument is the padding gate: no identity, no checks.
type zeroArgument struct{}

func (zeroArgument) GateType() GateType           { return Zero }
func (zeroArgument) NbConstraints() int           { return 0 }
func (zeroArgument) Constraints(Env) []fr.Element { return nil }
func (zeroArgument) CheckRow(*RowEnv) error       { return nil }

func init() {
	RegisterArgument(zeroArgument{})
}
