// Package plonkish provides a typed-gate constraint layer in the plonk
// style: execution traces are grids of native field elements, each row
// carries a gate type, and per-gate polynomial identities constrain the row
// together with its successor.
//
// The repo ships two gate families: foreign-field addition and subtraction
// over moduli of up to 264 bits, and 64-bit word rotation. Importing this
// package registers both gate arguments.
package plonkish

import (
	"github.com/blang/semver/v4"

	_ "github.com/consensys/plonkish/gates/foreignfield"
	_ "github.com/consensys/plonkish/gates/rotation"
)

// Version of the library.
var Version = semver.MustParse("0.1.0")
