// Package test provides helpers shared by the package tests: a require
// wrapper and a cached srs for the kzg backend.
package test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Assert is a helper to test gate systems.
type Assert struct {
	t *testing.T
	*require.Assertions
}

// NewAssert returns an Assert helper embedding a testify/require object for
// convenience.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, Assertions: require.New(t)}
}

// Run runs fn as a subtest named by joining descs.
func (a *Assert) Run(fn func(assert *Assert), descs ...string) {
	desc := strings.Join(descs, "/")
	a.t.Run(desc, func(t *testing.T) {
		fn(NewAssert(t))
	})
}
