// Package debug exposes the build-time debug flag.
//
// Building with the "debug" tag turns internal assertions into panics and
// keeps the global logger enabled under "go test".
package debug
