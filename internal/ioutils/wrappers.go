// Package ioutils provides byte-counting reader and writer wrappers, used by
// the WriteTo and ReadFrom implementations of serializable types.
package ioutils

import "io"

// WriterCounter wraps a writer and accumulates the bytes written through it.
type WriterCounter struct {
	W io.Writer
	N int64
}

func (w *WriterCounter) Write(p []byte) (n int, err error) {
	n, err = w.W.Write(p)
	w.N += int64(n)
	return
}

// ReaderCounter wraps a reader and accumulates the bytes read through it.
type ReaderCounter struct {
	R io.Reader
	N int64
}

func (r *ReaderCounter) Read(p []byte) (n int, err error) {
	n, err = r.R.Read(p)
	r.N += int64(n)
	return
}
