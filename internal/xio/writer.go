package xio

import (
	"io"
)

// NewResponseWriteCloser adapts w to an io.WriteCloser. Close forwards to w
// only when w is itself an io.Closer, so an http.ResponseWriter stays open
// for the server to finish the response.
func NewResponseWriteCloser(w io.Writer) io.WriteCloser {
	return &responseWriteCloser{
		Writer: w,
	}
}

type responseWriteCloser struct {
	io.Writer
	closed bool
}

func (rwc *responseWriteCloser) Close() error {
	if rwc.closed {
		return nil
	}
	rwc.closed = true
	if closer, ok := rwc.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
