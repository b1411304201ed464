package test

import "github.com/mk3emu/smscore/errors"

// RingWriter is an io.Writer that retains only the most recently written
// bytes, up to its capacity.
type RingWriter struct {
	buf []byte
	cap int
}

// NewRingWriter creates a RingWriter with the given capacity.
func NewRingWriter(capacity int) (*RingWriter, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("test: ring writer capacity must be greater than zero")
	}
	return &RingWriter{cap: capacity}, nil
}

func (r *RingWriter) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	if len(r.buf) > r.cap {
		r.buf = r.buf[len(r.buf)-r.cap:]
	}
	return len(p), nil
}

// String returns the most recently written content, up to the writer's
// capacity.
func (r *RingWriter) String() string {
	return string(r.buf)
}

// Reset empties the writer.
func (r *RingWriter) Reset() {
	r.buf = r.buf[:0]
}
