package test

import "github.com/mk3emu/smscore/errors"

// CappedWriter is an io.Writer with a fixed capacity. Once full, further
// writes are silently dropped rather than overwriting earlier content.
type CappedWriter struct {
	buf []byte
	cap int
}

// NewCappedWriter creates a CappedWriter with the given capacity.
func NewCappedWriter(capacity int) (*CappedWriter, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("test: capped writer capacity must be greater than zero")
	}
	return &CappedWriter{cap: capacity}, nil
}

func (c *CappedWriter) Write(p []byte) (int, error) {
	remaining := c.cap - len(c.buf)
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		p = p[:remaining]
	}
	c.buf = append(c.buf, p...)
	return len(p), nil
}

// String returns the content written so far, up to the writer's capacity.
func (c *CappedWriter) String() string {
	return string(c.buf)
}

// Reset empties the writer.
func (c *CappedWriter) Reset() {
	c.buf = c.buf[:0]
}
