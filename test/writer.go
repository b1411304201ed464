package test

import "strings"

// Writer is an io.Writer that accumulates everything written to it, for
// comparison against an expected string.
type Writer struct {
	buf strings.Builder
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Compare reports whether everything written so far equals s.
func (w *Writer) Compare(s string) bool {
	return w.buf.String() == s
}

// Clear empties the writer's buffer.
func (w *Writer) Clear() {
	w.buf.Reset()
}
