package test_test

import (
	"testing"

	"github.com/mk3emu/smscore/test"
)

func TestCappedWriter(t *testing.T) {
	c, err := test.NewCappedWriter(10)
	test.Equate(t, err, nil)

	test.Equate(t, c.String(), "")

	c.Write([]byte("a"))
	test.Equate(t, c.String(), "a")

	c.Write([]byte("bcd"))
	test.Equate(t, c.String(), "abcd")

	c.Write([]byte("efghij"))
	test.Equate(t, c.String(), "abcdefghij")

	// writing beyond capacity is ignored
	c.Write([]byte("klm"))
	test.Equate(t, c.String(), "abcdefghij")

	c.Reset()
	test.Equate(t, c.String(), "")

	c.Write([]byte("abcdefghij"))
	test.Equate(t, c.String(), "abcdefghij")

	c.Reset()
	test.Equate(t, c.String(), "")

	c.Write([]byte("abcdefghijklm"))
	test.Equate(t, c.String(), "abcdefghij")
}
