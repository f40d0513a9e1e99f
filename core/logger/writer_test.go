package logger

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type failingSink struct{ err error }

func (f failingSink) Write([]byte) (int, error) { return 0, f.err }

func TestAsyncWriterFansOutInOrder(t *testing.T) {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	w := newAsyncWriter([]io.Writer{a, nil, b}, 0)
	for _, line := range []string{"one\n", "", "two\n"} {
		if err := w.Write([]byte(line)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if a.String() != "one\ntwo\n" || b.String() != a.String() {
		t.Fatalf("sinks = %q, %q", a.String(), b.String())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestAsyncWriterKeepsFirstError(t *testing.T) {
	full := errors.New("disk full")
	w := newAsyncWriter([]io.Writer{failingSink{err: full}}, 16)
	_ = w.Write([]byte("line\n"))
	if err := w.Close(); !errors.Is(err, full) {
		t.Fatalf("close err = %v, want %v", err, full)
	}
}
