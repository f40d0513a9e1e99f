package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// writeOp is either a log line or, when ack is set, a flush request.
type writeOp struct {
	line []byte
	ack  chan error
}

// asyncWriter moves sink I/O off the logging goroutines. One background loop
// owns the sinks, so lines reach every sink in the order they were written.
type asyncWriter struct {
	ops    chan writeOp
	done   chan struct{}
	closed sync.Once

	errMu sync.Mutex
	err   error // first sink error; later writes fail fast with it

	sinks []*bufio.Writer
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 << 10
	}
	w := &asyncWriter{
		ops:  make(chan writeOp, 256),
		done: make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for op := range w.ops {
		if op.ack != nil {
			op.ack <- w.flushSinks()
			continue
		}
		w.keepErr(w.writeLine(op.line))
	}
	w.keepErr(w.flushSinks())
}

// Write queues a copy of p. It blocks while the queue is full rather than
// dropping lines.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.ops <- writeOp{line: append([]byte(nil), p...)}
	return nil
}

// Flush returns once every line queued before it has reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.firstErr(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.ops <- writeOp{ack: ack}
	return <-ack
}

// Close drains the queue and stops the loop. Write must not be called after Close.
func (w *asyncWriter) Close() error {
	w.closed.Do(func() { close(w.ops) })
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) writeLine(line []byte) error {
	for _, s := range w.sinks {
		if _, err := s.Write(line); err != nil {
			return err
		}
		// Lines are flushed immediately so a crash loses at most the queue.
		if err := s.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	var errs []error
	for _, s := range w.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) firstErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *asyncWriter) keepErr(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
