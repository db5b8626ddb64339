package agent

import (
	"fmt"
	"io"
)

// Sink receives the loop's user-facing side channels: Log gets trace lines
// (tool activity, failures), Output gets answer text. In streaming mode the
// hosting transport hands the loop a sink backed by the live response body.
// Neither method returns anything the loop consumes.
type Sink interface {
	Log(line string)
	Output(text string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Log(string)    {}
func (NopSink) Output(string) {}

// WriterSink writes both channels to an io.Writer, flushing after each
// write when the writer supports it. Log lines get their own line; output
// text is written verbatim so streamed fragments concatenate cleanly.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Log(line string) {
	fmt.Fprintln(s.W, line)
	s.flush()
}

func (s WriterSink) Output(text string) {
	io.WriteString(s.W, text)
	s.flush()
}

func (s WriterSink) flush() {
	if f, ok := s.W.(interface{ Flush() }); ok {
		f.Flush()
	}
}
