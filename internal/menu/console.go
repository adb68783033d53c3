package menu

import (
	"bufio"
	"io"
	"os"
)

// Console multiplexes line input with the interrupt signal. Lines are read on a
// background goroutine so ReadLine can give up when an interrupt arrives; the
// signal is only observed while a ReadLine is pending, never mid-scenario.
type Console struct {
	lines       <-chan string
	interrupt   <-chan os.Signal
	interrupted bool
}

// ConsoleFactory creates a console reading lines from r. The interrupt channel
// may be nil when signal handling is not wanted (tests).
func ConsoleFactory(r io.Reader, interrupt <-chan os.Signal) *Console {
	lines := make(chan string)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return &Console{
		lines:     lines,
		interrupt: interrupt,
	}
}

// ReadLine blocks until a line of input, end of input, or an interrupt.
// It returns false when no line could be read.
func (c *Console) ReadLine() (string, bool) {
	if c.interrupted {
		return "", false
	}

	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", false
		}
		return line, true
	case <-c.interrupt:
		c.interrupted = true
		return "", false
	}
}

// Interrupted reports whether an interrupt signal was observed
func (c *Console) Interrupted() bool {
	return c.interrupted
}
