package menu

import (
	"bytes"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"
)

// fakeRunner records which scenarios ran
type fakeRunner struct {
	singles     int
	repeats     int
	multis      int
	customs     int
	lastCount   int
	lastIntv    time.Duration
	multiPanics bool
}

func (f *fakeRunner) RunSingle() bool {
	f.singles++
	return true
}

func (f *fakeRunner) RunRepeated(count int, interval time.Duration) bool {
	f.repeats++
	f.lastCount = count
	f.lastIntv = interval
	return true
}

func (f *fakeRunner) RunMultiDevice() bool {
	f.multis++
	if f.multiPanics {
		panic("simulated scenario failure")
	}
	return true
}

func (f *fakeRunner) RunCustom() bool {
	f.customs++
	return true
}

func newLoop(input string, runner *fakeRunner) (*Loop, *bytes.Buffer) {
	var out bytes.Buffer
	console := ConsoleFactory(strings.NewReader(input), nil)
	return LoopFactory(console, runner, &out, 5, 2*time.Second), &out
}

// TestLoopDispatch checks selections run scenarios and "0" exits
func TestLoopDispatch(t *testing.T) {
	runner := &fakeRunner{}
	loop, _ := newLoop("1\n2\n3\n4\n0\n", runner)

	loop.Run()

	if runner.singles != 1 || runner.repeats != 1 || runner.multis != 1 || runner.customs != 1 {
		t.Errorf("Expected each scenario once, got %d/%d/%d/%d",
			runner.singles, runner.repeats, runner.multis, runner.customs)
	}

	if runner.lastCount != 5 || runner.lastIntv != 2*time.Second {
		t.Errorf("Expected repeated defaults 5/2s, got %d/%v", runner.lastCount, runner.lastIntv)
	}

	if loop.State() != Exited {
		t.Errorf("Expected Exited state, got %v", loop.State())
	}
}

// TestLoopInvalidChoice checks unknown selections keep the loop alive
func TestLoopInvalidChoice(t *testing.T) {
	runner := &fakeRunner{}
	loop, out := newLoop("9\nhello\n0\n", runner)

	loop.Run()

	if got := strings.Count(out.String(), "Invalid choice"); got != 2 {
		t.Errorf("Expected 2 invalid-choice messages, got %d", got)
	}

	if runner.singles+runner.repeats+runner.multis+runner.customs != 0 {
		t.Error("Expected no scenario to run")
	}

	if loop.State() != Exited {
		t.Errorf("Expected Exited state, got %v", loop.State())
	}
}

// TestLoopEndOfInput checks EOF terminates the loop
func TestLoopEndOfInput(t *testing.T) {
	runner := &fakeRunner{}
	loop, _ := newLoop("", runner)

	loop.Run()

	if loop.State() != Exited {
		t.Errorf("Expected Exited state, got %v", loop.State())
	}
}

// TestLoopScenarioPanicRecovered checks a failing scenario does not kill the loop
func TestLoopScenarioPanicRecovered(t *testing.T) {
	runner := &fakeRunner{multiPanics: true}
	loop, _ := newLoop("3\n1\n0\n", runner)

	loop.Run()

	if runner.multis != 1 {
		t.Errorf("Expected multi-device scenario to run once, got %d", runner.multis)
	}

	//the loop survived the panic and ran the next selection
	if runner.singles != 1 {
		t.Errorf("Expected single scenario after the panic, got %d", runner.singles)
	}

	if loop.State() != Exited {
		t.Errorf("Expected Exited state, got %v", loop.State())
	}
}

// TestLoopInterrupt checks an interrupt at the prompt exits gracefully
func TestLoopInterrupt(t *testing.T) {
	runner := &fakeRunner{}

	//a pipe that never delivers a line keeps the console waiting at the prompt
	reader, _ := io.Pipe()
	sigChan := make(chan os.Signal, 1)
	console := ConsoleFactory(reader, sigChan)

	var out bytes.Buffer
	loop := LoopFactory(console, runner, &out, 5, 2*time.Second)

	sigChan <- syscall.SIGINT
	loop.Run()

	if loop.State() != Exited {
		t.Errorf("Expected Exited state, got %v", loop.State())
	}

	if !console.Interrupted() {
		t.Error("Expected console to record the interrupt")
	}

	if !strings.Contains(out.String(), "interrupted") {
		t.Errorf("Expected interrupt message in output, got: %s", out.String())
	}
}

// TestConsoleReadLine checks plain line reading and EOF reporting
func TestConsoleReadLine(t *testing.T) {
	console := ConsoleFactory(strings.NewReader("first\nsecond\n"), nil)

	line, ok := console.ReadLine()
	if !ok || line != "first" {
		t.Errorf("Expected first line, got %q (%v)", line, ok)
	}

	line, ok = console.ReadLine()
	if !ok || line != "second" {
		t.Errorf("Expected second line, got %q (%v)", line, ok)
	}

	if _, ok := console.ReadLine(); ok {
		t.Error("Expected EOF after the last line")
	}
}
