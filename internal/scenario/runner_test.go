package scenario

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/m5grader/gas-tester/pkg/grader"
	"github.com/m5grader/gas-tester/pkg/types"
)

// fakeSender returns scripted results and counts calls
type fakeSender struct {
	results []bool
	calls   int
}

func (f *fakeSender) Send(record types.MeasurementRecord) bool {
	result := true
	if f.calls < len(f.results) {
		result = f.results[f.calls]
	}
	f.calls++
	return result
}

func scriptedInput(lines ...string) Input {
	i := 0
	return func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}
}

// testRunner builds a runner with a fake sleep that records durations
func testRunner(sender *fakeSender, input Input, out *bytes.Buffer) (*Runner, *[]time.Duration) {
	generator := grader.GeneratorFactory(rand.NewSource(1))
	runner := RunnerFactory(generator, sender, input, out)

	var sleeps []time.Duration
	runner.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
	}

	return runner, &sleeps
}

// TestRunSingle checks the single-send scenario reports the sender's result
func TestRunSingle(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{results: []bool{true}}
	runner, _ := testRunner(sender, nil, &out)

	if !runner.RunSingle() {
		t.Error("Expected single send to succeed")
	}

	if sender.calls != 1 {
		t.Errorf("Expected 1 send, got %d", sender.calls)
	}
}

// TestRunRepeatedCounts checks N sends always come with N-1 sleeps
func TestRunRepeatedCounts(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{results: []bool{true, false, true, false}}
	runner, sleeps := testRunner(sender, nil, &out)

	result := runner.RunRepeated(4, 2*time.Second)

	if result {
		t.Error("Expected aggregate failure when some sends fail")
	}

	if sender.calls != 4 {
		t.Errorf("Expected 4 sends, got %d", sender.calls)
	}

	if len(*sleeps) != 3 {
		t.Errorf("Expected 3 sleeps, got %d", len(*sleeps))
	}

	for _, d := range *sleeps {
		if d != 2*time.Second {
			t.Errorf("Expected 2s sleep, got %v", d)
		}
	}

	if !strings.Contains(out.String(), "2/4 succeeded") {
		t.Errorf("Expected '2/4 succeeded' in output, got: %s", out.String())
	}
}

// TestRunRepeatedAllSucceed checks the aggregate result when every send works
func TestRunRepeatedAllSucceed(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	runner, _ := testRunner(sender, nil, &out)

	if !runner.RunRepeated(3, time.Second) {
		t.Error("Expected aggregate success when all sends succeed")
	}
}

// TestRunMultiDevice checks per-device sends, trailing sleeps and the tally
func TestRunMultiDevice(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{results: []bool{true, false, true}}
	runner, sleeps := testRunner(sender, nil, &out)

	result := runner.RunMultiDevice()

	if result {
		t.Error("Expected aggregate failure when device 2 fails")
	}

	if sender.calls != 3 {
		t.Errorf("Expected 3 sends, got %d", sender.calls)
	}

	//multi-device sleeps after every send, including the last
	if len(*sleeps) != 3 {
		t.Errorf("Expected 3 sleeps, got %d", len(*sleeps))
	}

	if !strings.Contains(out.String(), "2/3 devices succeeded") {
		t.Errorf("Expected '2/3 devices succeeded' in output, got: %s", out.String())
	}
}

// TestRunCustomRejectsInvalidInput checks validation aborts before any send
func TestRunCustomRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		lines   []string
		message string
	}{
		{"count too low", []string{"0"}, "Count must be between"},
		{"count too high", []string{"11"}, "Count must be between"},
		{"count not numeric", []string{"abc"}, "Please enter a number"},
		{"interval too low", []string{"3", "0.4"}, "Interval must be between"},
		{"interval too high", []string{"3", "10.1"}, "Interval must be between"},
		{"interval not numeric", []string{"3", "fast"}, "Please enter a number"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			sender := &fakeSender{}
			runner, _ := testRunner(sender, scriptedInput(c.lines...), &out)

			if runner.RunCustom() {
				t.Error("Expected custom scenario to abort")
			}

			if sender.calls != 0 {
				t.Errorf("Expected no sends, got %d", sender.calls)
			}

			if !strings.Contains(out.String(), c.message) {
				t.Errorf("Expected %q in output, got: %s", c.message, out.String())
			}
		})
	}
}

// TestRunCustomValidInput checks a valid prompt sequence runs the repeated scenario
func TestRunCustomValidInput(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	runner, sleeps := testRunner(sender, scriptedInput("2", "0.5"), &out)

	if !runner.RunCustom() {
		t.Error("Expected custom scenario to succeed")
	}

	if sender.calls != 2 {
		t.Errorf("Expected 2 sends, got %d", sender.calls)
	}

	if len(*sleeps) != 1 || (*sleeps)[0] != 500*time.Millisecond {
		t.Errorf("Expected one 500ms sleep, got %v", *sleeps)
	}
}

// TestRunCustomBoundaryValues checks the inclusive edges of both prompts
func TestRunCustomBoundaryValues(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	runner, _ := testRunner(sender, scriptedInput("1", "10"), &out)

	if !runner.RunCustom() {
		t.Error("Expected boundary values 1 and 10.0 to be accepted")
	}

	if sender.calls != 1 {
		t.Errorf("Expected 1 send, got %d", sender.calls)
	}
}
