// Package scenario implements the canned test sequences the menu offers.
package scenario

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m5grader/gas-tester/internal/transport"
	"github.com/m5grader/gas-tester/pkg/grader"
)

// default parameters for the repeated-send scenario
const (
	DefaultRepeatCount    = 5
	DefaultRepeatInterval = 2 * time.Second
)

// bounds for the custom scenario prompts, inclusive
const (
	MinCount    = 1
	MaxCount    = 10
	MinInterval = 0.5
	MaxInterval = 10.0
)

// multiDeviceIDs are the simulated devices exercised by the multi-device scenario
var multiDeviceIDs = []int{1, 2, 3}

// Input supplies one line of user input per call; the second return is false
// when no more input is available (EOF or interrupt).
type Input func() (string, bool)

// Runner executes test scenarios against a sender, one record per send
type Runner struct {
	generator *grader.Generator
	sender    transport.Sender
	input     Input
	out       io.Writer
	sleep     func(time.Duration)
}

// RunnerFactory creates a scenario runner. The input function is only consulted
// by the custom scenario's prompts.
func RunnerFactory(generator *grader.Generator, sender transport.Sender, input Input, out io.Writer) *Runner {
	return &Runner{
		generator: generator,
		sender:    sender,
		input:     input,
		out:       out,
		sleep:     time.Sleep,
	}
}

// RunSingle generates and sends one record for device 1
func (r *Runner) RunSingle() bool {
	fmt.Fprintln(r.out, "=== Single send test ===")
	record := r.generator.NewRecord(1)
	result := r.sender.Send(record)
	fmt.Fprintln(r.out)
	return result
}

// RunRepeated sends count records sequentially, sleeping interval between
// consecutive sends (none after the last). True iff every send succeeded.
func (r *Runner) RunRepeated(count int, interval time.Duration) bool {
	fmt.Fprintf(r.out, "=== Repeated send test (%d sends) ===\n", count)
	successCount := 0

	for i := 0; i < count; i++ {
		fmt.Fprintf(r.out, "\n--- send %d/%d ---\n", i+1, count)
		record := r.generator.NewRecord(1)

		if r.sender.Send(record) {
			successCount++
		}

		if i < count-1 {
			fmt.Fprintf(r.out, "Waiting %v...\n", interval)
			r.sleep(interval)
		}
	}

	fmt.Fprintf(r.out, "\nResult: %d/%d succeeded\n", successCount, count)
	return successCount == count
}

// RunMultiDevice sends one record per simulated device, sleeping one second
// after every send including the last. True iff every send succeeded.
func (r *Runner) RunMultiDevice() bool {
	fmt.Fprintln(r.out, "=== Multi-device send test ===")
	successCount := 0

	for _, deviceID := range multiDeviceIDs {
		fmt.Fprintf(r.out, "\n--- device %d ---\n", deviceID)
		record := r.generator.NewRecord(deviceID)

		if r.sender.Send(record) {
			successCount++
		}

		r.sleep(1 * time.Second)
	}

	fmt.Fprintf(r.out, "\nResult: %d/%d devices succeeded\n", successCount, len(multiDeviceIDs))
	return successCount == len(multiDeviceIDs)
}

// RunCustom prompts for a count and interval and then behaves like RunRepeated.
// Invalid input aborts the scenario with a message and no network traffic.
func (r *Runner) RunCustom() bool {
	fmt.Fprintf(r.out, "Send count (%d-%d): ", MinCount, MaxCount)
	countLine, ok := r.readLine()
	if !ok {
		return false
	}

	count, err := strconv.Atoi(countLine)
	if err != nil {
		fmt.Fprintln(r.out, "Please enter a number")
		return false
	}
	if count < MinCount || count > MaxCount {
		fmt.Fprintf(r.out, "Count must be between %d and %d\n", MinCount, MaxCount)
		return false
	}

	fmt.Fprintf(r.out, "Interval in seconds (%.1f-%.0f): ", MinInterval, MaxInterval)
	intervalLine, ok := r.readLine()
	if !ok {
		return false
	}

	interval, err := strconv.ParseFloat(intervalLine, 64)
	if err != nil {
		fmt.Fprintln(r.out, "Please enter a number")
		return false
	}
	if interval < MinInterval || interval > MaxInterval {
		fmt.Fprintf(r.out, "Interval must be between %.1f and %.0f seconds\n", MinInterval, MaxInterval)
		return false
	}

	return r.RunRepeated(count, time.Duration(interval*float64(time.Second)))
}

func (r *Runner) readLine() (string, bool) {
	line, ok := r.input()
	if !ok {
		return "", false
	}
	return strings.TrimSpace(line), true
}
