// Package menu drives the interactive test loop as an explicit state machine.
package menu

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// State is the menu loop state
type State int

const (
	MenuDisplayed State = iota //waiting for a selection
	Running                    //a scenario is executing
	Exited                     //terminal
)

// ScenarioRunner is the set of scenarios the loop can dispatch to
type ScenarioRunner interface {
	RunSingle() bool
	RunRepeated(count int, interval time.Duration) bool
	RunMultiDevice() bool
	RunCustom() bool
}

// Loop reads menu selections and runs the chosen scenario until exit
type Loop struct {
	console *Console
	runner  ScenarioRunner
	out     io.Writer
	state   State

	repeatCount    int
	repeatInterval time.Duration
}

// LoopFactory creates a menu loop with the given default repeated-send parameters
func LoopFactory(console *Console, runner ScenarioRunner, out io.Writer, repeatCount int, repeatInterval time.Duration) *Loop {
	return &Loop{
		console:        console,
		runner:         runner,
		out:            out,
		state:          MenuDisplayed,
		repeatCount:    repeatCount,
		repeatInterval: repeatInterval,
	}
}

// State returns the current loop state
func (l *Loop) State() State {
	return l.state
}

// Run displays the menu and dispatches selections until the loop exits.
// End of input and interrupt signals both terminate the loop.
func (l *Loop) Run() {
	for l.state != Exited {
		l.printMenu()

		choice, ok := l.console.ReadLine()
		if !ok {
			if l.console.Interrupted() {
				fmt.Fprintln(l.out, "\nTest interrupted")
			}
			l.state = Exited
			break
		}

		l.dispatch(strings.TrimSpace(choice))
	}
}

func (l *Loop) printMenu() {
	fmt.Fprintln(l.out, "\nSelect a test to run:")
	fmt.Fprintln(l.out, "1. Single send test")
	fmt.Fprintf(l.out, "2. Repeated send test (%d sends)\n", l.repeatCount)
	fmt.Fprintln(l.out, "3. Multi-device test")
	fmt.Fprintln(l.out, "4. Custom test")
	fmt.Fprintln(l.out, "0. Exit")
	fmt.Fprintf(l.out, "\nChoice (0-4): ")
}

func (l *Loop) dispatch(choice string) {
	switch choice {
	case "0":
		fmt.Fprintln(l.out, "Test finished")
		l.state = Exited
	case "1", "2", "3", "4":
		l.state = Running
		l.runScenario(choice)
		//an interrupt delivered during a custom prompt ends the loop
		if l.console.Interrupted() {
			fmt.Fprintln(l.out, "\nTest interrupted")
			l.state = Exited
		} else {
			l.state = MenuDisplayed
		}
	default:
		fmt.Fprintln(l.out, "Invalid choice")
	}
}

// runScenario executes one scenario, containing any unexpected failure so the
// loop keeps running
func (l *Loop) runScenario(choice string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Error during scenario: %v", rec)
		}
	}()

	switch choice {
	case "1":
		l.runner.RunSingle()
	case "2":
		l.runner.RunRepeated(l.repeatCount, l.repeatInterval)
	case "3":
		l.runner.RunMultiDevice()
	case "4":
		l.runner.RunCustom()
	}
}
