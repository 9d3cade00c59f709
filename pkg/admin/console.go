// Package admin implements the administrator control surface: a
// line-oriented command channel over the process's standard input,
// independent of the HTTP listener it supervises. The dispatcher below is
// a small hand-rolled switch rather than a derived command table — see
// DESIGN.md for the reasoning.
package admin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Supervisor is the subset of listener lifecycle the console can drive.
type Supervisor interface {
	Start(ctx context.Context) error
	Restart(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Status() Status
}

// Status is a snapshot the console prints for .status.
type Status struct {
	Running           bool
	ActiveConnections int
	Addr              string
	StoredSize        string
	Version           string
}

// Console reads commands from in and writes replies to out, until .end
// succeeds or the input stream closes.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
	sup Supervisor
	log *RingBuffer
}

// New returns a Console reading from in and writing replies to out.
func New(in io.Reader, out io.Writer, sup Supervisor, log *RingBuffer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, sup: sup, log: log}
}

// Run blocks, dispatching one command per line, until .end succeeds or the
// input stream is exhausted.
func (c *Console) Run(ctx context.Context) error {
	for c.in.Scan() {
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if done, err := c.dispatch(ctx, line); done {
			return err
		}
	}
	return c.in.Err()
}

// dispatch executes one command line. done is true when Run should stop
// (a successful .end).
func (c *Console) dispatch(ctx context.Context, line string) (done bool, err error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ".start":
		err = c.sup.Start(ctx)
	case ".restart":
		err = c.sup.Restart(ctx)
	case ".shutdown":
		err = c.sup.Shutdown(ctx)
	case ".status":
		s := c.sup.Status()
		fmt.Fprintf(c.out, "%s running=%v connections=%d addr=%s stored=%s\n", s.Version, s.Running, s.ActiveConnections, s.Addr, s.StoredSize)
	case ".connections":
		fmt.Fprintf(c.out, "connections=%d\n", c.sup.Status().ActiveConnections)
	case ".log":
		c.printLog(args)
	case ".clear":
		c.log.Clear()
	case ".help":
		c.printHelp()
	case ".end":
		return c.end(args)
	default:
		fmt.Fprintf(c.out, "unknown command %q, try .help\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return false, nil
}

func (c *Console) printLog(args []string) {
	level := LevelAll
	for _, a := range args {
		switch a {
		case "--info":
			level = LevelInfo
		case "--error":
			level = LevelError
		case "--warn":
			level = LevelWarn
		}
	}
	for _, line := range c.log.Filter(level) {
		fmt.Fprintln(c.out, line)
	}
}

// end refuses to proceed while the server is running. --save
// persists the accumulated log buffer to a local text file first.
func (c *Console) end(args []string) (bool, error) {
	if c.sup.Status().Running {
		fmt.Fprintln(c.out, "refusing .end while the server is running; .shutdown first")
		return false, nil
	}
	for _, a := range args {
		if a == "--save" {
			if err := c.log.SaveToFile(defaultLogPath); err != nil {
				fmt.Fprintf(c.out, "error saving log: %v\n", err)
				return false, nil
			}
			fmt.Fprintf(c.out, "log saved to %s\n", defaultLogPath)
		}
	}
	return true, nil
}

const defaultLogPath = "filebox.log"

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `commands:
  .start                 start accepting connections
  .restart               stop then start again
  .shutdown              stop accepting connections and drain
  .status                print running state and listen address
  .connections           print the active connection count
  .log [--info|--error|--warn]  print buffered log lines, optionally filtered
  .clear                 clear the log buffer
  .help                  print this text
  .end [--save]          exit the console; refuses while running
`)
}

// RunStdin is a convenience constructor wiring Console to os.Stdin/os.Stdout.
func RunStdin(ctx context.Context, sup Supervisor, log *RingBuffer) error {
	return New(os.Stdin, os.Stdout, sup, log).Run(ctx)
}
