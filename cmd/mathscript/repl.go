package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/rhino1998/mathscript/pkg/environment"
	"github.com/rhino1998/mathscript/pkg/interpreter"
	"github.com/rhino1998/mathscript/pkg/parser"
	"github.com/rhino1998/mathscript/pkg/value"
)

const (
	historyFile = ".mathscript_history"
	promptMain  = "ms> "
	promptCont  = "... "
	helpText    = `REPL commands:
  :help     Show this help
  :vars     List global variables
  :funcs    List global functions
  :quit     Exit the REPL`
)

func printResult(w io.Writer, vals []value.Value) {
	if len(vals) == 0 {
		return
	}

	last := vals[len(vals)-1]
	if last.Kind() == value.KindNil {
		return
	}

	fmt.Fprintln(w, value.Quote(last))
}

func runREPL(ctx context.Context, interp *interpreter.Interpreter, stdout, stderr io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	sess := &replSession{interp: interp, stdout: stdout, stderr: stderr}
	for {
		line, err := ln.Prompt(sess.prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			sess.reset()
			continue
		} else if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			break
		} else if err != nil {
			return err
		}

		entry, more := sess.handleLine(ctx, line)
		if entry != "" {
			ln.AppendHistory(entry)
		}
		if !more {
			break
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}

	return nil
}

// replSession accumulates input lines until they form a complete program.
type replSession struct {
	interp         *interpreter.Interpreter
	stdout, stderr io.Writer

	buf strings.Builder
}

func (s *replSession) prompt() string {
	if s.buf.Len() > 0 {
		return promptCont
	}

	return promptMain
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// handleLine consumes one line of input. It returns the history entry for
// the line, if any, and whether the REPL should keep reading. Input that ends
// mid-construct is held until a later line completes it.
func (s *replSession) handleLine(ctx context.Context, line string) (string, bool) {
	if s.buf.Len() == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return "", true
		}

		if strings.HasPrefix(trimmed, ":") {
			return trimmed, replCommand(s.interp, trimmed, s.stdout, s.stderr)
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")

	src := s.buf.String()
	prog, err := parser.ParseString("repl", src)
	if errors.Is(err, parser.ErrUnexpectedEOF) {
		return "", true
	}

	s.buf.Reset()
	entry := strings.TrimSpace(src)

	if err != nil {
		fmt.Fprintln(s.stderr, err)
		return entry, true
	}

	vals, err := s.interp.Execute(ctx, prog)
	if err != nil {
		fmt.Fprintln(s.stderr, err)
		return entry, true
	}

	printResult(s.stdout, vals)

	return entry, true
}

// replCommand handles a ":" command and reports whether the REPL should keep
// running.
func replCommand(interp *interpreter.Interpreter, cmd string, stdout, stderr io.Writer) bool {
	global := interp.Global()

	switch cmd {
	case ":quit", ":exit":
		return false
	case ":help":
		fmt.Fprintln(stdout, helpText)
	case ":vars":
		for _, name := range global.Variables() {
			v, err := global.FindVariable(name)
			if err != nil {
				fmt.Fprintln(stderr, err)
				continue
			}
			fmt.Fprintf(stdout, "%s = %s\n", name, value.Quote(v))
		}
	case ":funcs":
		for _, name := range global.Functions() {
			fn, _ := global.LookupFunction(name)
			fmt.Fprintf(stdout, "%s\n", describeFunction(fn))
		}
	default:
		fmt.Fprintf(stderr, "unknown command %s, try :help\n", cmd)
	}

	return true
}

func describeFunction(fn environment.Function) string {
	switch fn := fn.(type) {
	case *environment.UserFunction:
		return fmt.Sprintf("fn %s(%s)", fn.Name, strings.Join(fn.Params, ", "))
	case *environment.NativeFunction:
		return fmt.Sprintf("%s (native)", fn.Name)
	default:
		return fmt.Sprintf("%T", fn)
	}
}
