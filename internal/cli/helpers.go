package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/hpgraph/internal/config"
	"github.com/aretw0/hpgraph/internal/logging"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on Stderr, keeping Stdout
// for command output.
func createLogger(cfg config.Log) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, format), nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintSystemMessage prints a standardized system message.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(">>> %s", fmt.Sprintf(format, args...))
	if isTerminal(w) {
		p := termenv.EnvColorProfile()
		msg = termenv.String(msg).Foreground(p.Color("#a78bfa")).String()
	}
	fmt.Fprintln(w, msg)
}

// FormatError renders err for the terminal, spelling out BuildError details.
func FormatError(err error) string {
	var be *domain.BuildError
	if !errors.As(err, &be) {
		return err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", domain.KindName(err))
	if be.Node != "" {
		fmt.Fprintf(&sb, " at node %q", be.Node)
	}
	if be.Line > 0 {
		fmt.Fprintf(&sb, " (line %d", be.Line)
		if be.Column > 0 {
			fmt.Fprintf(&sb, ", column %d", be.Column)
		}
		sb.WriteString(")")
	}
	if len(be.Cycle) > 0 {
		fmt.Fprintf(&sb, "\n  cycle: %s", strings.Join(be.Cycle, " -> "))
	}
	if be.Cause != "" {
		fmt.Fprintf(&sb, "\n  %s", be.Cause)
	}
	return sb.String()
}

// isInterrupted reports whether err only reflects a cancelled context.
func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
