package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/vigenere/internal/cracker"
)

// CrackFunc runs a crack, reporting through progress.
type CrackFunc func(ctx context.Context, progress cracker.ProgressFunc) (cracker.Result, error)

// Run shows the progress view on out while crack runs in the background.
func Run(ctx context.Context, out io.Writer, title string, crack CrackFunc) (cracker.Result, error) {
	return run(ctx, title, crack, tea.WithOutput(out))
}

func run(parent context.Context, title string, crack CrackFunc, opts ...tea.ProgramOption) (cracker.Result, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	model := NewModel(title, cancel)
	program := tea.NewProgram(model, append(opts, tea.WithContext(ctx))...)

	type outcome struct {
		result cracker.Result
		err    error
	}
	finished := make(chan outcome, 1)
	go func() {
		res, err := crack(ctx, throttled(func(done, total int) {
			program.Send(ProgressMsg{Done: done, Total: total})
		}))
		finished <- outcome{result: res, err: err}
		program.Send(DoneMsg{Result: res, Err: err})
	}()

	if _, err := program.Run(); err != nil && !model.Canceled() {
		cancel()
		<-finished
		// An interrupt cancels parent and kills the program.
		if perr := parent.Err(); perr != nil {
			return cracker.Result{}, perr
		}
		return cracker.Result{}, fmt.Errorf("failed to run progress TUI: %w", err)
	}
	if model.Canceled() {
		cancel()
	}
	res := <-finished
	return res.result, res.err
}

// throttled forwards a progress update only when the whole percentage changes.
func throttled(fn cracker.ProgressFunc) cracker.ProgressFunc {
	last := -1
	return func(done, total int) {
		pct := done * 100 / total
		if pct == last && done != total {
			return
		}
		last = pct
		fn(done, total)
	}
}
