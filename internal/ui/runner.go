package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RunnerConfig holds configuration for one command execution
type RunnerConfig struct {
	Title   string    // Command title (e.g., "Sync Peers")
	Command string    // Full command (e.g., "wgadmin sync")
	Params  []Param   // Parameters to display in header
	Wait    string    // Optional "please wait" line shown while the operation runs
	Output  io.Writer // Output writer (default: os.Stdout)
}

// Runner orchestrates the header → wait → result flow for a command
type Runner struct {
	config RunnerConfig
	output io.Writer
	width  int
	now    func() time.Time
}

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Runner{
		config: config,
		output: config.Output,
		width:  TerminalWidth(config.Output),
		now:    time.Now,
	}
}

// Operation does the command's work and returns the details to show on success
type Operation func(ctx context.Context) ([]Param, error)

// Run prints the header, executes op and prints its result. The operation's
// error is returned unchanged.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	start := r.now()

	_, _ = fmt.Fprintln(r.output, NewHeader(r.config.Title, r.config.Command, r.config.Params...).SetWidth(r.width).Render())
	_, _ = fmt.Fprintln(r.output)

	if r.config.Wait != "" {
		r.printPleaseWait(r.config.Wait)
	}

	details, err := op(ctx)
	duration := r.now().Sub(start)

	if err != nil {
		_, _ = fmt.Fprintln(r.output, NewFailureResult(r.config.Title+" failed", err).SetWidth(r.width).Render())
		return err
	}

	details = append(details, Param{Key: "Duration", Value: duration.Round(time.Millisecond).String()})
	_, _ = fmt.Fprintln(r.output, NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width).Render())
	return nil
}

// printPleaseWait prints a styled "please wait" message for the operation
func (r *Runner) printPleaseWait(message string) {
	style := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true).
		PaddingLeft(2)

	_, _ = fmt.Fprintln(r.output, style.Render("⏳ "+message+"..."))
	_, _ = fmt.Fprintln(r.output)
}
