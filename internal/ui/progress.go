package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// countdownTick is how often a running Countdown redraws
const countdownTick = 100 * time.Millisecond

// Countdown is a progress bar that fills over a fixed window, used while
// waiting on operations bounded by a timeout such as an mDNS scan
type Countdown struct {
	Label    string        // e.g., "Scanning for servers"
	Duration time.Duration // The window the bar spans
	Width    int
	bar      progress.Model
}

// NewCountdown creates a countdown over d
func NewCountdown(label string, d time.Duration) *Countdown {
	c := &Countdown{Label: label, Duration: d}
	return c.SetWidth(MaxContentWidth)
}

// SetWidth sets the terminal width for responsive rendering
func (c *Countdown) SetWidth(width int) *Countdown {
	c.Width = width
	barWidth := min(max(width-lipgloss.Width(c.Label)-20, 20), 50)
	c.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return c
}

// Percent returns how much of the window has passed, clamped to [0, 1]
func (c *Countdown) Percent(elapsed time.Duration) float64 {
	if c.Duration <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(c.Duration)
	return min(max(p, 0), 1)
}

// Render returns the label, bar and seconds left for elapsed
func (c *Countdown) Render(elapsed time.Duration) string {
	left := max(c.Duration-elapsed, 0).Round(time.Second)
	return lipgloss.NewStyle().PaddingLeft(2).Render(fmt.Sprintf("%s  %s  %s",
		c.Label,
		c.bar.ViewAs(c.Percent(elapsed)),
		MutedStyle.Render(fmt.Sprintf("%3ds left", int(left/time.Second))),
	))
}

// Run redraws the countdown in place on out until ctx is done or the window
// has passed, then ends the line
func (c *Countdown) Run(ctx context.Context, out io.Writer) {
	start := time.Now()
	ticker := time.NewTicker(countdownTick)
	defer ticker.Stop()

	for {
		elapsed := time.Since(start)
		_, _ = fmt.Fprint(out, "\r"+c.Render(elapsed))
		if elapsed >= c.Duration {
			break
		}
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out)
			return
		case <-ticker.C:
		}
	}
	_, _ = fmt.Fprintln(out)
}
