package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wgadmin/wgadmin/internal/api"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type    ResultType
	Title   string  // e.g., "Client created"
	Details []Param // Key-value details to display, in order
	Error   error   // Error (for failure results)
	Hint    string  // Troubleshooting text (for failure results)
	Width   int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Param) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: MaxContentWidth}
}

// NewFailureResult creates a failure result box. The hint is taken from the
// API error kind when err came from the API client.
func NewFailureResult(title string, err error) *Result {
	r := &Result{Type: ResultFailure, Title: title, Error: err, Width: MaxContentWidth}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		r.Hint = api.TroubleshootingHint(err)
	}
	return r
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Param) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: MaxContentWidth}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)

	var (
		titleLine string
		color     lipgloss.Color
	)
	switch r.Type {
	case ResultFailure:
		titleLine = ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title))
		color = ErrorColor
	case ResultWarning:
		titleLine = lipgloss.NewStyle().Foreground(WarningColor).Bold(true).
			Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, r.Title))
		color = WarningColor
	default:
		titleLine = SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title))
		color = SuccessColor
	}

	lines := []string{"", titleLine, ""}

	lines = append(lines, renderDetails(r.Details)...)
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Type == ResultFailure {
		if r.Error != nil {
			lines = append(lines, ErrorMessageStyle.Render("   Error: "+api.ShortMessage(r.Error)), "")
		}
		if r.Hint != "" {
			lines = append(lines, r.renderHint(width), "")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// renderDetails renders one "key: value" line per detail. The key column
// fits the longest key so keys never wrap.
func renderDetails(details []Param) []string {
	width := MinResultKeyWidth
	for _, d := range details {
		width = max(width, lipgloss.Width(d.Key)+1)
	}
	keyStyle := ResultKeyStyle.Width(width)

	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, "   "+keyStyle.Render(d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	return lines
}

// renderHint renders the inner troubleshooting box
func (r *Result) renderHint(width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3).
		Render(TroubleshootingItemStyle.Render(r.Hint))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
