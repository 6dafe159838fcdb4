package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smallnest/transpilegraph/metrics"
	"github.com/smallnest/transpilegraph/transpile"
)

var (
	acceptedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	exhaustedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	failedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	detailStyle    = lipgloss.NewStyle().Faint(true).PaddingLeft(2)
)

// outcomeBadge renders a run outcome as a fixed-width colored label.
func outcomeBadge(outcome string) string {
	label := fmt.Sprintf("%-9s", strings.ToUpper(outcome))
	switch outcome {
	case metrics.OutcomeAccepted:
		return acceptedStyle.Render(label)
	case metrics.OutcomeExhausted:
		return exhaustedStyle.Render(label)
	default:
		return failedStyle.Render(label)
	}
}

// describeRun renders one line per run, plus the validation detail when the
// translation was not accepted.
func describeRun(input string, res transpile.Result, err error) string {
	outcome := metrics.Outcome(res, err)
	var b strings.Builder
	switch outcome {
	case metrics.OutcomeFailed:
		fmt.Fprintf(&b, "%s %s: %v", outcomeBadge(outcome), input, err)
	case metrics.OutcomeAccepted:
		fmt.Fprintf(&b, "%s %s -> %s (%d generations)", outcomeBadge(outcome), input, res.Output, res.Iterations)
	default:
		fmt.Fprintf(&b, "%s %s -> %s (%d generations, last status %s)",
			outcomeBadge(outcome), input, res.Output, res.Iterations, res.Status)
		if res.Detail != "" {
			b.WriteString("\n")
			b.WriteString(detailStyle.Render(strings.TrimRight(res.Detail, "\n")))
		}
	}
	return b.String()
}
