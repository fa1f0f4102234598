package main

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// summary formats the end-of-run report with locale-aware numbers.
func summary(p *message.Printer, frames, pixels int, last time.Duration, vp fractal.Viewport) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row("frames", p.Sprintf("%d", frames)),
		row("pixels", p.Sprintf("%d per frame", pixels)),
		row("last", p.Sprintf("%d ms", last.Milliseconds())),
		row("viewport", vp.String()),
	)
}
