package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	dialogTitle   = "Start a new chat?"
	dialogMessage = "This deletes the whole conversation history.\nThis cannot be undone."
)

// renderDialogBox renders the confirmation dialog without placing it.
func renderDialogBox(width int) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = width - 10
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(dialogTitle)

	messageStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	messageLines := []string{strings.Repeat(" ", modalWidth)}
	for _, line := range strings.Split(dialogMessage, "\n") {
		messageLines = append(messageLines, messageStyle.Render(line))
	}
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(messageLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerFor(keys.Confirm, keys.Cancel))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(warningColor).
		Render(strings.Join([]string{titleSection, messageSection, footerSection}, "\n"))
}

// RenderConfirmationModal centers the dialog in a width x height screen.
func RenderConfirmationModal(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, renderDialogBox(width))
}

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// dialogBounds returns where RenderConfirmationModal draws the dialog.
func dialogBounds(width, height int) rect {
	box := renderDialogBox(width)
	w, h := lipgloss.Width(box), lipgloss.Height(box)

	// Same rounding as lipgloss.Place with lipgloss.Center
	r := rect{w: w, h: h}
	if width > w {
		r.x = int(math.Round(float64(width-w) * 0.5))
	}
	if height > h {
		r.y = int(math.Round(float64(height-h) * 0.5))
	}
	return r
}
