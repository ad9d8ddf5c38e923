// Package view provides rendering helpers for the board.
package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// GridViewState holds the data needed to render the week grid: one row per
// visible slot, the first column being the time label.
type GridViewState struct {
	Width        int
	Headers      []string
	HeaderStyles []lipgloss.Style
	Rows         [][]string
	CellStyles   [][]lipgloss.Style
	BorderStyle  lipgloss.Style
}

// RenderGrid renders the week grid using a lipgloss table.
func RenderGrid(state GridViewState) string {
	if state.Width <= 0 || len(state.Headers) == 0 {
		return ""
	}

	t := table.New().
		Headers(state.Headers...).
		Width(state.Width).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Rows(state.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(state.HeaderStyles) {
					return state.HeaderStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(state.CellStyles) || col < 0 || col >= len(state.CellStyles[row]) {
				return lipgloss.NewStyle()
			}
			return state.CellStyles[row][col]
		})

	return t.Render()
}
