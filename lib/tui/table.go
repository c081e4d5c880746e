// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// EmptyTablePlaceholder is the single row shown for an empty table.
const EmptyTablePlaceholder = "No data available"

// columnGap separates adjacent cells.
const columnGap = "  "

// Column describes one table column.
type Column[Row any] struct {
	// Label is the header text.
	Label string

	// Value returns the cell's plain text. It determines the column
	// width and is what filter highlighting applies to.
	Value func(Row) string

	// Render, when set, returns the styled cell for unselected rows in
	// place of Value. The visible width must match Value's.
	Render func(Row) string

	// MaxWidth caps the column width. Zero means no cap.
	MaxWidth int

	// Flex marks the column that shrinks first when the table is wider
	// than the screen.
	Flex bool

	// Highlight applies match highlighting for the table's query to
	// this column.
	Highlight bool
}

// Action is a keyboard-invoked operation on the selected row.
type Action[Row any] struct {
	Label string
	Key   string

	// Enabled reports whether the action applies to a row. Nil means
	// always. Disabled actions are drawn faint and do not invoke.
	Enabled func(Row) bool

	// Invoke performs the action and returns any follow-up command.
	Invoke func(Row) tea.Cmd
}

func (action Action[Row]) enabledFor(row Row) bool {
	return action.Enabled == nil || action.Enabled(row)
}

// Table is the column × row × action projection used by list screens.
// The zero value with Columns set is an empty table.
type Table[Row any] struct {
	Columns []Column[Row]
	Actions []Action[Row]

	// RowID identifies rows for heat lookups. Nil disables heat.
	RowID func(Row) string

	// Heat tints recently changed rows. Nil disables heat.
	Heat *HeatTracker

	// Query is highlighted in columns with Highlight set.
	Query string

	rows   []Row
	cursor int
	offset int
}

// SetRows replaces the rows, keeping the cursor in range.
func (table *Table[Row]) SetRows(rows []Row) {
	table.rows = rows
	table.clampCursor()
}

// Rows returns the current rows.
func (table *Table[Row]) Rows() []Row {
	return table.rows
}

// Cursor returns the selected row index.
func (table *Table[Row]) Cursor() int {
	return table.cursor
}

// SetCursor selects a row by index, clamped to the row range.
func (table *Table[Row]) SetCursor(index int) {
	table.cursor = index
	table.clampCursor()
}

// SelectFunc moves the cursor to the first row satisfying match and
// reports whether one was found.
func (table *Table[Row]) SelectFunc(match func(Row) bool) bool {
	for index, row := range table.rows {
		if match(row) {
			table.cursor = index
			return true
		}
	}
	return false
}

func (table *Table[Row]) clampCursor() {
	table.cursor = min(table.cursor, len(table.rows)-1)
	table.cursor = max(table.cursor, 0)
}

// MoveUp moves the cursor up by one, stopping at the first row.
func (table *Table[Row]) MoveUp() {
	table.SetCursor(table.cursor - 1)
}

// MoveDown moves the cursor down by one, stopping at the last row.
func (table *Table[Row]) MoveDown() {
	table.SetCursor(table.cursor + 1)
}

// Selected returns the row under the cursor.
func (table *Table[Row]) Selected() (Row, bool) {
	if len(table.rows) == 0 {
		var zero Row
		return zero, false
	}
	return table.rows[table.cursor], true
}

// Invoke runs the action bound to key on the selected row. It reports
// false when no action has that key, the table is empty, or the action
// is disabled for the row.
func (table *Table[Row]) Invoke(key string) (tea.Cmd, bool) {
	row, ok := table.Selected()
	if !ok {
		return nil, false
	}
	for _, action := range table.Actions {
		if action.Key != key {
			continue
		}
		if !action.enabledFor(row) {
			return nil, false
		}
		return action.Invoke(row), true
	}
	return nil, false
}

// columnWidths computes each column's width for the available width.
func (table *Table[Row]) columnWidths(width int) []int {
	widths := make([]int, len(table.Columns))
	for index, column := range table.Columns {
		widths[index] = ansi.StringWidth(column.Label)
		for _, row := range table.rows {
			widths[index] = max(widths[index], ansi.StringWidth(column.Value(row)))
		}
		if column.MaxWidth > 0 {
			widths[index] = min(widths[index], column.MaxWidth)
		}
	}

	total := ansi.StringWidth(table.actionsHeader())
	for _, columnWidth := range widths {
		total += columnWidth + len(columnGap)
	}
	if overflow := total - width; overflow > 0 {
		for index, column := range table.Columns {
			if column.Flex {
				widths[index] = max(widths[index]-overflow, 8)
				break
			}
		}
	}
	return widths
}

func (table *Table[Row]) actionsHeader() string {
	if len(table.Actions) == 0 {
		return ""
	}
	return "Actions"
}

// fitCell truncates or pads styled text to exactly width columns.
func fitCell(text string, width int) string {
	textWidth := ansi.StringWidth(text)
	if textWidth > width {
		return ansi.Truncate(text, width, "…")
	}
	return text + strings.Repeat(" ", width-textWidth)
}

// View renders the header, up to height-1 rows scrolled to keep the
// cursor visible, and a scrollbar when the rows do not fit. An empty
// table renders the placeholder row.
func (table *Table[Row]) View(theme Theme, width, height int, now time.Time) string {
	widths := table.columnWidths(width - 1)

	headerStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	var header strings.Builder
	for index, column := range table.Columns {
		header.WriteString(fitCell(column.Label, widths[index]))
		header.WriteString(columnGap)
	}
	header.WriteString(table.actionsHeader())
	lines := []string{headerStyle.Render(fitCell(header.String(), width))}

	visible := max(height-1, 1)
	if len(table.rows) == 0 {
		placeholder := lipgloss.NewStyle().Foreground(theme.FaintText).Italic(true)
		lines = append(lines, placeholder.Render(fitCell(EmptyTablePlaceholder, width)))
		return strings.Join(lines, "\n")
	}

	if table.cursor < table.offset {
		table.offset = table.cursor
	}
	if table.cursor >= table.offset+visible {
		table.offset = table.cursor - visible + 1
	}
	table.offset = max(min(table.offset, len(table.rows)-visible), 0)
	end := min(table.offset+visible, len(table.rows))

	scrollbar := strings.Split(RenderScrollbar(theme, end-table.offset, len(table.rows), visible, table.offset, true), "\n")
	for index := table.offset; index < end; index++ {
		row := table.renderRow(theme, table.rows[index], index == table.cursor, widths, width-1, now)
		lines = append(lines, row+scrollbar[index-table.offset])
	}
	return strings.Join(lines, "\n")
}

func (table *Table[Row]) renderRow(theme Theme, row Row, selected bool, widths []int, width int, now time.Time) string {
	baseStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	switch {
	case selected:
		baseStyle = lipgloss.NewStyle().
			Foreground(theme.SelectedForeground).
			Background(theme.SelectedBackground).
			Bold(true)
	case table.Heat != nil && table.RowID != nil:
		// Selection highlight takes priority over the heat tint.
		rowID := table.RowID(row)
		if table.Heat.Heat(rowID, now) > 0 {
			accentColor := theme.HotAccentPut
			if table.Heat.Kind(rowID) == HeatRemove {
				accentColor = theme.HotAccentRemove
			}
			baseStyle = baseStyle.Background(accentColor)
		}
	}
	highlightStyle := baseStyle.Background(theme.SearchHighlightBackground)

	var line strings.Builder
	for index, column := range table.Columns {
		value := column.Value(row)
		var cell string
		switch {
		case column.Render != nil && !selected:
			cell = column.Render(row)
		case column.Highlight && table.Query != "":
			cell = Highlight(value, MatchPositions(value, table.Query, nil), baseStyle, highlightStyle)
		default:
			cell = baseStyle.Render(value)
		}
		line.WriteString(fitStyled(cell, widths[index], baseStyle))
		line.WriteString(baseStyle.Render(columnGap))
	}

	keyStyle := baseStyle.Foreground(theme.AccentColor)
	disabledStyle := baseStyle.Foreground(theme.FaintText)
	for index, action := range table.Actions {
		if index > 0 {
			line.WriteString(baseStyle.Render(" "))
		}
		label := "[" + action.Key + "] " + action.Label
		if action.enabledFor(row) {
			line.WriteString(keyStyle.Render(label))
		} else {
			line.WriteString(disabledStyle.Render(label))
		}
	}
	return fitStyled(line.String(), width, baseStyle)
}

// fitStyled truncates styled text to width columns, or pads it with
// spaces rendered in padStyle so row backgrounds extend to the edge.
func fitStyled(text string, width int, padStyle lipgloss.Style) string {
	textWidth := ansi.StringWidth(text)
	if textWidth > width {
		return ansi.Truncate(text, width, "…")
	}
	if textWidth == width {
		return text
	}
	return text + padStyle.Render(strings.Repeat(" ", width-textWidth))
}
