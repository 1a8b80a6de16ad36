// File: pkg/formatter/table.go
package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

type Table struct {
	Headers      []string
	Rows         [][]string
	alignments   []Alignment
	columnWidths []int
}

// Creates a new table with the given headers
func NewTable(headers []string) *Table {
	t := &Table{
		Headers:    headers,
		Rows:       [][]string{},
		alignments: make([]Alignment, len(headers)),
	}
	t.calculateColumnWidths()
	return t
}

// Right-aligns the given column, used for numeric values
func (t *Table) AlignRight(column int) *Table {
	if column >= 0 && column < len(t.alignments) {
		t.alignments[column] = AlignRight
	}
	return t
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
	t.calculateColumnWidths()
}

func (t *Table) calculateColumnWidths() {
	t.columnWidths = make([]int, len(t.Headers))
	for i, h := range t.Headers {
		t.columnWidths[i] = lipgloss.Width(h)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(t.columnWidths) && lipgloss.Width(cell) > t.columnWidths[i] {
				t.columnWidths[i] = lipgloss.Width(cell)
			}
		}
	}
}

// Returns the string representation of the table
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	t.calculateColumnWidths()

	var sb strings.Builder

	t.writeBorder(&sb)
	sb.WriteString("\n")

	t.writeRow(&sb, t.Headers, false)

	t.writeBorder(&sb)
	sb.WriteString("\n")

	for _, row := range t.Rows {
		t.writeRow(&sb, row, true)
	}

	t.writeBorder(&sb)

	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, cells []string, aligned bool) {
	sb.WriteString("| ")
	for i, cell := range cells {
		if i >= len(t.columnWidths) {
			break
		}
		padding := strings.Repeat(" ", t.columnWidths[i]-lipgloss.Width(cell))
		if aligned && t.alignments[i] == AlignRight {
			sb.WriteString(padding)
			sb.WriteString(cell)
		} else {
			sb.WriteString(cell)
			sb.WriteString(padding)
		}
		sb.WriteString(" | ")
	}
	sb.WriteString("\n")
}

// writeBorder writes a horizontal border to the string builder
func (t *Table) writeBorder(sb *strings.Builder) {
	sb.WriteString("+")
	for _, width := range t.columnWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
}

// Formats a section header with a title
func FormatHeaderSection(title string) string {
	var sb strings.Builder

	borderLine := strings.Repeat("=", len(title)+30)

	sb.WriteString(borderLine)
	sb.WriteString("\n")
	sb.WriteString("  " + title + "  ")
	sb.WriteString("\n")
	sb.WriteString(borderLine)

	return sb.String()
}

// Formats a simple section title
func FormatSectionTitle(title string) string {
	return "-- " + title + " --"
}
