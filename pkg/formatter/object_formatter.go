// File: pkg/formatter/object_formatter.go
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"kodoctl/pkg/storage"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	keyStyle     = lipgloss.NewStyle().Bold(true)
)

type ObjectFormatter struct{}

func NewObjectFormatter() *ObjectFormatter {
	return &ObjectFormatter{}
}

// Returns the machine-readable listing line "key\thash\tsize"
func (f *ObjectFormatter) FormatEntryLine(entry storage.ObjectEntry) string {
	return entry.Key + "\t" + entry.Hash + "\t" + strconv.FormatInt(entry.Size, 10)
}

func (f *ObjectFormatter) FormatEntryTable(entries []storage.ObjectEntry) string {
	table := NewTable([]string{"KEY", "HASH", "SIZE", "BYTES"}).AlignRight(2).AlignRight(3)

	var total int64
	for _, entry := range entries {
		total += entry.Size
		table.AddRow([]string{
			entry.Key,
			entry.Hash,
			storage.FormatBytes(entry.Size),
			strconv.FormatInt(entry.Size, 10),
		})
	}

	var sb strings.Builder
	sb.WriteString(table.String())
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d objects, %s", len(entries), storage.FormatBytes(total)))
	return sb.String()
}

func (f *ObjectFormatter) FormatUploadResult(result storage.UploadResult) string {
	msg := fmt.Sprintf("Uploaded %s to bucket '%s'", keyStyle.Render(result.Key), result.Bucket)
	if result.Hash != "" {
		msg += " (hash " + result.Hash + ")"
	}
	return successStyle.Render("✓") + " " + msg
}

func (f *ObjectFormatter) FormatDownloadResult(key, outPath string, size int) string {
	return successStyle.Render("✓") + " " + fmt.Sprintf("Saved %s to '%s' (%s)", keyStyle.Render(key), outPath, storage.FormatBytes(int64(size)))
}

// Reports partial listing output before a failure
func (f *ObjectFormatter) FormatPartialListing(emitted int) string {
	return warningStyle.Render(fmt.Sprintf("! listing stopped after %d entries", emitted))
}

func (f *ObjectFormatter) FormatWarning(msg string) string {
	return warningStyle.Render("! " + msg)
}
