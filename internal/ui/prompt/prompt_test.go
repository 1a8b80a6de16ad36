package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"full word with spaces", "  YES \n", true},
		{"no", "n\n", false},
		{"empty line", "\n", false},
		{"eof without newline", "y", true},
		{"closed input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewStandardPrompter(strings.NewReader(tt.input), &out).Confirm("Proceed?")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Proceed? [y/N]: ", out.String())
		})
	}
}

func TestConfirmOverwrite(t *testing.T) {
	var out bytes.Buffer
	ok, err := ConfirmOverwrite(NewStandardPrompter(strings.NewReader("y\n"), &out), "report.csv")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "File 'report.csv' already exists")
}
