package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRendererModeResolution(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		in   Mode
		want Mode
	}{
		{ModeTable, ModeTable},
		{ModeJSON, ModeJSON},
		{ModeCSV, ModeCSV},
		{ModeMarkdown, ModeMarkdown},
		{"markdown", ModeMarkdown},
		// auto on a non-TTY buffer resolves to markdown
		{ModeAuto, ModeMarkdown},
		{"", ModeMarkdown},
		// unknown falls back to table
		{"xml", ModeTable},
	}

	for _, tt := range tests {
		r := NewRenderer(&buf, &buf, tt.in)
		assert.Equal(t, tt.want, r.Mode(), "mode %q", tt.in)
	}
}

func TestTableModes(t *testing.T) {
	headers := []string{"Player", "Attempts"}
	rows := [][]string{
		{"J.Burrow", "612"},
		{"P.Mahomes", "597"},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(&buf, &buf, ModeTable)
		require.NoError(t, r.Table(headers, rows))
		out := buf.String()
		assert.Contains(t, out, "J.Burrow")
		assert.Contains(t, out, "(2 rows)")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(&buf, &buf, ModeCSV)
		require.NoError(t, r.Table(headers, rows))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Player,Attempts", lines[0])
		assert.Equal(t, "J.Burrow,612", lines[1])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(&buf, &buf, ModeJSON)
		require.NoError(t, r.Table(headers, rows))

		var decoded []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "J.Burrow", decoded[0]["player"])
		assert.Equal(t, "612", decoded[0]["attempts"])
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRenderer(&buf, &buf, ModeMarkdown)
		require.NoError(t, r.Table(headers, rows))
		assert.Contains(t, buf.String(), "| J.Burrow | 612 |")
	})
}

func TestHeaderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeMarkdown)
	r.Header(2, "quarterback seasons")
	assert.Equal(t, "## Quarterback Seasons\n", buf.String())
}

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeTable)
	r.StatusLine("plays 2023", "completed", "49665 rows")
	out := buf.String()
	assert.Contains(t, out, "plays 2023")
	assert.Contains(t, out, "49665 rows")
}

func TestErrorGoesToErrStream(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeTable)
	r.Error("boom")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "boom")
}
