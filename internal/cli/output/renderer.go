// Package output renders CLI results in table, JSON, CSV, and markdown
// formats. A Renderer is bound to an output and error stream so commands
// never write to os.Stdout directly, which keeps them testable.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects the rendering format.
type Mode string

// Supported rendering modes. ModeAuto picks table on a TTY and markdown
// otherwise, so piped output stays grep-friendly.
const (
	ModeAuto     Mode = "auto"
	ModeTable    Mode = "table"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeMarkdown Mode = "md"
)

// Renderer writes formatted command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
	titler cases.Caser
}

// NewRenderer creates a renderer for the given streams and mode.
// Unknown modes fall back to table.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeAuto, "":
		if isTerminal(out) {
			mode = ModeTable
		} else {
			mode = ModeMarkdown
		}
	case ModeTable, ModeJSON, ModeCSV, ModeMarkdown, "markdown":
		if mode == "markdown" {
			mode = ModeMarkdown
		}
	default:
		mode = ModeTable
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		styles: NewStyles(),
		titler: cases.Title(language.English),
	}
}

// Mode returns the resolved rendering mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Println writes a plain line to the output stream.
func (r *Renderer) Println(msg string) {
	_, _ = fmt.Fprintln(r.out, msg)
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Success writes a styled success line.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Success.Render("✓ "+msg))
}

// Warning writes a styled warning line.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Warning.Render("! "+msg))
}

// Error writes a styled error line to the error stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
}

// Header writes a title-cased heading. Level 1 renders bold, higher
// levels render dimmer in table mode; markdown mode uses # prefixes.
func (r *Renderer) Header(level int, text string) {
	title := r.titler.String(text)
	if r.mode == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", strings.Repeat("#", level), title)
		return
	}
	style := r.styles.Header
	if level > 1 {
		style = r.styles.Subheader
	}
	_, _ = fmt.Fprintln(r.out, style.Render(title))
}

// StatusLine writes a per-item status row ("  ✓ name  detail").
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success", "completed":
		marker = r.styles.Success.Render("✓")
	case "failed", "error":
		marker = r.styles.Error.Render("✗")
	case "running":
		marker = r.styles.Warning.Render("…")
	default:
		marker = r.styles.Muted.Render("-")
	}
	if detail != "" {
		_, _ = fmt.Fprintf(r.out, "  %s %s  %s\n", marker, name, r.styles.Muted.Render(detail))
		return
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", marker, name)
}

// Table renders headers and string rows in the active mode. JSON mode
// emits an array of objects keyed by the lower-cased header names.
func (r *Renderer) Table(headers []string, rows [][]string) error {
	switch r.mode {
	case ModeJSON:
		objects := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			obj := make(map[string]string, len(headers))
			for i, h := range headers {
				key := strings.ToLower(strings.ReplaceAll(h, " ", "_"))
				if i < len(row) {
					obj[key] = row[i]
				}
			}
			objects = append(objects, obj)
		}
		return r.JSON(objects)

	case ModeCSV:
		w := csv.NewWriter(r.out)
		if err := w.Write(headers); err != nil {
			return err
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()

	case ModeMarkdown:
		t := newTableWriter(r.out, headers, rows)
		t.RenderMarkdown()
		return nil

	default:
		t := newTableWriter(r.out, headers, rows)
		t.SetStyle(table.StyleLight)
		t.Render()
		_, _ = fmt.Fprintf(r.out, "(%d rows)\n", len(rows))
		return nil
	}
}

// JSON writes v as indented JSON regardless of mode.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTableWriter(w io.Writer, headers []string, rows [][]string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}
	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
