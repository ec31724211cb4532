// Package ui renders lookup results and index status for the CLI.
// Output is colored on a TTY and plain when piped or when NO_COLOR is
// set, so scripts can parse it.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Aman-CERP/bufwords/internal/store"
)

// Renderer writes human-readable output for lookup and status commands.
type Renderer struct {
	out    io.Writer
	styles Styles
}

// NewRenderer picks styled or plain output based on the writer.
func NewRenderer(out io.Writer) *Renderer {
	styles := NoColorStyles()
	if IsTTY(out) && !DetectNoColor() {
		styles = DefaultStyles()
	}
	return &Renderer{out: out, styles: styles}
}

// NewPlainRenderer always renders without color.
func NewPlainRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, styles: NoColorStyles()}
}

// WordRows renders lookup results, one row per line:
//
//	word [kind] buffer=3 (python)  after: pword gpword
func (r *Renderer) WordRows(rows []store.WordRow) {
	if len(rows) == 0 {
		fmt.Fprintln(r.out, r.styles.Dim.Render("no matches"))
		return
	}

	for _, row := range rows {
		line := fmt.Sprintf("%s %s %s",
			r.styles.Word.Render(row.Word),
			r.styles.Kind.Render("["+row.Kind+"]"),
			r.styles.Label.Render(fmt.Sprintf("buffer=%d (%s)", row.BufferID, row.Filetype)))

		if ctx := formatContext(row); ctx != "" {
			line += "  " + r.styles.Context.Render(ctx)
		}
		fmt.Fprintln(r.out, line)
	}
}

// formatContext renders the preceding-token trail, oldest first.
func formatContext(row store.WordRow) string {
	var parts []string
	if row.GPWord != "" {
		parts = append(parts, row.GPWord)
	}
	if row.PWord != "" {
		parts = append(parts, row.PWord)
	}
	if len(parts) == 0 {
		return ""
	}
	return "after: " + strings.Join(parts, " ")
}

// Buffers renders the buffer listing.
func (r *Renderer) Buffers(buffers []store.Buffer) {
	if len(buffers) == 0 {
		fmt.Fprintln(r.out, r.styles.Dim.Render("no open buffers"))
		return
	}

	fmt.Fprintln(r.out, r.styles.Header.Render(fmt.Sprintf("%-8s %-12s %s", "BUFFER", "FILETYPE", "WORDS")))
	for _, b := range buffers {
		fmt.Fprintf(r.out, "%-8d %-12s %d\n", b.ID, b.Filetype, b.WordCount)
	}
}

// Stats renders index statistics.
func (r *Renderer) Stats(stats store.Stats) {
	fmt.Fprintf(r.out, "%s %d\n", r.styles.Label.Render("buffers:"), stats.BufferCount)
	fmt.Fprintf(r.out, "%s %d\n", r.styles.Label.Render("words:  "), stats.WordCount)
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("size:   "), formatBytes(stats.SizeBytes))
}

// Errorf writes a styled error line.
func (r *Renderer) Errorf(format string, args ...any) {
	fmt.Fprintln(r.out, r.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Successf writes a styled confirmation line.
func (r *Renderer) Successf(format string, args ...any) {
	fmt.Fprintln(r.out, r.styles.Success.Render(fmt.Sprintf(format, args...)))
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
