package encode

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/log2src/internal/model"
)

// TextRenderer enrichment: a colorized terminal rendering of a
// LogMapping, not part of spec.md's JSON wire contract but carried for
// the `map --output text`/`watch` CLI paths the same way
// internal/output/renderer.go's TextRenderer colors LogEntry severities.
var (
	styleDebug  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("196")).Bold(true)
	styleSource = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
	styleVar    = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
)

// TextRenderer writes LogMappings to the terminal with severity-based
// colors, keyed off the level argument the caller passes to Render —
// LogMapping carries no level of its own.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a TextRenderer writing to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

// Render writes one mapping as a single colorized line: the resolved
// source location, followed by its recovered variables.
func (r *TextRenderer) Render(mapping model.LogMapping, level string) error {
	tag := styleLevelTag(level)
	src := styleSource.Render(mapping.SrcRef.String())

	line := fmt.Sprintf("%s %s", tag, src)
	if len(mapping.Variables) > 0 {
		line += " " + styleVar.Render(formatVariables(mapping.Variables))
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func formatVariables(vars map[string]string) string {
	keys := sortedKeys(vars)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%q", k, vars[k])
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func styleLevelTag(level string) string {
	padded := fmt.Sprintf("%-5s", level)
	switch level {
	case "DEBUG", "TRACE":
		return styleDebug.Render(padded)
	case "WARN":
		return styleWarn.Render(padded)
	case "ERROR":
		return styleError.Render(padded)
	case "FATAL":
		return styleFatal.Render(padded)
	default:
		return styleInfo.Render(padded)
	}
}
