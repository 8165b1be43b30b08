package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/jonwraymond/toolboxsearch/registry"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// printer writes results either plain (one block type per line, for
// pipes) or styled (for terminals).
type printer struct {
	out    io.Writer
	styled bool
	typ    lipgloss.Style
	dim    lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:    out,
		styled: isTerminal(out),
		typ:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#A3E635")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// blocks prints block results. Scores are shown only on terminals.
func (p *printer) blocks(results []registry.BlockResult, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"blocks": results, "count": len(results)})
	}

	if !p.styled {
		for _, res := range results {
			if _, err := fmt.Fprintln(p.out, res.Type); err != nil {
				return err
			}
		}
		return nil
	}

	width := 0
	for _, res := range results {
		width = max(width, len(res.Type))
	}
	for _, res := range results {
		line := p.typ.Render(fmt.Sprintf("%-*s", width, res.Type))
		if res.Score > 0 {
			line += "  " + p.dim.Render(fmt.Sprintf("%.3f", res.Score))
		}
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.out, p.dim.Render(fmt.Sprintf("%d blocks", len(results))))
	return err
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text or json", format)
	}
}
