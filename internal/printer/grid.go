package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/grid"
)

// DefaultCellWidth is the display width of one grid cell, in terminal columns.
const DefaultCellWidth = 14

var (
	mainGoalColor = color.New(color.FgMagenta, color.Bold)
	titleColor    = color.New(color.FgCyan, color.Bold)
	mirrorColor   = color.New(color.FgCyan)
)

// Grid renders the 9x9 layout as fixed-width text. Cells are padded and
// truncated by display width so Hangul and ASCII columns line up.
func Grid(w io.Writer, g grid.CellGrid, width int) error {
	if width < 3 {
		width = DefaultCellWidth
	}

	blockRule := strings.Repeat("-", grid.Side*width+(grid.Side-1)*3)
	rule := strings.Join([]string{blockRule, blockRule, blockRule}, "-+-")

	for r, row := range g.Rows() {
		if r > 0 && r%grid.Side == 0 {
			if _, err := fmt.Fprintln(w, rule); err != nil {
				return err
			}
		}

		var b strings.Builder
		for c, cell := range row {
			switch {
			case c == 0:
			case c%grid.Side == 0:
				b.WriteString(" | ")
			default:
				b.WriteString(" : ")
			}
			b.WriteString(renderCell(cell, width))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func renderCell(cell grid.Cell, width int) string {
	text := strings.Join(strings.Fields(cell.Text), " ")
	text = runewidth.FillRight(runewidth.Truncate(text, width, "…"), width)

	switch cell.Kind {
	case grid.KindMainGoal:
		return mainGoalColor.Sprint(text)
	case grid.KindSubGoalTitle:
		return titleColor.Sprint(text)
	case grid.KindSubGoalMirror:
		return mirrorColor.Sprint(text)
	default:
		return text
	}
}

// Outline prints the document as an indented list, one sub-goal per section.
func Outline(w io.Writer, doc *domain.PlanDocument) error {
	if doc == nil {
		_, err := fmt.Fprintln(w, "(no document)")
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n", mainGoalColor.Sprint(doc.MainGoal)); err != nil {
		return err
	}
	for i, sg := range doc.SubGoals {
		if _, err := fmt.Fprintf(w, "\n%d. %s [%s]\n", i+1, titleColor.Sprint(sg.Title), sg.ID); err != nil {
			return err
		}
		for _, a := range sg.Actions {
			if _, err := fmt.Fprintf(w, "   - %s\n", a); err != nil {
				return err
			}
		}
	}
	return nil
}
