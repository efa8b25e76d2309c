package cli

import (
	"errors"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/grid"
	"github.com/PabloGalante/mandalart-agent/internal/printer"
)

var (
	gridIn      string
	gridWidth   int
	gridOutline bool
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print a plan as a 9x9 mandalart grid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGrid(cmd.InOrStdin(), cmd.OutOrStdout(), gridIn, gridWidth, gridOutline)
	},
}

func init() {
	gridCmd.Flags().StringVarP(&gridIn, "in", "i", "", "Plan JSON file to read (\"-\" for stdin, required)")
	gridCmd.Flags().IntVar(&gridWidth, "width", printer.DefaultCellWidth, "Cell width in columns")
	gridCmd.Flags().BoolVar(&gridOutline, "outline", false, "Print an indented outline instead of the grid")
	_ = gridCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(gridCmd)
}

func runGrid(in io.Reader, out io.Writer, path string, width int, outline bool) error {
	doc, err := readDocument(path, in)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return printer.Error("plan file not found", err.Error(), nil)
		}
		return reportFailure(board.OpGenerate, err)
	}
	if outline {
		return printer.Outline(out, doc)
	}
	return printer.Grid(out, grid.Layout(doc), width)
}
