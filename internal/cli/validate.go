package cli

import (
	"errors"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/printer"
)

var validateIn string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a plan JSON file against the plan contract",
	Long: `Validate checks that the file holds exactly 8 sub-goals with distinct ids,
non-empty titles and exactly 8 non-empty actions each. Every violation is
listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.InOrStdin(), validateIn)
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateIn, "in", "i", "", "Plan JSON file to read (\"-\" for stdin, required)")
	_ = validateCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(in io.Reader, path string) error {
	doc, err := readDocument(path, in)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return printer.Error("plan file not found", err.Error(), nil)
		}
		return reportFailure(board.OpGenerate, err)
	}
	printer.Success("valid plan: %q, %d sub-goals x %d actions\n", doc.MainGoal, domain.SubGoalCount, domain.ActionCount)
	return nil
}
