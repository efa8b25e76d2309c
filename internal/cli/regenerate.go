package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/app/planner"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/printer"
)

var (
	regenerateIn       string
	regenerateTarget   string
	regenerateFocus    string
	regenerateFeedback string
	regenerateOut      string
	regenerateShowGrid bool
	regenerateWidth    int
)

// RegenerateOptions holds the options for the regenerate command.
type RegenerateOptions struct {
	InPath    string
	TargetID  string
	FocusArea string
	Feedback  string
	OutPath   string
	ShowGrid  bool
	CellWidth int
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Rewrite one sub-goal block of an existing plan",
	Long: `Regenerate sends the whole plan back to the model and asks it to rewrite
only the target sub-goal. The answer is rejected unless the main goal and
the other 7 sub-goals come back unchanged.

Examples:
  mandalart regenerate --in plan.json --target sg-4 --out plan.json
  mandalart regenerate --in plan.json --target sg-2 --feedback "더 짧게" --grid`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := llmFromConfig(ctx)
		if err != nil {
			return err
		}
		return runRegenerate(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), client, RegenerateOptions{
			InPath:    regenerateIn,
			TargetID:  regenerateTarget,
			FocusArea: regenerateFocus,
			Feedback:  regenerateFeedback,
			OutPath:   regenerateOut,
			ShowGrid:  regenerateShowGrid,
			CellWidth: regenerateWidth,
		})
	},
}

func init() {
	regenerateCmd.Flags().StringVarP(&regenerateIn, "in", "i", "", "Plan JSON file to read (\"-\" for stdin, required)")
	regenerateCmd.Flags().StringVarP(&regenerateTarget, "target", "t", "", "Id of the sub-goal to rewrite (required)")
	regenerateCmd.Flags().StringVarP(&regenerateFocus, "focus", "f", string(domain.FocusBalanced), "Focus area the plan was generated with")
	regenerateCmd.Flags().StringVar(&regenerateFeedback, "feedback", "", "What to change about the block")
	regenerateCmd.Flags().StringVarP(&regenerateOut, "out", "o", "", "Write the plan JSON to this file instead of stdout")
	regenerateCmd.Flags().BoolVar(&regenerateShowGrid, "grid", false, "Print the 9x9 grid")
	regenerateCmd.Flags().IntVar(&regenerateWidth, "width", printer.DefaultCellWidth, "Grid cell width in columns")
	_ = regenerateCmd.MarkFlagRequired("in")
	_ = regenerateCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(regenerateCmd)
}

func runRegenerate(ctx context.Context, in io.Reader, out io.Writer, client domain.LLMClient, opts RegenerateOptions) error {
	focus, err := domain.ParseFocusArea(opts.FocusArea)
	if err != nil {
		return printer.Error("invalid focus area", err.Error(), []string{"Valid values: " + focusAreaList()})
	}

	doc, err := readDocument(opts.InPath, in)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return printer.Error("plan file not found", err.Error(), []string{"Create one with `mandalart generate --out FILE`"})
		}
		return reportFailure(board.OpRegenerate, err)
	}

	printer.Step("regenerating sub-goal %s\n", opts.TargetID)
	next, err := planner.NewService(client).RegenerateOne(ctx, doc, focus, opts.TargetID, opts.Feedback)
	if err != nil {
		return reportFailure(board.OpRegenerate, err)
	}

	return emit(out, next, opts.OutPath, opts.ShowGrid, opts.CellWidth)
}
