package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/app/planner"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/grid"
	"github.com/PabloGalante/mandalart-agent/internal/printer"
)

var (
	generateGoal     string
	generateFocus    string
	generateOut      string
	generateShowGrid bool
	generateWidth    int
)

// GenerateOptions holds the options for the generate command.
type GenerateOptions struct {
	MainGoal  string
	FocusArea string
	OutPath   string
	ShowGrid  bool
	CellWidth int
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a full 8x8 plan for a main goal",
	Long: `Generate asks the model for 8 sub-goals with 8 actions each and checks the
answer against the plan contract before writing it.

Focus areas: Balanced (default), business, health, learning, networking,
or their Korean labels.

Examples:
  mandalart generate --goal "학습 포트폴리오 완성" --focus learning --out plan.json
  mandalart generate --goal "마라톤 완주" --grid --mock`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := llmFromConfig(ctx)
		if err != nil {
			return err
		}
		return runGenerate(ctx, cmd.OutOrStdout(), client, GenerateOptions{
			MainGoal:  generateGoal,
			FocusArea: generateFocus,
			OutPath:   generateOut,
			ShowGrid:  generateShowGrid,
			CellWidth: generateWidth,
		})
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateGoal, "goal", "g", "", "Main goal of the plan (required)")
	generateCmd.Flags().StringVarP(&generateFocus, "focus", "f", string(domain.FocusBalanced), "Focus area")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the plan JSON to this file instead of stdout")
	generateCmd.Flags().BoolVar(&generateShowGrid, "grid", false, "Print the 9x9 grid")
	generateCmd.Flags().IntVar(&generateWidth, "width", printer.DefaultCellWidth, "Grid cell width in columns")
	_ = generateCmd.MarkFlagRequired("goal")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, out io.Writer, client domain.LLMClient, opts GenerateOptions) error {
	focus, err := domain.ParseFocusArea(opts.FocusArea)
	if err != nil {
		return printer.Error("invalid focus area", err.Error(), []string{"Valid values: " + focusAreaList()})
	}

	printer.Step("generating a plan for %q (%s)\n", opts.MainGoal, focus)
	doc, err := planner.NewService(client).Generate(ctx, opts.MainGoal, focus)
	if err != nil {
		return reportFailure(board.OpGenerate, err)
	}

	return emit(out, doc, opts.OutPath, opts.ShowGrid, opts.CellWidth)
}

// emit writes the document to a file or stdout and optionally prints the
// grid. With --grid and no --out only the grid goes to stdout.
func emit(out io.Writer, doc *domain.PlanDocument, path string, showGrid bool, width int) error {
	if path != "" || !showGrid {
		if err := writeDocument(out, path, doc); err != nil {
			return printer.Error("cannot write plan", err.Error(), nil)
		}
	}
	if path != "" {
		printer.Success("plan written to %s\n", path)
	}
	if showGrid {
		return printer.Grid(out, grid.Layout(doc), width)
	}
	return nil
}

func focusAreaList() string {
	names := make([]string, 0, len(domain.FocusAreas))
	for _, fa := range domain.FocusAreas {
		names = append(names, string(fa))
	}
	return strings.Join(names, ", ")
}
