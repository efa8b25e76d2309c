package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/app/planner"
	"github.com/PabloGalante/mandalart-agent/internal/bootstrap"
	"github.com/PabloGalante/mandalart-agent/internal/config"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/printer"
)

// newLLMClient is replaced in tests.
var newLLMClient = bootstrap.NewLLMClient

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("MANDALART_CONFIG_FILE")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, printer.Error("invalid configuration", err.Error(), []string{
			"Set MANDALART_GEMINI_API_KEY or MANDALART_GCP_PROJECT",
			"Run with --mock to use the offline generator",
		})
	}
	if forceMock {
		cfg.UseMockLLM = true
	}
	if cfg.UseMockLLM {
		printer.Warning("using the offline mock generator, plans are placeholders\n")
	}
	return cfg, nil
}

func llmFromConfig(ctx context.Context) (domain.LLMClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, printer.Error("cannot reach the generator", err.Error(), []string{
			"Check your Gemini credentials",
			"Run with --mock to use the offline generator",
		})
	}
	return client, nil
}

// readDocument loads a plan document from path ("-" reads stdin) and checks
// it against the data contract.
func readDocument(path string, stdin io.Reader) (*domain.PlanDocument, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decodeDocument(data)
}

// decodeDocument applies the same checks as a model response, but reports
// failures as invalid input.
func decodeDocument(data []byte) (*domain.PlanDocument, error) {
	doc, err := planner.DecodePlan(string(data))
	if err == nil {
		return doc, nil
	}
	var mre *domain.MalformedResponseError
	if !errors.As(err, &mre) {
		return nil, err
	}
	if mre.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, mre.Reason, mre.Err)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, mre.Reason)
}

// writeDocument writes doc as indented JSON to path, or to w when path is "".
func writeDocument(w io.Writer, path string, doc *domain.PlanDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// reportFailure prints a generation error the way the board shows it and
// returns a short error for cobra.
func reportFailure(op board.Op, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidInput) && errors.As(err, &ve):
		return printer.ErrorList("invalid plan document", ve.Problems)
	case errors.Is(err, domain.ErrInvalidInput):
		return printer.Error("invalid input", err.Error(), nil)
	case errors.Is(err, domain.ErrSubGoalNotFound):
		return printer.Error(board.UserMessage(op, err), err.Error(), []string{"Run `mandalart grid --in FILE` to see the sub-goal ids"})
	case errors.Is(err, domain.ErrRequestFailed):
		return printer.Error(board.UserMessage(op, err), err.Error(), []string{
			"Check your network and Gemini credentials",
			"Run with --mock to use the offline generator",
		})
	default:
		return printer.Error(board.UserMessage(op, err), err.Error(), nil)
	}
}
