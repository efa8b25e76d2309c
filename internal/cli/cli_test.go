package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mandalart-agent/internal/adapters/llm"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/printer"
	"github.com/PabloGalante/mandalart-agent/internal/testutil"
)

func init() {
	color.NoColor = true
}

func writePlan(t *testing.T, doc *domain.PlanDocument) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(testutil.MustJSON(t, doc)), 0o644))
	return path
}

func TestRunGenerateToStdout(t *testing.T) {
	var out bytes.Buffer
	err := runGenerate(context.Background(), &out, llm.NewMockLLM(), GenerateOptions{
		MainGoal:  "학습 포트폴리오 완성",
		FocusArea: "learning",
	})
	require.NoError(t, err)

	var doc domain.PlanDocument
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "학습 포트폴리오 완성", doc.MainGoal)
	require.NoError(t, doc.Validate())
}

func TestRunGenerateToFileWithGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	var out bytes.Buffer
	err := runGenerate(context.Background(), &out, llm.NewMockLLM(), GenerateOptions{
		MainGoal:  "마라톤 완주",
		OutPath:   path,
		ShowGrid:  true,
		CellWidth: 8,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := decodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "마라톤 완주", doc.MainGoal)

	// only the grid went to stdout
	assert.Len(t, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"), 11)
	assert.NotContains(t, out.String(), "subGoals")
}

func TestRunGenerateInvalidFocus(t *testing.T) {
	err := runGenerate(context.Background(), &bytes.Buffer{}, llm.NewMockLLM(), GenerateOptions{
		MainGoal:  "목표",
		FocusArea: "gardening",
	})
	require.EqualError(t, err, "invalid focus area")
}

func TestRunGenerateRequestFailure(t *testing.T) {
	fake := testutil.NewScriptedLLM(testutil.Reply{Err: errors.New("connection refused")})

	var out bytes.Buffer
	err := runGenerate(context.Background(), &out, fake, GenerateOptions{MainGoal: "목표"})
	require.Error(t, err)
	assert.Equal(t, "만다라트를 생성하는 중 오류가 발생했습니다. 다시 시도해 주세요.", err.Error())
	assert.Empty(t, out.String())
}

func TestRunRegenerate(t *testing.T) {
	original := testutil.SampleDocument("목표")
	in := writePlan(t, original)
	outPath := filepath.Join(t.TempDir(), "next.json")

	err := runRegenerate(context.Background(), nil, &bytes.Buffer{}, llm.NewMockLLM(), RegenerateOptions{
		InPath:   in,
		TargetID: "sg-4",
		Feedback: "더 짧게",
		OutPath:  outPath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	next, err := decodeDocument(data)
	require.NoError(t, err)

	assert.NotEqual(t, original.SubGoals[3].Title, next.SubGoals[3].Title)
	for i := range original.SubGoals {
		if i != 3 {
			assert.Equal(t, original.SubGoals[i], next.SubGoals[i])
		}
	}
}

func TestRunRegenerateFromStdin(t *testing.T) {
	stdin := strings.NewReader(testutil.MustJSON(t, testutil.SampleDocument("목표")))

	var out bytes.Buffer
	err := runRegenerate(context.Background(), stdin, &out, llm.NewMockLLM(), RegenerateOptions{
		InPath:   "-",
		TargetID: "sg-1",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(v2)")
}

func TestRunRegenerateErrors(t *testing.T) {
	in := writePlan(t, testutil.SampleDocument("목표"))

	err := runRegenerate(context.Background(), nil, &bytes.Buffer{}, llm.NewMockLLM(), RegenerateOptions{
		InPath:   filepath.Join(t.TempDir(), "missing.json"),
		TargetID: "sg-1",
	})
	require.EqualError(t, err, "plan file not found")

	err = runRegenerate(context.Background(), nil, &bytes.Buffer{}, llm.NewMockLLM(), RegenerateOptions{
		InPath:   in,
		TargetID: "sg-99",
	})
	require.EqualError(t, err, "재생성할 중간목표를 찾을 수 없습니다.")

	broken := testutil.SampleDocument("목표")
	broken.SubGoals = broken.SubGoals[:7]
	err = runRegenerate(context.Background(), nil, &bytes.Buffer{}, llm.NewMockLLM(), RegenerateOptions{
		InPath:   writePlan(t, broken),
		TargetID: "sg-1",
	})
	require.EqualError(t, err, "invalid plan document")
}

func TestRunGrid(t *testing.T) {
	in := writePlan(t, testutil.SampleDocument("목표"))

	var out bytes.Buffer
	require.NoError(t, runGrid(nil, &out, in, printer.DefaultCellWidth, false))
	assert.Contains(t, out.String(), "목표0 행동0")

	// narrow cells are truncated, never wrapped
	out.Reset()
	require.NoError(t, runGrid(nil, &out, in, 10, false))
	assert.Contains(t, out.String(), "목표0 행…")
	assert.Len(t, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"), 11)

	out.Reset()
	require.NoError(t, runGrid(nil, &out, in, 10, true))
	assert.Contains(t, out.String(), "1. 중간목표 0 [sg-1]")
}

func TestRunValidate(t *testing.T) {
	require.NoError(t, runValidate(nil, writePlan(t, testutil.SampleDocument("목표"))))

	doc := testutil.SampleDocument("목표")
	doc.SubGoals[1].ID = doc.SubGoals[0].ID
	require.EqualError(t, runValidate(nil, writePlan(t, doc)), "invalid plan document")

	require.Error(t, runValidate(strings.NewReader("not json"), "-"))
}

func TestDecodeDocumentReportsInvalidInput(t *testing.T) {
	_, err := decodeDocument([]byte(`{"mainGoal":"목표"}`))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestRootRejectsMissingRequiredFlag(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"validate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "in" not set`)
}

func TestRootHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"generate", "regenerate", "grid", "validate", "serve"} {
		assert.True(t, names[want], "missing %s", want)
	}
}
