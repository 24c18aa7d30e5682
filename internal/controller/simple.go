package controller

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "faultline.dev/pkg/faultline/internal/model"
)

var (
	passColor      = color.New(color.FgGreen).SprintFunc()
	incorrectColor = color.New(color.FgYellow).SprintFunc()
	exceptionColor = color.New(color.FgRed, color.Bold).SprintFunc()
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayRunInfo prints the run parameters.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, manifest m.RunManifest, plannedTrials int, workers int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Run %s against %s: %d trial(s) with %d worker(s) (Shard %d/%d), master seed %d\n",
		manifest.RunID, manifest.Target, plannedTrials, workers,
		manifest.ShardIndex, max(manifest.ShardCount, 1), manifest.MasterSeed)
}

// DisplayStartingTrial logs the trial at debug level; plain output stays one line per result.
func (s *SimpleUI) DisplayStartingTrial(ctx context.Context, specName string, seed uint32) {
	if err := ctx.Err(); err != nil {
		return
	}

	slog.Debug("Starting trial", "spec", specName, "seed", seed)
}

// DisplayCompletedTrial prints one line per finished trial.
func (s *SimpleUI) DisplayCompletedTrial(ctx context.Context, result m.TrialResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%-9s %s seed %d\n", colorOutcome(result.Outcome), result.SpecName, result.Seed)

	if result.ExceptionText != "" {
		s.printf("          %s\n", firstLine(result.ExceptionText))
	}
}

// DisplaySummary prints the per-spec outcome table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(summary))
}

// DisplayReproduction prints a reproduced trial and its hex diff.
func (s *SimpleUI) DisplayReproduction(ctx context.Context, reproduction m.Reproduction) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Reproduced %s seed %d -> %s\n", reproduction.SpecName, reproduction.Seed, colorOutcome(reproduction.Outcome))

	if reproduction.Input.IsNull() {
		s.printf("Mutated input: null\n")
	} else {
		s.printf("Mutated input (%d bytes): %s\n", reproduction.Input.Len(), reproduction.Input.Encode())
	}

	if reproduction.BaselineError != "" {
		s.printf("Baseline unavailable: %s\n", reproduction.BaselineError)
	}

	if reproduction.Outcome == m.OutcomeException {
		s.printf("Exception: %s\n", reproduction.ExceptionText)
	} else {
		s.printf("Output: %s (baseline %s)\n", m.RenderValue(reproduction.Output), m.RenderValue(reproduction.Baseline))
	}

	if reproduction.Path != "" {
		s.printf("Saved: %s\n", reproduction.Path)
	}

	if reproduction.Diff != "" {
		s.printf("%s\n", reproduction.Diff)
	}
}

// DisplaySpecs prints the spec catalog.
func (s *SimpleUI) DisplaySpecs(ctx context.Context, specs []m.InjectionSpec) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s", renderSpecsTable(specs))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func colorOutcome(outcome m.Outcome) string {
	switch outcome {
	case m.OutcomePass:
		return passColor(string(outcome))
	case m.OutcomeIncorrect:
		return incorrectColor(string(outcome))
	case m.OutcomeException:
		return exceptionColor(string(outcome))
	default:
		return string(outcome)
	}
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Spec", "Kind", "Total", "Pass", "Incorrect", "Exception"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for _, spec := range summary.Specs {
		table.Append([]string{
			spec.Name,
			spec.Kind,
			fmt.Sprintf("%d", spec.Total),
			fmt.Sprintf("%d", spec.Pass),
			fmt.Sprintf("%d", spec.Incorrect),
			fmt.Sprintf("%d", spec.Exception),
		})
	}

	totals := summary.Totals()
	table.SetFooter([]string{
		fmt.Sprintf("Total Specs %d", len(summary.Specs)),
		"",
		fmt.Sprintf("%d", totals.Total),
		fmt.Sprintf("%d", totals.Pass),
		fmt.Sprintf("%d", totals.Incorrect),
		fmt.Sprintf("%d", totals.Exception),
	})

	table.Render()

	return tableBuffer.String()
}

func renderSpecsTable(specs []m.InjectionSpec) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Name", "Kind", "Params"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, spec := range specs {
		table.Append([]string{spec.Name, string(spec.Kind), formatParams(spec.Params)})
	}

	table.Render()

	return tableBuffer.String()
}

func formatParams(params m.Params) string {
	if len(params) == 0 {
		return "-"
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, params[key]))
	}

	return strings.Join(parts, " ")
}
