package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "faultline.dev/pkg/faultline/internal/model"
)

// maxRecentFailures caps the failures listed under the progress bar.
const maxRecentFailures = 5

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	model := newRunModel(newStartConfig(options))

	if f, ok := t.output.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
		}
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithContext(ctx))
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("TUI program stopped", "error", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

// Close stops the program and waits for it to restore the terminal.
func (t *TUI) Close(ctx context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// DisplayRunInfo shows the run parameters in the header.
func (t *TUI) DisplayRunInfo(ctx context.Context, manifest m.RunManifest, plannedTrials int, workers int) {
	if ctx.Err() != nil {
		return
	}

	t.send(runInfoMsg{manifest: manifest, planned: plannedTrials, workers: workers})
}

// DisplayStartingTrial updates the trial in flight.
func (t *TUI) DisplayStartingTrial(ctx context.Context, specName string, seed uint32) {
	if ctx.Err() != nil {
		return
	}

	t.send(trialStartedMsg{spec: specName, seed: seed})
}

// DisplayCompletedTrial advances the progress bar.
func (t *TUI) DisplayCompletedTrial(ctx context.Context, result m.TrialResult) {
	if ctx.Err() != nil {
		return
	}

	t.send(trialCompletedMsg{result: result})
}

// DisplaySummary shows the outcome table, inside the program when one is running.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if ctx.Err() != nil {
		return
	}

	if !t.send(summaryMsg{summary: summary}) {
		t.printf("%s", renderSummaryTable(summary))
	}
}

// DisplayReproduction renders a reproduced trial as styled text.
func (t *TUI) DisplayReproduction(ctx context.Context, reproduction m.Reproduction) {
	if ctx.Err() != nil {
		return
	}

	t.printf("%s\n", renderReproduction(reproduction))
}

// DisplaySpecs renders the spec catalog as styled text.
func (t *TUI) DisplaySpecs(ctx context.Context, specs []m.InjectionSpec) {
	if ctx.Err() != nil {
		return
	}

	title := titleStyle.Render(fmt.Sprintf("Fault catalog (%d specs)", len(specs)))
	t.printf("%s\n\n%s", title, renderSpecsTable(specs))
}

func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

func (t *TUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.output, format, args...)
}

var (
	accentColor  = lipgloss.Color("6")
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(accentColor)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	outcomeStyle = map[m.Outcome]lipgloss.Style{
		m.OutcomePass:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		m.OutcomeIncorrect: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		m.OutcomeException: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func styleOutcome(outcome m.Outcome) string {
	style, ok := outcomeStyle[outcome]
	if !ok {
		return string(outcome)
	}

	return style.Render(string(outcome))
}

func renderReproduction(reproduction m.Reproduction) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Reproduction of %s, seed %d", reproduction.SpecName, reproduction.Seed)),
		fmt.Sprintf("Outcome: %s", styleOutcome(reproduction.Outcome)),
	}

	if reproduction.Input.IsNull() {
		lines = append(lines, "Mutated input: null")
	} else {
		lines = append(lines, fmt.Sprintf("Mutated input: %s", accentStyle.Render(reproduction.Input.Encode())))
	}

	if reproduction.BaselineError != "" {
		lines = append(lines, fmt.Sprintf("Baseline unavailable: %s", reproduction.BaselineError))
	}

	if reproduction.Outcome == m.OutcomeException {
		lines = append(lines, fmt.Sprintf("Exception: %s", reproduction.ExceptionText))
	} else {
		lines = append(lines, fmt.Sprintf("Output: %s (baseline %s)",
			m.RenderValue(reproduction.Output), m.RenderValue(reproduction.Baseline)))
	}

	if reproduction.Path != "" {
		lines = append(lines, fmt.Sprintf("Saved: %s", reproduction.Path))
	}

	if reproduction.Diff != "" {
		lines = append(lines, "", reproduction.Diff)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type runInfoMsg struct {
	manifest m.RunManifest
	planned  int
	workers  int
}

type trialStartedMsg struct {
	spec string
	seed uint32
}

type trialCompletedMsg struct {
	result m.TrialResult
}

type summaryMsg struct {
	summary m.Summary
}

type tickMsg time.Time

// runModel renders trial progress and, once available, the summary table.
type runModel struct {
	mode        StartMode
	width       int
	progressBar progress.Model
	manifest    m.RunManifest
	total       int
	workers     int
	completed   int
	counts      map[m.Outcome]int
	current     string
	failures    []m.TrialResult
	summary     *m.Summary
	quitting    bool
}

func newRunModel(config StartConfig) runModel {
	return runModel{
		mode:  config.mode,
		total: config.total,
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		counts: make(map[m.Outcome]int, len(m.Outcomes)),
	}
}

func (rm runModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			rm.quitting = true
			return rm, tea.Quit
		}

	case tickMsg:
		return rm, tick()

	case runInfoMsg:
		rm.manifest = msg.manifest
		rm.total = msg.planned
		rm.workers = msg.workers

	case trialStartedMsg:
		rm.current = fmt.Sprintf("%s seed %d", msg.spec, msg.seed)

	case trialCompletedMsg:
		rm.completed++
		rm.counts[msg.result.Outcome]++

		if msg.result.Outcome != m.OutcomePass {
			rm.failures = append(rm.failures, msg.result)
			if len(rm.failures) > maxRecentFailures {
				rm.failures = rm.failures[len(rm.failures)-maxRecentFailures:]
			}
		}

	case summaryMsg:
		summary := msg.summary
		rm.summary = &summary
		rm.current = ""
	}

	return rm, nil
}

func (rm runModel) percent() float64 {
	if rm.total <= 0 {
		return 1
	}

	return float64(rm.completed) / float64(rm.total)
}

func (rm runModel) View() string {
	if rm.quitting {
		return ""
	}

	sections := []string{titleStyle.Padding(1, 0, 0, 2).Render("Faultline fault injection")}

	if rm.manifest.RunID != "" {
		sections = append(sections, footerStyle.Padding(0, 2).Render(fmt.Sprintf(
			"Run %s  Target %s  Master seed %d",
			rm.manifest.RunID, rm.manifest.Target, rm.manifest.MasterSeed,
		)))
	}

	if rm.mode == ModeRun {
		sections = append(sections,
			lipgloss.NewStyle().Padding(0, 0, 1, 2).Render(fmt.Sprintf(
				"Progress: %s / %s  Workers: %s  Pass: %s  Incorrect: %s  Exception: %s",
				accentStyle.Render(fmt.Sprintf("%d", rm.completed)),
				accentStyle.Render(fmt.Sprintf("%d", rm.total)),
				accentStyle.Render(fmt.Sprintf("%d", max(rm.workers, 1))),
				outcomeStyle[m.OutcomePass].Render(fmt.Sprintf("%d", rm.counts[m.OutcomePass])),
				outcomeStyle[m.OutcomeIncorrect].Render(fmt.Sprintf("%d", rm.counts[m.OutcomeIncorrect])),
				outcomeStyle[m.OutcomeException].Render(fmt.Sprintf("%d", rm.counts[m.OutcomeException])),
			)),
			lipgloss.NewStyle().Padding(0, 2).Render(rm.progressBar.ViewAs(rm.percent())),
		)

		if rm.current != "" {
			sections = append(sections, lipgloss.NewStyle().Padding(1, 2, 0, 2).Render("Running "+rm.current))
		}

		if len(rm.failures) > 0 {
			sections = append(sections, rm.renderFailures())
		}
	}

	if rm.summary != nil {
		sections = append(sections, lipgloss.NewStyle().Padding(1, 2).Render(renderSummaryTable(*rm.summary)))
	}

	sections = append(sections, footerStyle.Padding(0, 2).Render("Press q to quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (rm runModel) renderFailures() string {
	lines := make([]string, 0, len(rm.failures))
	for _, failure := range rm.failures {
		line := fmt.Sprintf("%s %s seed %d", styleOutcome(failure.Outcome), failure.SpecName, failure.Seed)
		if failure.ExceptionText != "" {
			line += ": " + firstLine(failure.ExceptionText)
		}

		lines = append(lines, line)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 0, 1)

	if rm.width > 8 {
		box = box.Width(rm.width - 4)
	}

	return box.Render(strings.Join(lines, "\n"))
}
