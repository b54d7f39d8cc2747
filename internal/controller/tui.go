package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/sharach/XPS-data-analysis-program/internal/model"
)

// maxInlineLines is the tallest report printed without the pager.
const maxInlineLines = 40

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	noteStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// TUI implements UI using Bubble Tea for long reports.
type TUI struct {
	output io.Writer
	mode   StartMode
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start applies the start options.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := StartConfig{mode: ModeRun}
	for _, option := range options {
		option(&config)
	}

	t.mode = config.mode

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close(_ context.Context) {}

// Wait is a no-op: the pager blocks inside the Display calls.
func (t *TUI) Wait(_ context.Context) {}

// DisplayRunInfo prints the run parameters.
func (t *TUI) DisplayRunInfo(ctx context.Context, info RunInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintln(t.output, titleStyle.Render(fmt.Sprintf("xpsplot: %d scan file(s) in %s", info.Files, info.Folder)))
	_, _ = fmt.Fprintln(t.output, noteStyle.Render(fmt.Sprintf(
		"threshold %g · photon energy %g eV · output %s · %d worker(s)",
		info.Threshold, info.PhotonEnergy, info.Mode, info.Threads,
	)))
}

// DisplayFileProgress prints which file is being processed.
func (t *TUI) DisplayFileProgress(ctx context.Context, filename string) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintln(t.output, noteStyle.Render("  reading "+filename))
}

// DisplayRunResult shows the run report, paging it when it is long.
func (t *TUI) DisplayRunResult(ctx context.Context, result m.RunResult, written []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString("\n" + renderRunTable(result) + "\n")

	for _, note := range runNotes(result) {
		b.WriteString(warnStyle.Render(note) + "\n")
	}

	if len(written) > 0 {
		fmt.Fprintf(&b, "\nWrote %d report file(s):\n", len(written))

		for _, path := range written {
			b.WriteString("  " + pathStyle.Render(string(path)) + "\n")
		}
	}

	return t.show(b.String())
}

// DisplayInspection shows the per-file statistics table.
func (t *TUI) DisplayInspection(ctx context.Context, inspections []m.FileInspection, threshold float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(inspections) == 0 {
		_, err := fmt.Fprintln(t.output, warnStyle.Render("No scan files found"))
		return err
	}

	return t.show("\n" + renderInspectionTable(inspections, threshold))
}

// pagerTitle names the report shown by the pager for the started mode.
func (t *TUI) pagerTitle() string {
	if t.mode == ModeInspect {
		return "Sweep statistics"
	}

	return "Run results"
}

func (t *TUI) show(content string) error {
	if lipgloss.Height(content) <= maxInlineLines {
		_, err := fmt.Fprint(t.output, content)
		return err
	}

	program := tea.NewProgram(newPagerModel(t.pagerTitle(), content), tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// pagerModel is a scrollable view over a rendered report.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{title: title, content: content}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - pm.chromeHeight()
		if height < 1 {
			height = 1
		}

		if !pm.ready {
			pm.viewport = viewport.New(msg.Width, height)
			pm.viewport.SetContent(pm.content)
			pm.ready = true
		} else {
			pm.viewport.Width = msg.Width
			pm.viewport.Height = height
		}

		return pm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			pm.quitting = true
			return pm, tea.Quit
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

// chromeHeight is the number of lines taken by header and footer.
func (pm pagerModel) chromeHeight() int {
	return lipgloss.Height(pm.headerView()) + lipgloss.Height(pm.footerView())
}

func (pm pagerModel) headerView() string {
	return titleStyle.Render(pm.title) + "\n"
}

func (pm pagerModel) footerView() string {
	percent := 0.0
	if pm.ready {
		percent = pm.viewport.ScrollPercent() * 100
	}

	return noteStyle.Render(fmt.Sprintf("%3.f%% · ↑/↓ scroll · q quit", percent))
}

func (pm pagerModel) View() string {
	if pm.quitting {
		return ""
	}

	if !pm.ready {
		return "\n  Loading..."
	}

	return pm.headerView() + pm.viewport.View() + "\n" + pm.footerView()
}
