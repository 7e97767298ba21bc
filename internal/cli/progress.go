package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/neuroc/pkg/observability"
)

// =============================================================================
// Messages
// =============================================================================

type batchStartMsg struct {
	op    string
	total int
}

type itemDoneMsg struct {
	item   string
	failed bool
}

type cacheHitMsg struct{}

type batchDoneMsg struct{}

type tickMsg time.Time

// =============================================================================
// progressModel - Live batch progress
// =============================================================================

// progressModel renders a one-line progress bar fed by the batch hooks.
type progressModel struct {
	op     string
	total  int
	done   int
	failed int
	cached int
	last   string
	frame  int
	width  int
}

func newProgressModel(op string) progressModel {
	return progressModel{op: op, width: 30}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchStartMsg:
		// rat-to-human runs one batch per group; totals accumulate.
		m.op = msg.op
		m.total += msg.total
	case itemDoneMsg:
		m.done++
		m.last = msg.item
		if msg.failed {
			m.failed++
		}
	case cacheHitMsg:
		m.cached++
	case tickMsg:
		m.frame++
		return m, tick()
	case batchDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	filled := 0
	if m.total > 0 {
		filled = min(m.width*m.done/m.total, m.width)
	}
	bar := StyleHighlight.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", m.width-filled))

	var b strings.Builder
	b.WriteString(styleIconSpinner.Render(frames[m.frame%len(frames)]))
	b.WriteString(" " + StyleTitle.Render(m.op) + " " + bar + " ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	if m.cached > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf(" · %d cached", m.cached)))
	}
	if m.failed > 0 {
		b.WriteString(" " + StyleWarning.Render(fmt.Sprintf("· %d failed", m.failed)))
	}
	if m.last != "" {
		b.WriteString(StyleDim.Render(" · " + path.Base(m.last)))
	}
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Hooks
// =============================================================================

// progressHooks forward batch and cache events to a running program.
type progressHooks struct {
	observability.NoopBatchHooks
	observability.NoopCacheHooks
	send func(tea.Msg)
}

func (h *progressHooks) OnBatchStart(_ context.Context, op, _ string, total int) {
	h.send(batchStartMsg{op: op, total: total})
}

func (h *progressHooks) OnItemComplete(_ context.Context, _, item string, _ time.Duration, err error) {
	h.send(itemDoneMsg{item: item, failed: err != nil})
}

func (h *progressHooks) OnCacheHit(context.Context, string) {
	h.send(cacheHitMsg{})
}

// =============================================================================
// Runner
// =============================================================================

// showProgress reports whether a live progress view should be drawn: stderr
// is a terminal and debug logs are not requested.
func (c *CLI) showProgress() bool {
	fd := os.Stderr.Fd()
	return (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && c.Logger.GetLevel() > log.DebugLevel
}

// withProgress runs fn while drawing a progress view on stderr. Warnings are
// muted during the run; failures are printed by the caller from the summary.
func (c *CLI) withProgress(ctx context.Context, op string, fn func(context.Context) error) error {
	if !c.showProgress() {
		return fn(ctx)
	}

	p := tea.NewProgram(newProgressModel(op),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)
	hooks := &progressHooks{send: p.Send}
	observability.SetBatchHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.ErrorLevel)
	defer c.Logger.SetLevel(level)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(ctx)
		p.Send(batchDoneMsg{})
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		c.Logger.Debug("progress view stopped", "err", err)
	}
	return <-errCh
}
