// Package tui is the terminal viewer and controller for a cyclario session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cyclario/internal/core"
	"cyclario/internal/sims/cyclario"
)

const (
	delayStep = 10 * time.Millisecond
	minDelay  = 10 * time.Millisecond
	maxDelay  = 2 * time.Second

	generatedDensity = 0.4
)

// frameInterval is how often the view refreshes while the scheduler runs.
const frameInterval = 50 * time.Millisecond

type frameMsg struct{}

// Model is the bubbletea model. Ticks come from a core.Scheduler on its own
// goroutine; the model only redraws while it runs.
type Model struct {
	sess  *cyclario.Session
	sched *core.Scheduler

	cursor   core.Coord
	layer    int
	metric   int
	preset   int
	status   string
	quitting bool
}

// New returns a paused model over sess.
func New(sess *cyclario.Session) Model {
	return Model{
		sess:   sess,
		sched:  core.NewScheduler(sess.Delay(), sess.Step),
		status: "paused",
	}
}

// Run starts the program and blocks until the user quits. Session logs are
// discarded while the program owns the terminal.
func Run(sess *cyclario.Session, opts ...tea.ProgramOption) error {
	sess.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer sess.SetLogger(slog.Default())
	m := New(sess)
	defer m.sched.Stop()
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Running reports whether the scheduler is ticking.
func (m Model) Running() bool { return m.sched.Running() }

func (m Model) frame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) stop() { m.sched.Stop() }

func (m *Model) setDelay(d time.Duration) {
	d = clampDelay(d)
	m.sess.SetDelay(d)
	m.sched.SetDelay(d)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.sched.Running() {
			return m, nil
		}
		return m, m.frame()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		m.stop()
		m.quitting = true
		return m, tea.Quit
	case " ":
		if m.sched.Running() {
			m.stop()
			m.status = "paused"
			return m, nil
		}
		m.sched.SetDelay(m.sess.Delay())
		m.sched.Start(context.Background())
		m.status = "running"
		return m, m.frame()
	case "n":
		m.sched.StepOnce()
		m.status = fmt.Sprintf("stepped to tick %d", m.sess.Tick())
	case "r":
		m.stop()
		m.sess.Reset(0)
		m.status = "reset"
	case "c":
		m.sess.Clear()
		m.status = "cleared"
	case "up":
		m.moveCursor(-1, 0)
	case "down":
		m.moveCursor(1, 0)
	case "left":
		m.moveCursor(0, -1)
	case "right":
		m.moveCursor(0, 1)
	case "enter":
		st, err := m.sess.ToggleCell(m.cursor.Row, m.cursor.Col, m.layer)
		m.report(err, fmt.Sprintf("cell (%d,%d,%d) -> %s", m.cursor.Row, m.cursor.Col, m.layer, st))
	case "[":
		m.layer = core.Wrap(m.layer-1, cyclario.Depth)
	case "]":
		m.layer = core.Wrap(m.layer+1, cyclario.Depth)
	case "k", "K":
		r, c := m.cursor.Row%cyclario.KernelSize, m.cursor.Col%cyclario.KernelSize
		g, err := m.sess.CycleKernelCell(r, c, key == "K")
		m.report(err, fmt.Sprintf("kernel (%d,%d) -> %s", r, c, g))
	case "p":
		presets := m.sess.Presets()
		m.preset = (m.preset + 1) % len(presets)
		name := presets[m.preset].Name
		err := m.sess.LoadPreset(name)
		if errors.Is(err, cyclario.ErrInvalidPreset) {
			m.status = fmt.Sprintf("preset %q rejected, using %s", name, cyclario.StandardPresetName)
			break
		}
		m.report(err, "preset "+name)
	case "1", "2", "3", "4", "5", "6", "7":
		m.stop()
		id := fmt.Sprintf("default-%d", int(key[0]-'1'))
		m.report(m.sess.LoadPattern(id), "pattern "+id)
	case "g":
		m.stop()
		m.sess.ApplyGenerated(generatedDensity)
		m.status = "generated pattern"
	case "x", "y":
		axis := cyclario.AxisRows
		idx := m.cursor.Row
		if key == "y" {
			axis, idx = cyclario.AxisCols, m.cursor.Col
		}
		pos, ok := cyclario.ChannelPosition(idx)
		if !ok {
			m.status = fmt.Sprintf("no %s channel at %d", axis, idx)
			break
		}
		m.report(m.sess.ToggleInterconnect(axis, pos), fmt.Sprintf("%s channel %d toggled", axis, idx))
	case "m":
		m.metric = (m.metric + 1) % len(cyclario.MetricKeys)
	case "+", "=":
		m.setDelay(m.sess.Delay() + delayStep)
	case "-", "_":
		m.setDelay(m.sess.Delay() - delayStep)
	}
	return m, nil
}

func (m *Model) moveCursor(dr, dc int) {
	m.cursor = core.WrapCoord(core.Coord{Row: m.cursor.Row + dr, Col: m.cursor.Col + dc}, cyclario.Size)
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ok
}

func clampDelay(d time.Duration) time.Duration {
	return max(minDelay, min(maxDelay, d))
}
