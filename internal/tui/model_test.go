package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cyclario/internal/core"
	"cyclario/internal/sims/cyclario"
)

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestStepAndReset(t *testing.T) {
	sess := cyclario.New()
	m := New(sess)

	m, _ = press(t, m, "n", "n")
	if sess.Tick() != 2 {
		t.Fatalf("tick = %d, want 2", sess.Tick())
	}
	m, _ = press(t, m, "r")
	if sess.Tick() != 0 || sess.Lattice() != cyclario.DefaultLattice() {
		t.Fatal("r must reset the session")
	}
	_ = m
}

// idleSession returns a session whose scheduler never fires on its own within a
// test, so only manual steps advance it.
func idleSession() *cyclario.Session {
	sess := cyclario.New()
	sess.SetDelay(time.Hour)
	return sess
}

func TestRunPause(t *testing.T) {
	sess := idleSession()
	m, cmd := press(t, New(sess), " ")
	if !m.Running() || cmd == nil {
		t.Fatal("space should start the scheduler and request a redraw")
	}
	m, _ = press(t, m, " ")
	if m.Running() {
		t.Fatal("second space should pause")
	}
	if _, cmd := m.Update(frameMsg{}); cmd != nil {
		t.Fatal("a paused model must not keep scheduling redraws")
	}
}

func TestStepStopsRunning(t *testing.T) {
	sess := idleSession()
	m, _ := press(t, New(sess), " ", "n")
	if m.Running() {
		t.Fatal("a manual step must stop continuous running")
	}
	if sess.Tick() != 1 {
		t.Fatalf("tick = %d, want exactly 1", sess.Tick())
	}
}

func TestSchedulerAdvancesWhileRunning(t *testing.T) {
	sess := cyclario.New()
	sess.SetDelay(time.Millisecond)
	m, _ := press(t, New(sess), " ")
	deadline := time.Now().Add(2 * time.Second)
	for sess.Tick() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler stalled at tick %d", sess.Tick())
		}
		time.Sleep(time.Millisecond)
	}
	m, _ = press(t, m, " ")
	stopped := sess.Tick()
	time.Sleep(10 * time.Millisecond)
	if sess.Tick() != stopped {
		t.Fatalf("ticks continued after pause: %d -> %d", stopped, sess.Tick())
	}
	_ = m
}

func TestEditCellsAndLayers(t *testing.T) {
	sess := cyclario.New()
	m, _ := press(t, New(sess), "down", "right", "]", "enter")
	l := sess.Lattice()
	if l[1][1][1] != cyclario.StateActive {
		t.Fatalf("cell (1,1,1) = %v, want active", l[1][1][1])
	}
	m, _ = press(t, m, "[", "[")
	if m.layer != cyclario.Depth-1 {
		t.Fatalf("layer should wrap to %d, got %d", cyclario.Depth-1, m.layer)
	}
}

func TestCursorWrapsAroundTheTorus(t *testing.T) {
	m, _ := press(t, New(idleSession()), "up", "left")
	if m.cursor != (core.Coord{Row: cyclario.Size - 1, Col: cyclario.Size - 1}) {
		t.Fatalf("cursor = %+v, want bottom-right corner", m.cursor)
	}
}

func TestKernelPresetAndPatternKeys(t *testing.T) {
	sess := idleSession()
	m, _ := press(t, New(sess), "k")
	if sess.Kernel()[0][0] != cyclario.GateThreshold {
		t.Fatalf("k should cycle kernel (0,0), got %v", sess.Kernel()[0][0])
	}
	m, _ = press(t, m, "p")
	if got := sess.PresetName(); got != "Cyclario Seed" {
		t.Fatalf("preset = %q, want Cyclario Seed", got)
	}

	m, _ = press(t, m, " ", "2")
	if m.Running() {
		t.Fatal("loading a pattern stops the run")
	}
	if sess.Lattice() != cyclario.SeedPattern([][]uint8{{1, 1}, {1, 1}}) {
		t.Fatal("2 should load default-1")
	}
}

func TestInterconnectKeys(t *testing.T) {
	sess := cyclario.New()
	m, _ := press(t, New(sess), "x")
	if sess.Interconnects().Any() {
		t.Fatal("row 0 carries no channel")
	}
	if !strings.Contains(m.status, "no rows channel") {
		t.Fatalf("status = %q", m.status)
	}
	m, _ = press(t, m, "down", "x", "right", "y")
	ic := sess.Interconnects()
	if !ic.RowEnabled(1) || !ic.ColEnabled(1) {
		t.Fatalf("interconnects = %+v", ic)
	}
	if !strings.Contains(m.View(), "CYCLARIO") {
		t.Fatal("view should render the header")
	}
}

func TestDelayKeysClamp(t *testing.T) {
	sess := cyclario.New()
	m := New(sess)
	for range 5 {
		m, _ = press(t, m, "-")
	}
	if sess.Delay() != minDelay {
		t.Fatalf("delay = %v, want %v", sess.Delay(), minDelay)
	}
	press(t, m, "+")
	if sess.Delay() != minDelay+delayStep {
		t.Fatalf("delay = %v", sess.Delay())
	}
	if m.sched.Delay() != sess.Delay() {
		t.Fatalf("scheduler delay = %v, want %v", m.sched.Delay(), sess.Delay())
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Fatalf("sparkline = %q", got)
	}
	if got := []rune(sparkline(make([]float64, 50), 10)); len(got) != 10 {
		t.Fatalf("sparkline width = %d", len(got))
	}
}
