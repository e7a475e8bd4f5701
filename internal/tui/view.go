package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cyclario/internal/sims/cyclario"
	"cyclario/pkg/spectral"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00f0ff"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#334155")).Padding(0, 1)
	busStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d946ef"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.gridView(), m.kernelView())
	right := lipgloss.JoinVertical(lipgloss.Left, m.metricsView(), m.seriesView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), panelStyle.Render(right))

	run := "paused"
	if m.Running() {
		run = "running"
	}
	header := titleStyle.Render("CYCLARIO") + labelStyle.Render(fmt.Sprintf("  tick %d  %s  delay %s  preset %s",
		m.sess.Tick(), run, m.sess.Delay(), m.sess.PresetName()))
	help := labelStyle.Render("space run  n step  r reset  c clear  arrows/enter edit  [ ] layer  k/K kernel  p preset  1-7 pattern  g generate  x/y channel  m metric  +/- delay  q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusStyle.Render(m.status), help)
}

func (m Model) gridView() string {
	l := m.sess.Lattice()
	face := m.sess.Face()
	links := m.sess.Interconnects()
	pal := cyclario.Palette()

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("layer %d", m.layer)) + "\n")
	for i := 0; i < cyclario.Size; i++ {
		for j := 0; j < cyclario.Size; j++ {
			st := l[i][j][m.layer]
			glyph := "··"
			switch st {
			case cyclario.StateActive:
				glyph = "██"
			case cyclario.StateRefractory1, cyclario.StateRefractory2:
				glyph = "▒▒"
			default:
				if links.RowEnabled(i) || links.ColEnabled(j) {
					glyph = busStyle.Render("──")
					if links.ColEnabled(j) && !links.RowEnabled(i) {
						glyph = busStyle.Render("││")
					}
				}
			}
			style := lipgloss.NewStyle().Foreground(hex(pal[cyclario.EncodeDisplay(face[i][j], st)]))
			if i == m.cursor.Row && j == m.cursor.Col {
				style = style.Inherit(cursorStyle)
			}
			b.WriteString(style.Render(glyph))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) kernelView() string {
	k := m.sess.Kernel()
	var b strings.Builder
	b.WriteString(labelStyle.Render("kernel") + "\n")
	for i := range k {
		for j, g := range k[i] {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(lipgloss.NewStyle().Foreground(hex(cyclario.GateColor(g))).Render(fmt.Sprintf("%-9s", g)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) metricsView() string {
	mt := m.sess.Metrics()
	var b strings.Builder
	for i, key := range cyclario.MetricKeys {
		v, _ := mt.Value(key)
		line := fmt.Sprintf("%-18s %9.4f", key, v)
		if i == m.metric {
			line = titleStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(fmt.Sprintf("  %-18s %9d\n", "active_cells", mt.ActiveCells))
	return b.String()
}

func (m Model) seriesView() string {
	key := cyclario.MetricKeys[m.metric]
	series := m.sess.Series(key)
	mags := spectral.Spectrum(series)

	var b strings.Builder
	b.WriteString(labelStyle.Render(string(key)) + "\n")
	b.WriteString(sparkline(series, 40) + "\n")
	if len(mags) > 1 {
		peak := 1
		for i := 2; i < len(mags); i++ {
			if mags[i] > mags[peak] {
				peak = i
			}
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("spectrum %d bins, peak bin %d (%.2f)", len(mags), peak, mags[peak])) + "\n")
		b.WriteString(sparkline(mags, 40) + "\n")
	}
	return b.String()
}

// sparkline renders the last width samples as block glyphs.
func sparkline(values []float64, width int) string {
	if len(values) > width {
		values = values[len(values)-width:]
	}
	norm := cyclario.NormalizeSeries(values)
	out := make([]rune, len(norm))
	top := float64(len(sparkBlocks) - 1)
	for i, v := range norm {
		out[i] = sparkBlocks[int(math.Round(v*top))]
	}
	return string(out)
}
