package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/oscilloview/internal/display"
	"github.com/olivier-w/oscilloview/internal/oscillo"
	"github.com/olivier-w/oscilloview/internal/scope"
	"github.com/olivier-w/oscilloview/internal/util"
)

// Panels are laid out column-major in gridRows rows: channel = col*gridRows + row.
const (
	gridRows     = 3
	minGridCols  = 3
	maxGridCols  = (oscillo.TrackCount + gridRows - 1) / gridRows
	headerHeight = 2
	footerHeight = 3
	minCellW     = 12
	minCellH     = 2
	maxMeterW    = 10
)

// gridColumns returns how many columns are needed to show every channel up
// to last.
func gridColumns(last int) int {
	cols := (last + gridRows) / gridRows
	return min(max(cols, minGridCols), maxGridCols)
}

type layout struct {
	cols  int
	cellW int
	cellH int
	top   int
}

func (m Model) layout() layout {
	cols := gridColumns(max(m.highestVisible(), m.selected))
	height := m.height - headerHeight - footerHeight
	if m.menu.active() {
		height -= menuHeight + 2
	}
	return layout{
		cols:  cols,
		cellW: max(m.width/cols, minCellW),
		cellH: max(height/gridRows, minCellH),
		top:   headerHeight,
	}
}

// hit returns the channel under terminal cell (x, y), or -1.
func (l layout) hit(x, y int) int {
	if x < 0 || y < l.top {
		return -1
	}
	col, row := x/l.cellW, (y-l.top)/l.cellH
	if col >= l.cols || row >= gridRows {
		return -1
	}
	if i := col*gridRows + row; i < oscillo.TrackCount {
		return i
	}
	return -1
}

func (m Model) highestVisible() int {
	last := -1
	for i := range m.view.Channels() {
		if m.view.Channel(i).Visible() {
			last = i
		}
	}
	return last
}

// styleOf returns a resource's lipgloss style, or fallback when the resource
// does not render as one.
func styleOf(r display.Resource, fallback lipgloss.Style) lipgloss.Style {
	if s, ok := r.(display.Styler); ok {
		return s.Style()
	}
	return fallback
}

func (m Model) renderGrid(lay layout) string {
	panels := make(map[int]scope.Panel)
	for _, p := range m.view.Panels() {
		panels[p.Index] = p
	}

	columns := make([]string, lay.cols)
	cells := make([]string, gridRows)
	for c := range lay.cols {
		for r := range gridRows {
			i := c*gridRows + r
			p, ok := panels[i]
			switch {
			case i >= oscillo.TrackCount:
				cells[r] = blankCell(lay.cellW, lay.cellH)
			case ok:
				cells[r] = m.renderPanel(p, lay.cellW, lay.cellH)
			default:
				cells[r] = m.renderHidden(i, lay.cellW, lay.cellH)
			}
		}
		columns[c] = lipgloss.JoinVertical(lipgloss.Left, cells...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) marker(i int) string {
	if i == m.selected {
		return "▸"
	}
	return " "
}

func (m Model) renderPanel(p scope.Panel, w, h int) string {
	brush := styleOf(p.Brush, lipgloss.NewStyle().Background(p.BackgroundColor.Lipgloss()))
	pen := styleOf(p.Pen, lipgloss.NewStyle().Foreground(p.LineColor.Lipgloss())).Inherit(brush)
	font := styleOf(p.Font, lipgloss.NewStyle()).Foreground(p.LabelColor.Lipgloss()).Inherit(brush)

	meterW := min(maxMeterW, w/3)
	label := util.Truncate(m.marker(p.Index)+p.Label, w-meterW-1)
	gap := max(w-meterW-lipgloss.Width(label), 0)

	lines := make([]string, 0, h)
	lines = append(lines, font.Render(label)+brush.Render(strings.Repeat(" ", gap))+m.meter.Bar(p.Index, meterW))
	for _, row := range m.traces[p.Index].Render(p.Window, w, h-1) {
		lines = append(lines, pen.Render(row))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHidden(i, w, h int) string {
	label := m.marker(i) + m.view.Channel(i).Label() + " (hidden)"
	lines := []string{hiddenStyle.Width(w).Render(util.Truncate(label, w))}
	for range h - 1 {
		lines = append(lines, strings.Repeat(" ", w))
	}
	return strings.Join(lines, "\n")
}

func blankCell(w, h int) string {
	lines := make([]string, h)
	for i := range lines {
		lines[i] = strings.Repeat(" ", w)
	}
	return strings.Join(lines, "\n")
}
