// Package ui is the terminal front end: a grid of channel scopes fed by an
// audio source, with a per-channel context menu.
package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/oscilloview/internal/oscillo"
	"github.com/olivier-w/oscilloview/internal/scope"
	"github.com/olivier-w/oscilloview/internal/visualizer"
)

const (
	fps       = int(time.Second / scope.TickPeriod)
	seekStep  = 5 * time.Second
	fallbackW = 80
	fallbackH = 24
)

// Model is the Bubbletea model for the scope window.
type Model struct {
	view     *scope.View
	exchange *oscillo.Exchange
	source   Source
	gen      uint64

	meter  *visualizer.Meter
	traces *[oscillo.TrackCount]visualizer.Trace
	levels []float64

	selected   int
	width      int
	height     int
	paused     bool
	repeatMode RepeatMode
	menu       menu
	quitting   bool

	statusMsg     string    // transient status message
	statusMsgTime time.Time // when statusMsg was set
}

// New opens view and returns a model that drives it from source. The view is
// closed again when the model quits.
func New(view *scope.View, ex *oscillo.Exchange, source Source) (Model, error) {
	gen, err := view.Open(func() {
		st := ex.Stats()
		slog.Info("scope view closed",
			"published", st.Published, "dropped", st.Dropped,
			"consumed", st.Consumed, "missed", st.Missed)
	})
	if err != nil {
		return Model{}, err
	}
	slog.Info("scope view opened", "source", source.Title(), "generation", gen, "channels", view.Channels())

	return Model{
		view:     view,
		exchange: ex,
		source:   source,
		gen:      gen,
		meter:    visualizer.NewMeter(fps),
		traces:   new([oscillo.TrackCount]visualizer.Trace),
		levels:   make([]float64, oscillo.TrackCount),
		width:    fallbackW,
		height:   fallbackH,
		menu:     newMenu(),
	}, nil
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.gen), tea.SetWindowTitle(windowTitle(m.source.Title(), false))}
	if f, ok := m.source.(Finisher); ok {
		cmds = append(cmds, checkDone(f))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.view.Accept(msg.gen) {
			return m, nil
		}
		if m.view.Tick(msg.gen) {
			m.updateLevels()
		}
		// The meter keeps easing towards the last levels between snapshots.
		m.meter.Update(m.levels)
		m.paused = m.source.Paused()
		if m.statusMsg != "" && time.Since(m.statusMsgTime) > statusTimeout {
			m.statusMsg = ""
		}
		return m, tickCmd(msg.gen)

	case tea.KeyMsg:
		if m.menu.active() {
			if msg.String() == "ctrl+c" {
				return m.quit()
			}
			return m.updateMenu(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case playbackEndedMsg:
		f, ok := m.source.(Finisher)
		if ok && m.repeatMode == RepeatOne {
			if err := f.Restart(); err != nil {
				slog.Error("restart failed", "err", err)
				return m.quit()
			}
			return m, checkDone(f)
		}
		return m.quit()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.actions.SetWidth(min(menuWidth, msg.Width))
		m.menu.fonts.SetWidth(min(menuWidth, msg.Width))
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		return m.quit()
	}
	switch msg.String() {
	case " ":
		m.source.TogglePause()
		m.paused = m.source.Paused()
		return m, tea.SetWindowTitle(windowTitle(m.source.Title(), m.paused))
	case "up", "k":
		m.selected = max(m.selected-1, 0)
	case "down", "j":
		m.selected = min(m.selected+1, oscillo.TrackCount-1)
	case "left", "h":
		if m.selected >= gridRows {
			m.selected -= gridRows
		}
	case "right", "l":
		if m.selected+gridRows < oscillo.TrackCount {
			m.selected += gridRows
		}
	case "tab":
		m.selected = (m.selected + 1) % oscillo.TrackCount
	case "shift+tab":
		m.selected = (m.selected + oscillo.TrackCount - 1) % oscillo.TrackCount
	case "enter", "m":
		m.openMenu(m.selected)
	case "v":
		m.menu.channel = m.selected
		m = m.applied(actionVisible, m.view.Channel(m.selected).ToggleVisible())
	case "r":
		if _, ok := m.source.(Finisher); ok {
			m.repeatMode = m.repeatMode.Next()
		}
	case "[", "]":
		if s, ok := m.source.(Seeker); ok {
			delta := seekStep
			if msg.String() == "[" {
				delta = -delta
			}
			if err := s.Seek(delta); err != nil {
				slog.Warn("seek failed", "err", err)
				m = m.withStatus(fmt.Sprintf("seek: %v", err))
			}
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || m.menu.active() {
		return m, nil
	}
	i := m.layout().hit(msg.X, msg.Y)
	if i < 0 {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.selected = i
	case tea.MouseButtonRight:
		m.selected = i
		m.openMenu(i)
	}
	return m, nil
}

func (m *Model) openMenu(i int) {
	if ch := m.view.Channel(i); ch != nil {
		m.menu.open(ch)
	}
}

// updateLevels recomputes each visible channel's window peak.
func (m *Model) updateLevels() {
	clear(m.levels)
	for _, p := range m.view.Panels() {
		m.levels[p.Index] = p.Window.Peak()
	}
}

func (m Model) withStatus(s string) Model {
	m.statusMsg = s
	m.statusMsgTime = time.Now()
	return m
}

// quit closes the view before the source so no tick outlives the view.
func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	m.view.Close()
	if err := m.source.Close(); err != nil {
		slog.Warn("closing source", "err", err)
	}
	slog.Info("source closed", "source", m.source.Title())
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid(m.layout()))
	b.WriteString("\n")
	if m.menu.active() {
		b.WriteString(m.menu.View())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.statusMsg))
	b.WriteString("\n")
	_, canRepeat := m.source.(Finisher)
	_, canSeek := m.source.(Seeker)
	b.WriteString(helpStyle.Render(helpText(canRepeat, canSeek)))
	return b.String()
}

func (m Model) renderHeader() string {
	icon := "▶"
	if m.paused {
		icon = "❚❚"
	}
	parts := []string{
		headerStyle.Render("oscilloview"),
		titleStyle.Render(icon + " " + m.source.Title()),
		statusStyle.Render(m.source.Status()),
	}
	if r := m.repeatMode.Icon(); r != "" {
		parts = append(parts, statusStyle.Render(r))
	}
	return " " + strings.Join(parts, "  ")
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " - oscilloview"
	}
	return "▶ " + title + " - oscilloview"
}
