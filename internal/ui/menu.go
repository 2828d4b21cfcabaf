package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/oscilloview/internal/display"
)

type menuMode int

const (
	menuClosed menuMode = iota
	menuActions
	menuPrompt
	menuFonts
)

const (
	menuWidth  = 36
	menuHeight = 10
)

type action int

const (
	actionVisible action = iota
	actionLineColor
	actionBackground
	actionRename
	actionLabelColor
	actionFont
)

type actionItem struct {
	act   action
	title string
	desc  string
}

func (i actionItem) Title() string       { return i.title }
func (i actionItem) Description() string { return i.desc }
func (i actionItem) FilterValue() string { return i.title }

type fontItem struct {
	font display.Font
}

func (i fontItem) Title() string       { return i.font.String() }
func (i fontItem) Description() string { return "" }
func (i fontItem) FilterValue() string { return i.font.String() }

var fontChoices = []display.Font{
	display.DefaultFont(),
	{Family: "Segoe UI", Size: 13, Weight: display.WeightBold},
	{Family: "Segoe UI", Size: 13, Weight: display.WeightLight},
	{Family: "Segoe UI", Size: 13, Weight: display.WeightNormal, Italic: true},
	{Family: "Segoe UI", Size: 13, Weight: display.WeightBold, Italic: true},
	{Family: "Consolas", Size: 12, Weight: display.WeightNormal},
}

// menu is the per-channel context menu and its follow-up prompts.
type menu struct {
	mode    menuMode
	channel int
	pending action
	actions list.Model
	fonts   list.Model
	input   textinput.Model
}

func newMenuList(items []list.Item, showDesc bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = showDesc
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, menuWidth, menuHeight)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = headerStyle
	return l
}

func newMenu() menu {
	fonts := make([]list.Item, len(fontChoices))
	for i, f := range fontChoices {
		fonts[i] = fontItem{font: f}
	}
	ti := textinput.New()
	ti.Width = menuWidth - 4

	return menu{
		actions: newMenuList(nil, true),
		fonts:   newMenuList(fonts, false),
		input:   ti,
	}
}

func (mn menu) active() bool { return mn.mode != menuClosed }

// open shows the actions for ch, describing its current settings.
func (mn *menu) open(ch *display.Channel) {
	visible := "shown"
	if !ch.Visible() {
		visible = "hidden"
	}
	mn.actions.SetItems([]list.Item{
		actionItem{actionVisible, "Visible", visible},
		actionItem{actionLineColor, "Line Color…", ch.LineColor().Hex()},
		actionItem{actionBackground, "Background Color…", ch.BackgroundColor().Hex()},
		actionItem{actionRename, "Rename…", ch.Label()},
		actionItem{actionLabelColor, "Name Color…", ch.LabelColor().Hex()},
		actionItem{actionFont, "Name Font…", ch.LabelFont().String()},
	})
	mn.actions.Title = ch.Label()
	mn.actions.Select(0)
	mn.channel = ch.Index()
	mn.mode = menuActions
}

func (mn *menu) close() {
	mn.mode = menuClosed
	mn.input.Blur()
	mn.input.Reset()
}

// prompt asks for a new value for act, prefilled with the current one.
func (mn *menu) prompt(act action, ch *display.Channel) tea.Cmd {
	mn.pending = act
	mn.input.Reset()
	mn.input.CharLimit = 7
	switch act {
	case actionLineColor:
		mn.input.Prompt = "Line color: "
		mn.input.SetValue(ch.LineColor().Hex())
	case actionBackground:
		mn.input.Prompt = "Background: "
		mn.input.SetValue(ch.BackgroundColor().Hex())
	case actionLabelColor:
		mn.input.Prompt = "Name color: "
		mn.input.SetValue(ch.LabelColor().Hex())
	case actionRename:
		mn.input.Prompt = "Name: "
		mn.input.CharLimit = display.LabelLimit
		mn.input.SetValue(ch.Label())
	}
	mn.mode = menuPrompt
	return tea.Batch(mn.input.Focus(), textinput.Blink)
}

func (mn *menu) chooseFont(ch *display.Channel) {
	mn.fonts.Title = "Name font"
	for i, f := range fontChoices {
		if f == ch.LabelFont() {
			mn.fonts.Select(i)
		}
	}
	mn.mode = menuFonts
}

func (mn menu) View() string {
	var body string
	switch mn.mode {
	case menuActions:
		body = mn.actions.View()
	case menuFonts:
		body = mn.fonts.View()
	case menuPrompt:
		body = mn.input.View()
	default:
		return ""
	}
	body += "\n" + helpStyle.Render(menuHelpText(mn.mode == menuPrompt))
	return menuStyle.Render(body)
}

// applyPrompt stores the prompt's value on ch.
func applyPrompt(act action, ch *display.Channel, value string) error {
	value = strings.TrimSpace(value)
	if act == actionRename {
		return ch.SetLabel(value)
	}
	col, err := display.ParseColor(value)
	if err != nil {
		return err
	}
	switch act {
	case actionLineColor:
		return ch.SetLineColor(col)
	case actionBackground:
		return ch.SetBackgroundColor(col)
	case actionLabelColor:
		return ch.SetLabelColor(col)
	}
	return fmt.Errorf("unknown action %d", act)
}

func (a action) String() string {
	switch a {
	case actionVisible:
		return "visibility"
	case actionLineColor:
		return "line color"
	case actionBackground:
		return "background color"
	case actionRename:
		return "name"
	case actionLabelColor:
		return "name color"
	case actionFont:
		return "name font"
	}
	return "setting"
}

// updateMenu routes input to the open menu.
func (m Model) updateMenu(msg tea.KeyMsg) (Model, tea.Cmd) {
	ch := m.view.Channel(m.menu.channel)
	if ch == nil {
		m.menu.close()
		return m, nil
	}

	switch m.menu.mode {
	case menuActions:
		switch msg.String() {
		case "esc", "q":
			m.menu.close()
			return m, nil
		case "enter":
			item, ok := m.menu.actions.SelectedItem().(actionItem)
			if !ok {
				return m, nil
			}
			switch item.act {
			case actionVisible:
				m = m.applied(item.act, ch.ToggleVisible())
				m.menu.close()
				return m, nil
			case actionFont:
				m.menu.chooseFont(ch)
				return m, nil
			default:
				return m, m.menu.prompt(item.act, ch)
			}
		}
		var cmd tea.Cmd
		m.menu.actions, cmd = m.menu.actions.Update(msg)
		return m, cmd

	case menuFonts:
		switch msg.String() {
		case "esc":
			m.menu.open(ch)
			return m, nil
		case "enter":
			if item, ok := m.menu.fonts.SelectedItem().(fontItem); ok {
				m = m.applied(actionFont, ch.SetFont(item.font))
			}
			m.menu.close()
			return m, nil
		}
		var cmd tea.Cmd
		m.menu.fonts, cmd = m.menu.fonts.Update(msg)
		return m, cmd

	case menuPrompt:
		switch msg.String() {
		case "esc":
			m.menu.input.Blur()
			m.menu.open(ch)
			return m, nil
		case "enter":
			m = m.applied(m.menu.pending, applyPrompt(m.menu.pending, ch, m.menu.input.Value()))
			m.menu.close()
			return m, nil
		}
		var cmd tea.Cmd
		m.menu.input, cmd = m.menu.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applied reports the outcome of a channel change on the status line.
func (m Model) applied(act action, err error) Model {
	ch := m.view.Channel(m.menu.channel)
	if err != nil {
		slog.Warn("channel change failed", "channel", m.menu.channel, "setting", act.String(), "err", err)
		return m.withStatus(fmt.Sprintf("%s: %v", act, err))
	}
	slog.Debug("channel changed", "channel", ch.Index(), "setting", act.String(), "state", ch.State())
	if act == actionVisible {
		m.updateLevels()
	}
	return m.withStatus(fmt.Sprintf("%s: %s updated", ch.Label(), act))
}
