package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(canRepeat, canSeek bool) string {
	s := "space pause  ←↑↓→ select  tab next  enter menu  v show/hide"
	if canSeek {
		s += "  [/] seek"
	}
	if canRepeat {
		s += "  r repeat"
	}
	return s + "  q quit"
}

func menuHelpText(prompt bool) string {
	if prompt {
		return "enter apply  esc back"
	}
	return "↑/↓ choose  enter select  esc close"
}
