package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/oscilloview/internal/scope"
)

// tickMsg carries the scheduler generation that requested it. A tick whose
// generation is no longer live is dropped.
type tickMsg struct {
	gen uint64
}

type playbackEndedMsg struct{}

const statusTimeout = 5 * time.Second

func tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(scope.TickPeriod, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func checkDone(f Finisher) tea.Cmd {
	done := f.Done()
	return func() tea.Msg {
		<-done
		return playbackEndedMsg{}
	}
}
