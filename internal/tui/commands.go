// Package tui draws live build progress from progrock status updates.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// UpdateSource yields recorded status updates until it is closed.
type UpdateSource interface {
	Read() (*progrock.StatusUpdate, error)
}

// ReadUpdate waits for the next update from src. Any read error ends the stream.
func ReadUpdate(src UpdateSource) tea.Cmd {
	return func() tea.Msg {
		update, err := src.Read()
		if err != nil {
			return FeedClosedMsg{}
		}
		return StatusMsg{Update: update}
	}
}
