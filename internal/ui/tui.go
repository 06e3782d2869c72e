// ABOUTME: TUI initialization
// ABOUTME: Wraps a bubbletea program around the transport model
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram creates the TUI program. Callers push StatusMsg values with
// Send and block on Run.
func NewProgram(controls Controls, source string) *tea.Program {
	return tea.NewProgram(NewModel(controls, source), tea.WithAltScreen())
}
