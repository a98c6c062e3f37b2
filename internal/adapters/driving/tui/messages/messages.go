// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

// AnswerDelta carries one streamed fragment of a remote answer.
type AnswerDelta struct {
	Text string
}

// AnswerCompleted carries the final answer back to the model.
type AnswerCompleted struct {
	Answer domain.Answer
	Err    error
}

// SuggestionsLoaded carries refreshed suggestion chips.
type SuggestionsLoaded struct {
	Suggestions []string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
