// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/components/chips"
	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/components/input"
	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/components/status"
	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/keymap"
	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/messages"
	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/styles"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driving"
	"github.com/zraval/portfolio-assistant/internal/render"
)

// eventBuffer sizes the streaming channel so slow redraws do not stall
// the answering goroutine.
const eventBuffer = 64

// entry is one rendered line group in the transcript.
type entry struct {
	role string // "user" or "assistant"
	text string
}

// View is the conversation view with transcript, input, suggestion
// chips, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.ChatInput
	chips     *chips.Row
	statusbar *status.Bar
	viewport  viewport.Model

	assistant driving.Assistant
	ctx       context.Context

	transcript []entry
	pending    string // accumulated streamed fragments for the in-flight answer
	streaming  bool
	events     chan tea.Msg

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates the conversation view, seeding the transcript with
// the assistant's greeting and the chip row with its suggestions.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.Assistant) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewChatInput(s),
		statusbar: status.NewBar(s, km),
		viewport:  viewport.New(80, 16),
		assistant: assistant,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}

	var suggestions []string
	if assistant != nil {
		v.transcript = append(v.transcript, entry{role: "assistant", text: assistant.Greeting()})
		suggestions = assistant.Suggestions()
	}
	v.chips = chips.NewRow(s, suggestions)
	v.refreshViewport()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the conversation view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerDelta:
		v.pending += msg.Text
		v.refreshViewport()
		return v, v.waitForEvent()

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.SuggestionsLoaded:
		v.chips.SetSuggestions(msg.Suggestions)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.ScrollUp):
		v.viewport.HalfViewUp()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.ScrollDown):
		v.viewport.HalfViewDown()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Clear):
		v.input.SetValue("")
		v.chips.SetFilter("")
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Suggest):
		if chip := v.chips.Next(); chip != "" {
			v.input.SetValue(chip)
		}
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Submit):
		return v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.chips.SetFilter(v.input.Value())
	return v, cmd
}

// submit sends the typed question to the assistant. A question already
// in flight blocks further submissions until its answer lands.
func (v *View) submit() (*View, tea.Cmd) {
	if v.streaming {
		return v, nil
	}
	query := strings.TrimSpace(v.input.Value())
	if query == "" {
		return v, nil
	}

	v.transcript = append(v.transcript, entry{role: "user", text: query})
	v.pending = ""
	v.streaming = true
	v.err = nil
	v.input.SetValue("")
	v.chips.SetFilter("")
	v.chips.ClearSelection()
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	v.refreshViewport()

	v.events = make(chan tea.Msg, eventBuffer)
	return v, tea.Batch(v.askAssistant(query), v.waitForEvent())
}

// askAssistant runs the answer pipeline off the UI goroutine, relaying
// streamed fragments through the event channel.
func (v *View) askAssistant(query string) tea.Cmd {
	ch := v.events
	assistant := v.assistant
	ctx := v.ctx
	return func() tea.Msg {
		if assistant == nil {
			close(ch)
			return messages.ErrorOccurred{Err: ErrNoAssistant}
		}
		answer, err := assistant.Answer(ctx, query, func(delta string) {
			ch <- messages.AnswerDelta{Text: delta}
		})
		close(ch)
		return messages.AnswerCompleted{Answer: answer, Err: err}
	}
}

// waitForEvent reads the next streamed fragment from the event channel.
func (v *View) waitForEvent() tea.Cmd {
	ch := v.events
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// handleAnswerCompleted finalises the in-flight answer.
func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	v.streaming = false
	v.pending = ""

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.refreshViewport()
		return
	}

	text := strings.TrimSpace(msg.Answer.Plain)
	if text == "" {
		text = render.PlainText(msg.Answer.HTML)
	}
	v.transcript = append(v.transcript, entry{role: "assistant", text: text})
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")

	if v.assistant != nil {
		v.chips.SetSuggestions(v.assistant.Suggestions())
	}
	v.refreshViewport()
}

// refreshViewport re-renders the transcript and scrolls to the bottom.
func (v *View) refreshViewport() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

// renderTranscript renders all conversation entries plus any partial
// streamed answer.
func (v *View) renderTranscript() string {
	wrap := v.styles.Normal.Width(max(20, v.viewport.Width-2))

	blocks := make([]string, 0, len(v.transcript)+1)
	for _, e := range v.transcript {
		blocks = append(blocks, v.renderEntry(e, wrap))
	}
	if v.streaming && v.pending != "" {
		partial := entry{role: "assistant", text: render.PlainText(v.pending)}
		blocks = append(blocks, v.renderEntry(partial, wrap))
	}
	return strings.Join(blocks, "\n\n")
}

// renderEntry renders one speaker label and wrapped body.
func (v *View) renderEntry(e entry, wrap lipgloss.Style) string {
	var label string
	if e.role == "user" {
		label = v.styles.UserLabel.Render("You")
	} else {
		label = v.styles.AssistantLabel.Render("Assistant")
	}
	return label + "\n" + wrap.Render(e.text)
}

// View renders the conversation view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := v.styles.Title.Render("Portfolio Assistant")
	sections = append(sections, header, "")

	sections = append(sections, v.styles.Border.Render(v.viewport.View()), "")

	if chipRow := v.chips.View(); chipRow != "" {
		sections = append(sections, chipRow)
	}

	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.chips.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Reserve space for header, chips, input, status, and spacing
	vh := height - 12
	if vh < 4 {
		vh = 4
	}
	v.viewport.Width = max(20, width-2)
	v.viewport.Height = vh
	v.refreshViewport()
}

// Streaming reports whether an answer is currently in flight.
func (v *View) Streaming() bool {
	return v.streaming
}

// Transcript returns the conversation entries rendered so far, as
// "role: text" pairs.
func (v *View) Transcript() []string {
	out := make([]string, 0, len(v.transcript))
	for _, e := range v.transcript {
		out = append(out, e.role+": "+e.text)
	}
	return out
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
