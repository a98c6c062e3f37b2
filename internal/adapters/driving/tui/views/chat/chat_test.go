package chat

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui/messages"
	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/core/ports/driving"
)

// mockAssistant is a scripted driving.Assistant for view tests.
type mockAssistant struct {
	greeting    string
	suggestions []string
	answer      domain.Answer
	err         error
	deltas      []string
	queries     []string
}

func (m *mockAssistant) Answer(_ context.Context, query string, onDelta func(string)) (domain.Answer, error) {
	m.queries = append(m.queries, query)
	if onDelta != nil {
		for _, d := range m.deltas {
			onDelta(d)
		}
	}
	return m.answer, m.err
}

func (m *mockAssistant) Ready() bool                          { return true }
func (m *mockAssistant) Greeting() string                     { return m.greeting }
func (m *mockAssistant) Suggestions() []string                { return m.suggestions }
func (m *mockAssistant) History() []domain.ConversationTurn   { return nil }
func (m *mockAssistant) KnowledgeBase() *domain.KnowledgeBase { return nil }

var _ driving.Assistant = (*mockAssistant)(nil)

func newTestView(assistant driving.Assistant) *View {
	v := NewView(nil, nil, assistant)
	v.SetDimensions(100, 40)
	return v
}

func TestNewView_SeedsGreetingAndChips(t *testing.T) {
	assistant := &mockAssistant{
		greeting:    "Good morning! Ask away.",
		suggestions: []string{"Share your resume"},
	}

	v := newTestView(assistant)

	transcript := v.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, "assistant: Good morning! Ask away.", transcript[0])
	assert.Contains(t, v.View(), "Share your resume")
}

func TestNewView_NilAssistant(t *testing.T) {
	v := newTestView(nil)

	assert.Empty(t, v.Transcript())
}

func TestView_SubmitAppendsUserEntry(t *testing.T) {
	assistant := &mockAssistant{greeting: "Hi."}
	v := newTestView(assistant)
	v.input.SetValue("what skills?")

	v, cmd := v.submit()

	require.NotNil(t, cmd)
	assert.True(t, v.Streaming())
	transcript := v.Transcript()
	assert.Equal(t, "user: what skills?", transcript[len(transcript)-1])
}

func TestView_SubmitIgnoresEmptyInput(t *testing.T) {
	v := newTestView(&mockAssistant{greeting: "Hi."})
	v.input.SetValue("   ")

	v, cmd := v.submit()

	assert.Nil(t, cmd)
	assert.False(t, v.Streaming())
}

func TestView_SubmitIgnoredWhileStreaming(t *testing.T) {
	v := newTestView(&mockAssistant{greeting: "Hi."})
	v.input.SetValue("first")
	v, _ = v.submit()
	before := len(v.Transcript())

	v.input.SetValue("second")
	v, cmd := v.submit()

	assert.Nil(t, cmd)
	assert.Len(t, v.Transcript(), before)
}

func TestView_AnswerDeltaAccumulates(t *testing.T) {
	v := newTestView(&mockAssistant{greeting: "Hi."})
	v.input.SetValue("q")
	v, _ = v.submit()

	v, cmd := v.Update(messages.AnswerDelta{Text: "<p>Par"})
	require.NotNil(t, cmd)
	v, _ = v.Update(messages.AnswerDelta{Text: "tial</p>"})

	assert.Equal(t, "<p>Partial</p>", v.pending)
	assert.Contains(t, v.viewport.View(), "Partial")
}

func TestView_AnswerCompletedAppendsTranscript(t *testing.T) {
	assistant := &mockAssistant{greeting: "Hi.", suggestions: []string{"next question"}}
	v := newTestView(assistant)
	v.input.SetValue("q")
	v, _ = v.submit()

	v, _ = v.Update(messages.AnswerCompleted{
		Answer: domain.Answer{HTML: "<p>Done.</p>", Plain: "Done.", Source: domain.SourceLLM},
	})

	assert.False(t, v.Streaming())
	assert.Empty(t, v.pending)
	transcript := v.Transcript()
	assert.Equal(t, "assistant: Done.", transcript[len(transcript)-1])
}

func TestView_AnswerCompletedFallsBackToHTML(t *testing.T) {
	v := newTestView(&mockAssistant{greeting: "Hi."})
	v.input.SetValue("q")
	v, _ = v.submit()

	v, _ = v.Update(messages.AnswerCompleted{
		Answer: domain.Answer{HTML: "<p>Only markup.</p>"},
	})

	transcript := v.Transcript()
	assert.Equal(t, "assistant: Only markup.", transcript[len(transcript)-1])
}

func TestView_AnswerCompletedWithError(t *testing.T) {
	v := newTestView(&mockAssistant{greeting: "Hi."})
	v.input.SetValue("q")
	v, _ = v.submit()
	before := len(v.Transcript())

	v, _ = v.Update(messages.AnswerCompleted{Err: domain.ErrUpstream})

	assert.False(t, v.Streaming())
	assert.ErrorIs(t, v.Err(), domain.ErrUpstream)
	assert.Len(t, v.Transcript(), before)
}

func TestView_AskAssistantDeliversEvents(t *testing.T) {
	assistant := &mockAssistant{
		greeting: "Hi.",
		deltas:   []string{"<p>Hello", "</p>"},
		answer:   domain.Answer{HTML: "<p>Hello</p>", Plain: "Hello", Source: domain.SourceLLM},
	}
	v := newTestView(assistant)
	v.input.SetValue("hello?")
	v, cmd := v.submit()
	require.NotNil(t, cmd)

	// Run the answering command synchronously
	final := v.askAssistant("hello?")()

	completed, ok := final.(messages.AnswerCompleted)
	require.True(t, ok)
	assert.Equal(t, "Hello", completed.Answer.Plain)

	// Buffered deltas drain in order, then the closed channel yields nil
	first := v.waitForEvent()()
	second := v.waitForEvent()()
	assert.Equal(t, messages.AnswerDelta{Text: "<p>Hello"}, first)
	assert.Equal(t, messages.AnswerDelta{Text: "</p>"}, second)
	assert.Nil(t, v.waitForEvent()())
}

func TestView_SuggestionsLoaded(t *testing.T) {
	v := newTestView(&mockAssistant{greeting: "Hi."})

	v, _ = v.Update(messages.SuggestionsLoaded{Suggestions: []string{"fresh chip"}})

	assert.Contains(t, v.View(), "fresh chip")
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, &mockAssistant{greeting: "Hi."})
	assert.False(t, v.Ready())

	v, _ = v.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	assert.True(t, v.Ready())
}

func TestView_ViewBeforeReady(t *testing.T) {
	v := NewView(nil, nil, &mockAssistant{greeting: "Hi."})

	assert.Contains(t, v.View(), "Initialising")
}

func TestView_TabCyclesChipIntoInput(t *testing.T) {
	assistant := &mockAssistant{greeting: "Hi.", suggestions: []string{"chip one", "chip two"}}
	v := newTestView(assistant)

	v, _ = v.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, "chip one", v.input.Value())
}

func TestView_ClearEmptiesInput(t *testing.T) {
	v := newTestView(&mockAssistant{greeting: "Hi."})
	v.input.SetValue("half typed")

	v, _ = v.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Equal(t, "", v.input.Value())
}
