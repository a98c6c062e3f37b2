package tui

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

// mockAssistant is a minimal assistant for exercising the app shell.
type mockAssistant struct {
	greeting    string
	suggestions []string
}

var _ driving.Assistant = (*mockAssistant)(nil)

func (m *mockAssistant) Answer(_ context.Context, query string, _ func(delta string)) (domain.Answer, error) {
	return domain.Answer{Plain: "answer to " + query, Source: domain.SourceKnowledgeBase}, nil
}

func (m *mockAssistant) Ready() bool                          { return true }
func (m *mockAssistant) Greeting() string                     { return m.greeting }
func (m *mockAssistant) Suggestions() []string                { return m.suggestions }
func (m *mockAssistant) History() []domain.ConversationTurn   { return nil }
func (m *mockAssistant) KnowledgeBase() *domain.KnowledgeBase { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()

	app, err := NewApp(&mockAssistant{greeting: "Hello there."})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(&mockAssistant{})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestNewApp_NilAssistant(t *testing.T) {
	app, err := NewApp(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAssistant)
	assert.Nil(t, app)
}

func TestApp_ImplementsTeaModel(t *testing.T) {
	var _ tea.Model = newTestApp(t)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	cmd := app.Init()

	require.NotNil(t, cmd)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	got := app.WithContext(ctx)

	assert.Same(t, app, got)
}

func TestApp_WindowSizeSetsReady(t *testing.T) {
	app, err := NewApp(&mockAssistant{})
	require.NoError(t, err)
	assert.False(t, app.Ready())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(&mockAssistant{})
	require.NoError(t, err)

	assert.Contains(t, app.View(), "Initialising")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, messages.ViewChat, app.CurrentView())

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyF1})
	app = model.(*App)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyF1})
	app = model.(*App)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_EscLeavesHelp(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyF1})
	app = model.(*App)
	require.Equal(t, messages.ViewHelp, app.CurrentView())

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_KeysSwallowedInHelpView(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyF1})
	app = model.(*App)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	app = model.(*App)

	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}

func TestApp_HelpViewContent(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyF1})
	app = model.(*App)

	view := app.View()
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "f1")
	assert.Contains(t, view, "back to chat")
}

func TestApp_ChatViewRendersGreeting(t *testing.T) {
	app := newTestApp(t)

	assert.Contains(t, app.View(), "Hello there.")
}

func TestApp_ViewChangedMessage(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(messages.ViewChanged{View: messages.ViewHelp})

	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewHelp, model.(*App).CurrentView())
}

func TestApp_ErrorOccurredRecordsError(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(messages.ErrorOccurred{Err: assert.AnError})

	assert.ErrorIs(t, model.(*App).Err(), assert.AnError)
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ForwardsKeysToChatView(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	app = model.(*App)

	assert.Contains(t, app.View(), "hi")
}
