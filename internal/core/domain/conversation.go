package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryWindow is the number of trailing turns sent to the remote
// completion endpoint.
const HistoryWindow = 6

// ConversationTurn is one message in the session's append-only history.
// The history lives with the session and is discarded when it ends.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TailTurns returns the trailing n turns of the history.
func TailTurns(turns []ConversationTurn, n int) []ConversationTurn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
