// Package domain defines the core business entities for the portfolio
// assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - KnowledgeItem: One retrievable unit of the knowledge base
//   - Passage: A retrieval-sized slice of an item's content
//   - SearchResult: A ranked match with relevance score
//   - IntentRule: A query-pattern heuristic
//   - ConversationTurn: One message of the session history
//   - Answer: A rendered assistant reply
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
