// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - KnowledgeSource: Produces the knowledge items for a session
//   - PassageIndex: Fuzzy lexical search over passages
//   - AnswerCache: Session-scoped answer memoisation
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CompletionService: Remote answers. Without it, every query is
//     answered by the local composer.
//   - IntentSource: Externally supplied intent rules. Without it, the
//     guided-intent arbitration stage is skipped.
//   - PromptStore: Customisable prompts. Without it, embedded defaults
//     are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
