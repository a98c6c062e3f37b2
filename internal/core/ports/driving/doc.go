// Package driving defines the interfaces through which the outside
// world drives the core (primary/inbound ports). The CLI, the chat TUI
// and the HTTP API depend on these interfaces; core services implement
// them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
