// Package core provides the foundational domain types shared across
// agentforge. It defines:
//
//   - Content / Part (role-based message segments, closed set)
//   - ChatInput (the immutable per-request conversation payload)
//   - StreamEvent (the normalized unit of streamed agent output)
//   - Document (a retrieved / ranked search result)
//   - ToolContext (the constrained surface handed to tool implementations)
//
// The package intentionally keeps implementation concerns (model clients,
// executors, transports) out of scope so higher layers can depend on a small,
// stable vocabulary.
package core
