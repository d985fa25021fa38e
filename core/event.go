package core

import "github.com/google/uuid"

// StreamEventType discriminates the normalized streamed output units.
type StreamEventType string

const (
	// StreamEventMetadata carries run correlation data, emitted first.
	StreamEventMetadata StreamEventType = "metadata"
	// StreamEventContent carries an incremental or complete assistant text.
	StreamEventContent StreamEventType = "content"
	// StreamEventTool carries a tool invocation / result notice.
	StreamEventTool StreamEventType = "tool"
	// StreamEventError carries a terminal streaming error.
	StreamEventError StreamEventType = "error"
	// StreamEventEnd is the explicit end-of-stream marker.
	StreamEventEnd StreamEventType = "end"
)

// StreamEvent is the normalized unit of streamed agent output. Every
// orchestration variant translates its executor's native chunks into this
// shape so transports can serialize a single wire format. Events are produced
// continuously during a query and never persisted.
type StreamEvent struct {
	Type       StreamEventType `json:"type"`
	RunID      string          `json:"run_id,omitempty"`
	Content    string          `json:"content,omitempty"`
	Partial    bool            `json:"partial,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolName   string          `json:"tool_name,omitempty"`
	ToolResult any             `json:"tool_result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// NewContentEvent builds a content event. partial marks streaming fragments
// that will be followed by more text for the same assistant turn.
func NewContentEvent(text string, partial bool) StreamEvent {
	return StreamEvent{Type: StreamEventContent, Content: text, Partial: partial}
}

// NewMetadataEvent builds the run-correlation event emitted at stream start.
func NewMetadataEvent(runID string) StreamEvent {
	return StreamEvent{Type: StreamEventMetadata, RunID: runID}
}

// NewErrorEvent builds a terminal error event.
func NewErrorEvent(err error) StreamEvent {
	return StreamEvent{Type: StreamEventError, Error: err.Error()}
}

// NewEndEvent builds the explicit end-of-stream marker.
func NewEndEvent() StreamEvent {
	return StreamEvent{Type: StreamEventEnd}
}

// NewID generates a new unique identifier for runs and tool calls.
func NewID() string { return uuid.NewString() }
