package core

// ChatInput is the per-request conversation payload handed to an agent
// manager: the ordered prior messages (user / assistant / tool roles) plus
// caller identity. It is constructed once per incoming request and must not
// be mutated while a query is in flight.
type ChatInput struct {
	Messages  []Content `json:"messages"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
}
