package server

import (
	"fmt"

	"github.com/hupe1980/agentforge/core"
)

// chatRequest is the wire shape of POST /chats. The double input nesting is
// kept for compatibility with existing frontends.
type chatRequest struct {
	Input struct {
		Input chatInput `json:"input"`
	} `json:"input"`
}

type chatInput struct {
	Messages  []wireMessage `json:"messages"`
	UserID    string        `json:"user_id"`
	SessionID string        `json:"session_id"`
}

// wireMessage is a single conversation message as sent by clients.
type wireMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// feedbackRequest is the wire shape of POST /feedback.
type feedbackRequest struct {
	Score   float64 `json:"score"`
	Text    string  `json:"text,omitempty"`
	RunID   string  `json:"run_id"`
	LogType string  `json:"log_type"`
}

// toChatInput converts the wire request into the internal input shape.
// Client message types are aliased: human/user, ai/assistant, tool.
func (in chatInput) toChatInput() (core.ChatInput, error) {
	messages := make([]core.Content, 0, len(in.Messages))

	for i, msg := range in.Messages {
		var role string

		switch msg.Type {
		case "human", "user":
			role = "user"
		case "ai", "assistant":
			role = "assistant"
		case "tool":
			role = "tool"
		default:
			return core.ChatInput{}, fmt.Errorf("message %d has unknown type %q", i, msg.Type)
		}

		messages = append(messages, core.Content{
			Role:  role,
			Parts: []core.Part{core.TextPart{Text: msg.Content}},
		})
	}

	return core.ChatInput{
		Messages:  messages,
		UserID:    in.UserID,
		SessionID: in.SessionID,
	}, nil
}
