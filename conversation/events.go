package conversation

import (
	"encoding/json"
	"fmt"
)

// Wire event types emitted by the conversation endpoint, one JSON object
// per line. Content events carry reply text; provider and conversation
// events carry metadata; everything else is informational and skipped.
const (
	eventContent      = "content"
	eventProvider     = "provider"
	eventConversation = "conversation"
	eventError        = "error"
	eventFinish       = "finish"
)

// wireEvent is one decoded line of the streamed reply.
type wireEvent struct {
	Type         string          `json:"type"`
	Content      string          `json:"content,omitempty"`
	Provider     *providerInfo   `json:"provider,omitempty"`
	Conversation *conversationID `json:"conversation,omitempty"`
	Error        json.RawMessage `json:"error,omitempty"`
	Message      string          `json:"message,omitempty"`
}

// providerInfo identifies the upstream provider the backend routed to.
type providerInfo struct {
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`
}

// conversationID carries the backend's conversation identifier.
type conversationID struct {
	ID string `json:"id"`
}

// parseEvent decodes one non-empty reply line.
func parseEvent(line []byte) (*wireEvent, error) {
	var ev wireEvent
	if err := json.Unmarshal(line, &ev); err != nil {
		return nil, fmt.Errorf("decode event line: %w", err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("event line has no type: %s", truncateLine(line))
	}
	return &ev, nil
}

// errorMessage extracts a human-readable message from an error event.
// Backends send either a bare string or an object with a message field.
func (ev *wireEvent) errorMessage() string {
	if len(ev.Error) > 0 {
		var s string
		if err := json.Unmarshal(ev.Error, &s); err == nil {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(ev.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		return string(ev.Error)
	}
	if ev.Message != "" {
		return ev.Message
	}
	return "no detail provided"
}

func truncateLine(line []byte) string {
	const max = 120
	if len(line) <= max {
		return string(line)
	}
	return string(line[:max]) + "..."
}
