package conversation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Conversation is a multi-turn session over one Client. It accumulates
// message history and replays it with each prompt, so the backend sees the
// full dialogue. Safe for concurrent use, though turns are serialized by
// nature of a dialogue.
type Conversation struct {
	client *Client
	id     string

	mu      sync.Mutex
	history []Message
}

// NewConversation starts an empty session with a fresh conversation ID.
func (c *Client) NewConversation() *Conversation {
	return &Conversation{
		client: c,
		id:     uuid.NewString(),
	}
}

// ID returns the session's conversation identifier.
func (cv *Conversation) ID() string {
	return cv.id
}

// History returns a copy of the turns exchanged so far.
func (cv *Conversation) History() []Message {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	out := make([]Message, len(cv.history))
	copy(out, cv.history)
	return out
}

// Ask sends the prompt with the accumulated history and blocks for the
// complete reply. Both turns are recorded on success; a failed call leaves
// the history untouched so it can simply be retried.
func (cv *Conversation) Ask(ctx context.Context, prompt string) (*Response, error) {
	resp, err := cv.client.Complete(ctx, Request{
		Prompt:         prompt,
		History:        cv.History(),
		ConversationID: cv.id,
	})
	if err != nil {
		return nil, err
	}
	cv.commit(prompt, resp.Content)
	return resp, nil
}

// AskStream sends the prompt with the accumulated history and returns the
// reply as a fragment stream. The exchange is recorded once the stream ends
// normally; an abandoned or failed stream leaves the history untouched.
func (cv *Conversation) AskStream(ctx context.Context, prompt string) (*Stream, error) {
	stream, err := cv.client.Stream(ctx, Request{
		Prompt:         prompt,
		History:        cv.History(),
		ConversationID: cv.id,
	})
	if err != nil {
		return nil, err
	}
	stream.onFinish = func(text string) {
		cv.commit(prompt, text)
	}
	return stream, nil
}

func (cv *Conversation) commit(prompt, reply string) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.history = append(cv.history,
		Message{Role: RoleUser, Content: prompt},
		Message{Role: RoleAssistant, Content: reply},
	)
}
