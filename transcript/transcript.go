// Package transcript records conversation exchanges to JSONL files and
// reads them back, including live tailing of a transcript another process
// is appending to.
//
// Each line is one JSON-encoded Entry. The format is append-only, so a
// transcript can be followed while a session is still running.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded exchange turn.
type Entry struct {
	// ID uniquely identifies the entry.
	ID string `json:"id"`

	// ConversationID groups entries belonging to one session.
	ConversationID string `json:"conversation_id,omitempty"`

	// Role is who produced the content ("user" or "assistant").
	Role string `json:"role"`

	// Content is the turn's text.
	Content string `json:"content"`

	// Provider is the upstream provider that produced an assistant turn.
	Provider string `json:"provider,omitempty"`

	// Model is the model that produced an assistant turn.
	Model string `json:"model,omitempty"`

	// Time is when the entry was recorded.
	Time time.Time `json:"time"`
}

// NewEntry creates an entry with a fresh ID and the current time.
func NewEntry(conversationID, role, content string) Entry {
	return Entry{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Time:           time.Now().UTC(),
	}
}

// Writer appends entries to a JSONL transcript file.
// Safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewWriter opens (or creates) the transcript file for appending.
func NewWriter(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return &Writer{file: file, enc: json.NewEncoder(file)}, nil
}

// Append writes one entry as a single JSONL line.
func (w *Writer) Append(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("transcript writer is closed")
	}
	if err := w.enc.Encode(e); err != nil {
		return fmt.Errorf("append transcript entry: %w", err)
	}
	return nil
}

// Close closes the underlying file. Subsequent Appends fail.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
