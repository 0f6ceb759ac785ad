package conversation

import (
	"fmt"
	"sort"
	"strings"
)

// Role identifies the message sender.
type Role string

// Standard message roles understood by the backend.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request configures one conversation call.
//
// Prompt is required. Named fields override the client Config; the Options
// map overrides both and accepts only the keys listed by RecognizedOptions.
type Request struct {
	// Prompt is the user's message. Required, must be non-empty.
	Prompt string `json:"prompt"`

	// History is prior conversation turns sent before the prompt.
	History []Message `json:"history,omitempty"`

	// Model overrides the configured default model.
	Model string `json:"model,omitempty"`

	// ConversationID ties the call to a backend conversation.
	ConversationID string `json:"conversation_id,omitempty"`

	// Options holds per-call overrides keyed by recognized option names.
	// Unrecognized keys and wrongly typed values are rejected before any
	// network activity.
	Options map[string]any `json:"options,omitempty"`
}

// Recognized option keys for Request.Options, Config.Options, and the
// SubmitPrompt options map.
const (
	OptModel          = "model"
	OptProvider       = "provider"
	OptAPIKey         = "api_key"
	OptWebSearch      = "web_search"
	OptAutoContinue   = "auto_continue"
	OptTemperature    = "temperature"
	OptMaxTokens      = "max_tokens"
	OptConversationID = "conversation_id"
)

var recognizedOptions = map[string]bool{
	OptModel:          true,
	OptProvider:       true,
	OptAPIKey:         true,
	OptWebSearch:      true,
	OptAutoContinue:   true,
	OptTemperature:    true,
	OptMaxTokens:      true,
	OptConversationID: true,
}

// RecognizedOptions returns the option keys the client accepts, sorted
// alphabetically for consistent ordering.
func RecognizedOptions() []string {
	keys := make([]string, 0, len(recognizedOptions))
	for k := range recognizedOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// payload is the wire request sent to the conversation endpoint.
type payload struct {
	Model          string    `json:"model"`
	WebSearch      bool      `json:"web_search"`
	Provider       string    `json:"provider"`
	Messages       []Message `json:"messages" jsonschema:"minItems=1"`
	AutoContinue   bool      `json:"auto_continue"`
	APIKey         string    `json:"api_key,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Temperature    float64   `json:"temperature,omitempty"`
	MaxTokens      int       `json:"max_tokens,omitempty"`
}

// buildPayload merges config defaults, request fields, and option overrides
// into a wire payload. All validation happens here, before any network I/O.
func buildPayload(cfg Config, req Request) (*payload, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	p := &payload{
		Model:          cfg.Model,
		WebSearch:      cfg.WebSearch,
		Provider:       cfg.Provider,
		AutoContinue:   cfg.AutoContinue,
		APIKey:         cfg.APIKey,
		ConversationID: req.ConversationID,
		Temperature:    cfg.Temperature,
		MaxTokens:      cfg.MaxTokens,
	}

	p.Messages = make([]Message, 0, len(req.History)+1)
	p.Messages = append(p.Messages, req.History...)
	p.Messages = append(p.Messages, Message{Role: RoleUser, Content: req.Prompt})

	if req.Model != "" {
		p.Model = req.Model
	}

	// Config-level option defaults first, then per-request overrides.
	if err := applyOptions(p, cfg.Options); err != nil {
		return nil, err
	}
	if err := applyOptions(p, req.Options); err != nil {
		return nil, err
	}

	return p, nil
}

// validateOptions checks option keys without applying them.
func validateOptions(opts map[string]any) error {
	for key := range opts {
		if !recognizedOptions[key] {
			return fmt.Errorf("%w: %q (recognized: %s)", ErrUnknownOption, key, strings.Join(RecognizedOptions(), ", "))
		}
	}
	return nil
}

// applyOptions folds recognized option overrides into the payload.
func applyOptions(p *payload, opts map[string]any) error {
	for key, val := range opts {
		switch key {
		case OptModel:
			s, ok := val.(string)
			if !ok {
				return invalidOption(key, "string", val)
			}
			p.Model = s
		case OptProvider:
			s, ok := val.(string)
			if !ok {
				return invalidOption(key, "string", val)
			}
			p.Provider = s
		case OptAPIKey:
			s, ok := val.(string)
			if !ok {
				return invalidOption(key, "string", val)
			}
			p.APIKey = s
		case OptWebSearch:
			b, ok := val.(bool)
			if !ok {
				return invalidOption(key, "bool", val)
			}
			p.WebSearch = b
		case OptAutoContinue:
			b, ok := val.(bool)
			if !ok {
				return invalidOption(key, "bool", val)
			}
			p.AutoContinue = b
		case OptTemperature:
			f, ok := toFloat(val)
			if !ok {
				return invalidOption(key, "number", val)
			}
			if f < 0 || f > 2 {
				return fmt.Errorf("%w: %q must be in [0, 2], got %v", ErrInvalidOption, key, f)
			}
			p.Temperature = f
		case OptMaxTokens:
			n, ok := toInt(val)
			if !ok {
				return invalidOption(key, "int", val)
			}
			if n < 0 {
				return fmt.Errorf("%w: %q must be >= 0, got %d", ErrInvalidOption, key, n)
			}
			p.MaxTokens = n
		case OptConversationID:
			s, ok := val.(string)
			if !ok {
				return invalidOption(key, "string", val)
			}
			p.ConversationID = s
		default:
			return fmt.Errorf("%w: %q (recognized: %s)", ErrUnknownOption, key, strings.Join(RecognizedOptions(), ", "))
		}
	}
	return nil
}

func invalidOption(key, want string, got any) error {
	return fmt.Errorf("%w: %q wants %s, got %T", ErrInvalidOption, key, want, got)
}

// toFloat converts numeric option values, including ints from literals
// and float64 from JSON unmarshaling.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
