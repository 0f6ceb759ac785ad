package conversation

import (
	"errors"
	"sort"
	"testing"
)

func TestBuildPayload_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "default-model"
	cfg.Provider = "default-provider"
	cfg.APIKey = "sk-default"

	p, err := buildPayload(cfg, Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("buildPayload() = %v", err)
	}

	if p.Model != "default-model" {
		t.Errorf("Model = %q, want default-model", p.Model)
	}
	if p.Provider != "default-provider" {
		t.Errorf("Provider = %q, want default-provider", p.Provider)
	}
	if p.APIKey != "sk-default" {
		t.Errorf("APIKey = %q, want sk-default", p.APIKey)
	}
	if !p.AutoContinue {
		t.Error("AutoContinue should default to true")
	}
	if len(p.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(p.Messages))
	}
	if p.Messages[0].Role != RoleUser || p.Messages[0].Content != "hello" {
		t.Errorf("message = %+v, want user/hello", p.Messages[0])
	}
}

func TestBuildPayload_Precedence(t *testing.T) {
	// Request fields beat config, option overrides beat both.
	cfg := DefaultConfig()
	cfg.Model = "from-config"
	cfg.Options = map[string]any{OptTemperature: 0.9}

	req := Request{
		Prompt: "hi",
		Model:  "from-request",
		Options: map[string]any{
			OptModel:       "from-options",
			OptTemperature: 0.1,
		},
	}

	p, err := buildPayload(cfg, req)
	if err != nil {
		t.Fatalf("buildPayload() = %v", err)
	}

	if p.Model != "from-options" {
		t.Errorf("Model = %q, want from-options", p.Model)
	}
	if p.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want 0.1 (request override)", p.Temperature)
	}
}

func TestBuildPayload_ConfigOptionDefaultsApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Options = map[string]any{OptMaxTokens: 300}

	p, err := buildPayload(cfg, Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("buildPayload() = %v", err)
	}
	if p.MaxTokens != 300 {
		t.Errorf("MaxTokens = %d, want 300", p.MaxTokens)
	}
}

func TestBuildPayload_HistoryPrecedesPrompt(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "first question"},
		{Role: RoleAssistant, Content: "first answer"},
	}

	p, err := buildPayload(DefaultConfig(), Request{Prompt: "followup", History: history})
	if err != nil {
		t.Fatalf("buildPayload() = %v", err)
	}

	want := append(history, Message{Role: RoleUser, Content: "followup"})
	if len(p.Messages) != len(want) {
		t.Fatalf("got %d messages, want %d", len(p.Messages), len(want))
	}
	for i := range want {
		if p.Messages[i] != want[i] {
			t.Errorf("messages[%d] = %+v, want %+v", i, p.Messages[i], want[i])
		}
	}
}

func TestBuildPayload_EmptyPrompt(t *testing.T) {
	_, err := buildPayload(DefaultConfig(), Request{})
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("buildPayload() = %v, want ErrEmptyPrompt", err)
	}
}

func TestBuildPayload_ConversationID(t *testing.T) {
	p, err := buildPayload(DefaultConfig(), Request{Prompt: "hi", ConversationID: "conv-7"})
	if err != nil {
		t.Fatalf("buildPayload() = %v", err)
	}
	if p.ConversationID != "conv-7" {
		t.Errorf("ConversationID = %q, want conv-7", p.ConversationID)
	}
}

func TestBuildPayload_NumericCoercion(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
		ok   bool
	}{
		{"temperature as int", map[string]any{OptTemperature: 1}, true},
		{"temperature as float", map[string]any{OptTemperature: 0.5}, true},
		{"max_tokens as whole float", map[string]any{OptMaxTokens: float64(128)}, true},
		{"max_tokens fractional", map[string]any{OptMaxTokens: 1.5}, false},
		{"max_tokens as string", map[string]any{OptMaxTokens: "128"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildPayload(DefaultConfig(), Request{Prompt: "hi", Options: tt.opts})
			if tt.ok && err != nil {
				t.Errorf("buildPayload(%v) = %v, want nil", tt.opts, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidOption) {
				t.Errorf("buildPayload(%v) = %v, want ErrInvalidOption", tt.opts, err)
			}
		})
	}
}

func TestRecognizedOptions(t *testing.T) {
	opts := RecognizedOptions()

	if !sort.StringsAreSorted(opts) {
		t.Errorf("RecognizedOptions() = %v, want sorted", opts)
	}

	want := []string{
		OptAPIKey, OptAutoContinue, OptConversationID, OptMaxTokens,
		OptModel, OptProvider, OptTemperature, OptWebSearch,
	}
	if len(opts) != len(want) {
		t.Fatalf("got %d options, want %d: %v", len(opts), len(want), opts)
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("opts[%d] = %q, want %q", i, opts[i], want[i])
		}
	}
}
