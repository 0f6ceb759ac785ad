package conversation

import (
	"encoding/json"
	"testing"
)

func TestPayloadSchema(t *testing.T) {
	schema := PayloadSchema()
	if schema == nil {
		t.Fatal("PayloadSchema() = nil")
	}

	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	var decoded struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}

	if decoded.Type != "object" {
		t.Errorf("type = %q, want object", decoded.Type)
	}

	for _, prop := range []string{"model", "web_search", "provider", "messages", "auto_continue"} {
		if _, ok := decoded.Properties[prop]; !ok {
			t.Errorf("schema is missing property %q", prop)
		}
	}

	hasMessages := false
	for _, req := range decoded.Required {
		if req == "messages" {
			hasMessages = true
		}
	}
	if !hasMessages {
		t.Errorf("required = %v, want to include messages", decoded.Required)
	}
}
