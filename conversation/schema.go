package conversation

import "github.com/invopop/jsonschema"

// PayloadSchema returns the JSON schema of the wire request the client
// sends to the conversation endpoint. Useful for validating hand-built
// payloads against what the client would produce.
func PayloadSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	return r.Reflect(&payload{})
}
