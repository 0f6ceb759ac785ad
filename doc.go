// Package convkit provides a Go client for conversation-generation HTTP
// backends that stream line-delimited JSON replies.
//
// Subpackages:
//
//   - conversation: the client itself, with complete and streamed reply modes
//   - transcript: JSONL transcript recording and live tailing
//
// # Quick Start
//
// Complete reply:
//
//	import "github.com/convkit/convkit/conversation"
//
//	client, _ := conversation.New(conversation.WithBaseURL("http://127.0.0.1:8080"))
//	resp, _ := client.Complete(ctx, conversation.Request{Prompt: "Hello"})
//	fmt.Println(resp.Content)
//
// Streamed reply:
//
//	stream, _ := client.Stream(ctx, conversation.Request{Prompt: "Hello"})
//	defer stream.Close()
//	for frag, err := range stream.Fragments() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(frag)
//	}
//
// # Design Philosophy
//
//   - One network connection per call; no state shared between calls
//   - Errors carry a class (config, transport, format) callers can branch on
//   - No built-in retry; failures propagate and callers decide
//   - Sensible defaults with full configurability
package convkit
