// Package conversation provides a client for conversation-generation HTTP
// backends that stream line-delimited JSON events.
//
// The client sends a prompt (plus optional history and generation options)
// to the backend's conversation endpoint and returns the reply in one of
// two shapes: a fully materialized string, or a lazy stream of text
// fragments consumed one Recv at a time.
//
// # Quick Start
//
// Complete mode waits for the whole reply:
//
//	client, err := conversation.New(
//	    conversation.WithBaseURL("http://127.0.0.1:8080"),
//	    conversation.WithModel("gpt-4o-mini"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Complete(ctx, conversation.Request{
//	    Prompt: "Gimme ten programming languages name.",
//	})
//	fmt.Println(resp.Content)
//
// Stream mode yields fragments as the backend emits them:
//
//	stream, err := client.Stream(ctx, conversation.Request{Prompt: prompt})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for frag, err := range stream.Fragments() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(frag)
//	}
//
// SubmitPrompt selects the shape with a flag and returns a tagged Result:
//
//	result, err := client.SubmitPrompt(ctx, prompt, true, map[string]any{
//	    "temperature": 0.2,
//	})
//	if result.Chunked() {
//	    // consume result.Stream()
//	}
//
// # Error Classes
//
// Every error the client returns carries one of three kinds: configuration
// errors (caller mistakes, detected before any network I/O), transport
// errors (dial failures, timeouts, mid-stream disconnects), and format
// errors (replies that cannot be decoded). Use IsConfig, IsTransport, and
// IsFormat to branch on them. The client never retries; callers that want
// retry can gate it on IsRetryable.
package conversation
