package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transport issues the upstream HTTP call. The default implementation is
// HTTPTransport; tests and callers with special transport needs can
// substitute their own.
type Transport interface {
	// Send posts the JSON body to the endpoint and returns the response
	// with its body unread, so the caller can stream it.
	Send(ctx context.Context, endpoint string, body []byte) (*http.Response, error)
}

// HTTPTransport sends requests over net/http.
type HTTPTransport struct {
	// Client is the HTTP client to use. Nil uses a client without a global
	// timeout, so streamed bodies are not cut off mid-delivery; per-call
	// deadlines come from the request context.
	Client *http.Client
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpc := t.Client
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return httpc.Do(req)
}

// Client sends prompts to a conversation backend. It holds configuration
// only; every call owns its own connection, so a Client is safe for
// concurrent use.
type Client struct {
	cfg       Config
	transport Transport
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the backend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.cfg.BaseURL = baseURL }
}

// WithPath sets the conversation endpoint path.
func WithPath(path string) Option {
	return func(c *Client) { c.cfg.Path = path }
}

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(c *Client) { c.cfg.Model = model }
}

// WithProvider sets the default upstream provider.
func WithProvider(provider string) Option {
	return func(c *Client) { c.cfg.Provider = provider }
}

// WithAPIKey sets the API key forwarded to the backend.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.cfg.APIKey = key }
}

// WithWebSearch enables web search augmentation by default.
func WithWebSearch(enabled bool) Option {
	return func(c *Client) { c.cfg.WebSearch = enabled }
}

// WithTimeout sets the Complete deadline and Stream connection deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.cfg.Timeout = d }
}

// WithHTTPClient sets the HTTP client used by the default transport.
// Ignored when WithTransport is also given.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.transport = &HTTPTransport{Client: httpc} }
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// New creates a Client with default configuration, adjusted by options.
// Returns a configuration error if the resulting config is invalid.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		cfg:       DefaultConfig(),
		transport: &HTTPTransport{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, newError("new", KindConfig, err)
	}
	return c, nil
}

// NewWithConfig creates a Client from an explicit Config.
func NewWithConfig(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{cfg: cfg, transport: &HTTPTransport{}}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, newError("new", KindConfig, err)
	}
	return c, nil
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Response is the fully materialized reply of a Complete call.
// Immutable once returned.
type Response struct {
	// Content is the complete reply text.
	Content string `json:"content"`

	// Provider is the upstream provider the backend routed to, if announced.
	Provider string `json:"provider,omitempty"`

	// Model is the model that produced the reply, if announced.
	Model string `json:"model,omitempty"`

	// ConversationID is the backend conversation identifier, if announced.
	ConversationID string `json:"conversation_id,omitempty"`

	// Duration is the time from request to complete reply.
	Duration time.Duration `json:"duration"`
}

// Complete sends the request and blocks until the whole reply is received,
// returning it as one string. The configured Timeout bounds the entire call.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	stream, err := c.open(ctx, "complete", req)
	if err != nil {
		return nil, err
	}

	content, err := stream.Collect()
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:        content,
		Provider:       stream.Provider(),
		Model:          stream.Model(),
		ConversationID: stream.ConversationID(),
		Duration:       time.Since(start),
	}, nil
}

// Stream sends the request and returns as soon as the connection is
// established, with the reply readable fragment by fragment. The caller
// owns the returned Stream and must Close it if it stops early. The
// configured Timeout bounds connection establishment only; once the
// response header has arrived the caller's context alone governs fragment
// delivery, so long generations are not cut off.
func (c *Client) Stream(ctx context.Context, req Request) (*Stream, error) {
	if c.cfg.Timeout <= 0 {
		return c.open(ctx, "stream", req)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	timer := time.AfterFunc(c.cfg.Timeout, func() {
		cancel(context.DeadlineExceeded)
	})

	stream, err := c.open(ctx, "stream", req)
	timer.Stop()
	if err != nil {
		cancel(nil)
		return nil, err
	}

	// The deadline is lifted; the cancel is held until the stream ends so
	// the derived context is released with the connection.
	stream.release = func() { cancel(nil) }
	return stream, nil
}

// SubmitPrompt sends a single prompt and returns the reply in the shape
// selected by chunked: the complete text, or a lazy fragment stream.
// The options map accepts the keys listed by RecognizedOptions; anything
// else is rejected with a configuration error before any network activity.
func (c *Client) SubmitPrompt(ctx context.Context, prompt string, chunked bool, options map[string]any) (*Result, error) {
	req := Request{Prompt: prompt, Options: options}

	if chunked {
		stream, err := c.Stream(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Result{stream: stream}, nil
	}

	resp, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{resp: resp}, nil
}

// open validates and sends the request, returning a Stream over the reply
// body. Validation failures surface as configuration errors before any
// connection is made.
func (c *Client) open(ctx context.Context, op string, req Request) (*Stream, error) {
	p, err := buildPayload(c.cfg, req)
	if err != nil {
		return nil, newError(op, KindConfig, err)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, newError(op, KindConfig, fmt.Errorf("encode payload: %w", err))
	}

	resp, err := c.transport.Send(ctx, c.cfg.Endpoint(), body)
	if err != nil {
		return nil, newError(op, KindTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := readErrorBody(resp.Body)
		_ = resp.Body.Close()
		return nil, newError(op, KindTransport,
			fmt.Errorf("upstream status %d: %s", resp.StatusCode, detail))
	}

	return newStream(resp.Body), nil
}

// readErrorBody pulls a short diagnostic out of a non-200 reply.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return "no body"
	}
	return string(bytes.TrimSpace(data))
}
