package conversation

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"strings"
)

// Stream is a lazy, finite, forward-only sequence of reply fragments read
// from one open connection. Fragments arrive in the order the backend
// emits them; the sequence ends with io.EOF from Recv, or with a transport
// or format error at the point of failure. A Stream is bound to one request
// and cannot be restarted.
//
// Callers that stop early must Close the stream to release the connection.
// A Stream is not safe for concurrent use.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	provider       string
	model          string
	conversationID string

	text strings.Builder // fragments delivered so far, in order
	err  error
	done bool

	// onFinish, when set, runs once after the stream ends normally.
	onFinish func(text string)

	// release, when set, frees resources tied to the request context once
	// the connection is let go.
	release func()
}

// Scanner buffer sizing for long reply lines.
const (
	scanInitialBuffer = 64 * 1024
	scanMaxBuffer     = 10 * 1024 * 1024
)

func newStream(body io.ReadCloser) *Stream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, scanInitialBuffer), scanMaxBuffer)
	return &Stream{body: body, scanner: sc}
}

// Recv blocks until the next fragment arrives and returns it. It returns
// io.EOF when the backend signals end-of-stream, a transport error if the
// connection fails mid-stream, and a format error if a line cannot be
// decoded. After a non-EOF error every subsequent Recv returns the same
// error; fragments already returned are never retracted.
func (s *Stream) Recv() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		ev, err := parseEvent(line)
		if err != nil {
			return "", s.fail(newError("recv", KindFormat, err))
		}

		switch ev.Type {
		case eventContent:
			s.text.WriteString(ev.Content)
			return ev.Content, nil

		case eventProvider:
			if ev.Provider != nil {
				s.provider = ev.Provider.Name
				if ev.Provider.Model != "" {
					s.model = ev.Provider.Model
				}
			}

		case eventConversation:
			if ev.Conversation != nil {
				s.conversationID = ev.Conversation.ID
			}

		case eventError:
			return "", s.fail(newError("recv", KindTransport,
				&upstreamError{message: ev.errorMessage()}))

		case eventFinish:
			s.finish()
			return "", io.EOF

		default:
			// Informational events (title, preview, parameters, ...) are
			// not part of the reply text.
		}
	}

	if err := s.scanner.Err(); err != nil {
		return "", s.fail(newError("recv", KindTransport, err))
	}

	// Clean end of body without an explicit finish event.
	s.finish()
	return "", io.EOF
}

// Fragments returns an iterator over the remaining fragments. Iteration
// stops at end-of-stream; a failure is yielded once as a non-nil error.
// Breaking out of the loop closes the stream.
func (s *Stream) Fragments() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			frag, err := s.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(frag, nil) {
				_ = s.Close()
				return
			}
		}
	}
}

// Collect drains the remaining fragments and returns their concatenation
// together with everything received before Collect was called. On failure
// it returns the text delivered so far alongside the error.
func (s *Stream) Collect() (string, error) {
	defer s.Close()
	for {
		_, err := s.Recv()
		if err == io.EOF {
			return s.text.String(), nil
		}
		if err != nil {
			return s.text.String(), err
		}
	}
}

// Text returns the concatenation of all fragments delivered so far.
func (s *Stream) Text() string {
	return s.text.String()
}

// Provider returns the upstream provider name, once the backend has
// announced it. Empty before the provider event arrives.
func (s *Stream) Provider() string { return s.provider }

// Model returns the model the backend routed to, when announced.
func (s *Stream) Model() string { return s.model }

// ConversationID returns the backend conversation identifier, when announced.
func (s *Stream) ConversationID() string { return s.conversationID }

// Close releases the underlying connection. It is idempotent and safe to
// call at any point; an abandoned stream must be closed to avoid leaking
// the connection. Recv after Close returns ErrStreamClosed unless the
// stream already ended.
func (s *Stream) Close() error {
	if s.err == nil && !s.done {
		s.err = newError("recv", KindTransport, ErrStreamClosed)
	}
	return s.closeBody()
}

// fail records the terminal error, releases the connection, and returns err.
func (s *Stream) fail(err error) error {
	s.err = err
	_ = s.closeBody()
	return err
}

// finish marks a normal end of stream and releases the connection.
func (s *Stream) finish() {
	s.done = true
	_ = s.closeBody()
	if s.onFinish != nil {
		s.onFinish(s.text.String())
		s.onFinish = nil
	}
}

func (s *Stream) closeBody() error {
	if s.release != nil {
		s.release()
		s.release = nil
	}
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	return err
}

// upstreamError is an in-band error event from the backend.
type upstreamError struct {
	message string
}

func (e *upstreamError) Error() string {
	return ErrUpstream.Error() + ": " + e.message
}

func (e *upstreamError) Unwrap() error {
	return ErrUpstream
}
