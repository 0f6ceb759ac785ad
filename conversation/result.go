package conversation

// Result is the tagged outcome of SubmitPrompt: exactly one of the complete
// response or the fragment stream is set, matching the chunked flag the
// caller passed.
type Result struct {
	resp   *Response
	stream *Stream
}

// Chunked reports whether the result carries a fragment stream.
func (r *Result) Chunked() bool {
	return r.stream != nil
}

// Text returns the complete reply text. Empty when the result is chunked;
// consume Stream instead.
func (r *Result) Text() string {
	if r.resp == nil {
		return ""
	}
	return r.resp.Content
}

// Response returns the full response of a non-chunked call, or nil when
// the result is chunked.
func (r *Result) Response() *Response {
	return r.resp
}

// Stream returns the fragment stream of a chunked call, or nil when the
// result is complete. The caller owns the stream and must Close it if it
// stops early.
func (r *Result) Stream() *Stream {
	return r.stream
}
