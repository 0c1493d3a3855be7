package client

// Condition selects responses by errorType (exact) when set, else by status.
type Condition struct {
	ErrorType string
	Status    string
}

func (c Condition) matches(resp *Response) bool {
	if c.ErrorType != "" {
		return resp.ErrorType == c.ErrorType
	}
	if c.Status != "" {
		return resp.Status == c.Status
	}
	return false
}

// HandlerFunc performs a side effect for a matched response. Handlers run
// synchronously and must not mutate the response (AlertHandled excepted).
type HandlerFunc func(resp *Response, opts Options)

// Matcher is a first-match-wins chain-of-responsibility evaluator over a
// single response. It is an explicit two-state machine: On against an open
// matcher either fires and closes the chain or leaves it open; On against a
// closed matcher is a no-op. Exactly one handler fires per chain evaluation.
type Matcher struct {
	response *Response
	options  Options
	closed   bool
}

// Match starts an open matcher chain for the response.
func Match(resp *Response, opts Options) *Matcher {
	return &Matcher{response: resp, options: opts}
}

// On evaluates the condition and runs the handler on first match.
func (m *Matcher) On(cond Condition, handler HandlerFunc) *Matcher {
	if m.closed {
		return m
	}
	if cond.matches(m.response) {
		handler(m.response, m.options)
		return &Matcher{response: m.response, options: m.options, closed: true}
	}
	return m
}

// Closed reports whether a handler has already fired.
func (m *Matcher) Closed() bool {
	return m.closed
}
