package mock

import (
	"errors"
	"fmt"
	"sync"

	"github.com/streamfn/sdk/logging"
	"github.com/streamfn/sdk/networking"
)

var (
	// ErrUnstubbedURI is returned when a URI has no response and no default is set.
	ErrUnstubbedURI = errors.New("no stubbed response for URI")

	// ErrRangeRequestNotFound is returned by ExpectRangeRequest when no recorded call matches.
	ErrRangeRequestNotFound = errors.New("range request not found")
)

// Config controls construction of an Engine.
type Config struct {
	// Responses maps request URIs to the payload returned for them.
	Responses map[string][]byte

	// Default is returned for URIs missing from Responses. Nil means unset.
	Default []byte

	// Logger, when set, receives a warning for every unstubbed URI.
	Logger logging.Client
}

// Call captures a single request issued through the mock.
type Call struct {
	// Type is the request type tag passed by the caller.
	Type networking.RequestType
	// Request is a copy of the request parameters. Nil if the caller passed nil.
	Request *networking.Request
}

// Engine implements networking.Engine with pre-configured payloads and
// call recording. It is safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	responses map[string][]byte
	def       []byte
	calls     []Call
	log       logging.Client
}

// Compile-time check: ensure Engine implements the networking.Engine interface.
var _ networking.Engine = (*Engine)(nil)

// New creates a new mock engine.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Engine{
		responses: copyMap(cfg.Responses),
		def:       copyBytes(cfg.Default),
		calls:     []Call{},
		log:       log,
	}
}

// Request records the call and returns the stubbed payload for the single
// URI in req, or the default payload when the URI is not stubbed.
func (m *Engine) Request(t networking.RequestType, req *networking.Request) (*networking.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Type: t, Request: req.Clone()})

	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", networking.ErrInvalidRequest)
	}
	if len(req.URIs) != 1 {
		return nil, fmt.Errorf("%w: expected exactly 1 URI, got %d", networking.ErrInvalidRequest, len(req.URIs))
	}

	uri := req.URIs[0]
	data := m.responses[uri]
	if data == nil {
		data = m.def
	}
	if data == nil {
		m.log.Warnf("%s request for %q is not in the response map", t, uri)
		return nil, fmt.Errorf("%w: %s", ErrUnstubbedURI, uri)
	}

	return &networking.Response{
		URI:     uri,
		Data:    copyBytes(data),
		Headers: map[string]string{},
	}, nil
}

// ExpectRangeRequest reports whether a segment request for uri carrying the
// Range header for [startByte, endByte] was made. Pass networking.RangeToEnd
// as endByte for an open-ended range. Other headers are ignored.
func (m *Engine) ExpectRangeRequest(uri string, startByte, endByte int64) error {
	want := networking.RangeHeader(startByte, endByte)

	for _, c := range m.Calls() {
		if c.Type != networking.RequestTypeSegment || c.Request == nil {
			continue
		}
		if len(c.Request.URIs) != 1 || c.Request.URIs[0] != uri {
			continue
		}
		if got, ok := c.Request.Headers[networking.RangeHeaderName]; ok && got == want {
			return nil
		}
	}

	return fmt.Errorf("%w: %s request for %s with %s: %s", ErrRangeRequestNotFound,
		networking.RequestTypeSegment, uri, networking.RangeHeaderName, want)
}

// SetResponseMap replaces the response map.
func (m *Engine) SetResponseMap(responses map[string][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = copyMap(responses)
}

// SetResponseMapAsText replaces the response map with UTF-8 encoded text payloads.
func (m *Engine) SetResponseMapAsText(responses map[string]string) {
	st := make(map[string][]byte, len(responses))
	for k, v := range responses {
		st[k] = []byte(v)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = st
}

// SetDefaultValue sets the payload returned for unstubbed URIs; nil unsets it.
func (m *Engine) SetDefaultValue(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.def = copyBytes(data)
}

// SetDefaultText sets the default payload from text; the empty string unsets it.
func (m *Engine) SetDefaultText(text string) {
	var data []byte
	if text != "" {
		data = []byte(text)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.def = data
}

// Calls returns a deep copy of every request observed so far, in call order.
// Changes to the result never reach the recorded history.
func (m *Engine) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Call, len(m.calls))
	for i, c := range m.calls {
		out[i] = Call{Type: c.Type, Request: c.Request.Clone()}
	}
	return out
}

// CallCount returns the number of requests observed so far.
func (m *Engine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func copyMap(in map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(in))
	for k, v := range in {
		out[k] = copyBytes(v)
	}
	return out
}

// copyBytes keeps nil distinct from empty: an empty payload is a valid response.
func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
