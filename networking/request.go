package networking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// RequestType tags a request with the kind of resource it fetches.
type RequestType int

const (
	RequestTypeManifest RequestType = iota
	RequestTypeSegment
	RequestTypeLicense
	RequestTypeApp
	RequestTypeTiming
)

func (t RequestType) String() string {
	switch t {
	case RequestTypeManifest:
		return "MANIFEST"
	case RequestTypeSegment:
		return "SEGMENT"
	case RequestTypeLicense:
		return "LICENSE"
	case RequestTypeApp:
		return "APP"
	case RequestTypeTiming:
		return "TIMING"
	default:
		return "RequestType(" + strconv.Itoa(int(t)) + ")"
	}
}

// RangeToEnd marks an open-ended byte range.
const RangeToEnd int64 = -1

// RangeHeaderName is the request header carrying a byte range.
const RangeHeaderName = "Range"

// ErrInvalidRequest indicates a request that cannot be issued as given.
var ErrInvalidRequest = errors.New("invalid request")

// Request describes a single network request.
type Request struct {
	// URIs lists the locations of the resource, in preference order.
	URIs []string
	// Method is the HTTP method. Empty means GET.
	Method string
	// Headers holds request headers.
	Headers map[string]string
	// Body is an optional request payload.
	Body []byte
}

// Response is the result of a successful request.
type Response struct {
	// URI is the location the data was fetched from.
	URI string
	// Data is the response payload.
	Data []byte
	// Headers holds response headers. Never nil.
	Headers map[string]string
}

// Engine performs network requests on behalf of the streaming client.
type Engine interface {
	Request(t RequestType, req *Request) (*Response, error)
}

// NewRequest creates a GET request for uris with an empty header set.
func NewRequest(uris ...string) *Request {
	return &Request{
		URIs:    append([]string(nil), uris...),
		Method:  http.MethodGet,
		Headers: make(map[string]string),
	}
}

// NewSegmentRequest creates a GET request for a byte range of uri.
// Pass RangeToEnd as endByte to request everything from startByte on.
// Bounds follow RangeHeader.
func NewSegmentRequest(uri string, startByte, endByte int64) *Request {
	req := NewRequest(uri)
	req.Headers[RangeHeaderName] = RangeHeader(startByte, endByte)
	return req
}

// RangeHeader formats an HTTP byte range as "bytes=<start>-<end>". Any
// negative endByte, RangeToEnd included, leaves the end empty. A negative
// startByte is clamped to 0.
func RangeHeader(startByte, endByte int64) string {
	if startByte < 0 {
		startByte = 0
	}
	end := ""
	if endByte >= 0 {
		end = strconv.FormatInt(endByte, 10)
	}
	return fmt.Sprintf("bytes=%d-%s", startByte, end)
}

// Clone returns a deep copy of r. Clone of nil is nil.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	out := &Request{
		URIs:   append([]string(nil), r.URIs...),
		Method: r.Method,
		Body:   append([]byte(nil), r.Body...),
	}
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	return out
}
