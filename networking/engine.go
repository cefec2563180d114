package networking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/streamfn/sdk"
	"github.com/streamfn/sdk/logging"
	"github.com/streamfn/sdk/metrics"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "httpclient"
	fnCall         = "call"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to create request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")

	// ErrBadHTTPStatus indicates the remote server answered with a non-2xx code.
	ErrBadHTTPStatus = errors.New("bad HTTP status")
)

// HostCall defines the waPC host function signature used by the engine.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config configures the host-backed engine.
type Config struct {
	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig sdk.RuntimeConfig
	// Insecure disables TLS verification when the host supports it.
	Insecure bool
	// HostCall overrides the waPC host function used for requests.
	HostCall HostCall
	// Logger receives request failures. Nil discards them.
	Logger logging.Client
	// Metrics, when set, receives request counters and payload sizes.
	Metrics metrics.Client
}

// HostEngine implements Engine by delegating transport to the host runtime.
// Only the first URI of a request is attempted; the host owns retries.
type HostEngine struct {
	cfg      Config
	hostCall HostCall
	log      logging.Client

	requests  *metrics.Counter
	failures  *metrics.Counter
	inflight  *metrics.Gauge
	respBytes *metrics.Histogram
}

var _ Engine = (*HostEngine)(nil)

// New creates a HostEngine with namespace, host call and logger defaults.
func New(config Config) (*HostEngine, error) {
	e := &HostEngine{cfg: config, log: config.Logger}

	if e.cfg.SDKConfig.Namespace == "" {
		e.cfg.SDKConfig.Namespace = sdk.DefaultNamespace
	}

	e.hostCall = wapc.HostCall
	if config.HostCall != nil {
		e.hostCall = config.HostCall
	}

	if e.log == nil {
		e.log = logging.Discard()
	}

	if m := config.Metrics; m != nil {
		var err error
		if e.requests, err = m.NewCounter("networking_requests_total"); err != nil {
			return nil, err
		}
		if e.failures, err = m.NewCounter("networking_request_failures_total"); err != nil {
			return nil, err
		}
		if e.inflight, err = m.NewGauge("networking_requests_inflight"); err != nil {
			return nil, err
		}
		if e.respBytes, err = m.NewHistogram("networking_response_bytes"); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Request sends req to the host and converts its answer into a Response.
func (e *HostEngine) Request(t RequestType, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if len(req.URIs) == 0 {
		return nil, fmt.Errorf("%w: no URIs", ErrInvalidRequest)
	}

	e.requests.Inc()
	e.inflight.Inc()
	defer e.inflight.Dec()

	resp, err := e.do(req)
	if err != nil {
		e.failures.Inc()
		e.log.Warnf("%s request for %s failed: %v", t, req.URIs[0], err)
		return nil, err
	}

	e.respBytes.Observe(float64(len(resp.Data)))
	return resp, nil
}

func (e *HostEngine) do(req *Request) (*Response, error) {
	uri := req.URIs[0]

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	pbReq := &proto.HTTPClient{
		Method:   method,
		Url:      uri,
		Insecure: e.cfg.Insecure,
		Body:     req.Body,
		Headers:  make(map[string]*proto.Header, len(req.Headers)),
	}
	for k, v := range req.Headers {
		pbReq.Headers[k] = &proto.Header{Values: []string{v}}
	}

	b, err := pbReq.MarshalVT()
	if err != nil {
		return nil, errors.Join(ErrMarshalRequest, err)
	}

	raw, err := e.hostCall(e.cfg.SDKConfig.Namespace, capabilityName, fnCall, b)
	if err != nil {
		return nil, errors.Join(sdk.ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if err := r.UnmarshalVT(raw); err != nil {
		return nil, errors.Join(ErrUnmarshalResponse, err)
	}

	status := r.GetStatus()
	if status == nil {
		return nil, sdk.ErrHostResponseInvalid
	}

	switch code := status.GetCode(); code {
	case hostStatusOK, hostStatusPartial:
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return nil, errors.Join(sdk.ErrHostError, errors.New(detail))
	default:
		return nil, errors.Join(sdk.ErrHostResponseInvalid, fmt.Errorf("unexpected host status code %d", code))
	}

	httpCode := int(r.GetCode())
	if httpCode < 200 || httpCode > 299 {
		return nil, fmt.Errorf("%w: %d %s", ErrBadHTTPStatus, httpCode, http.StatusText(httpCode))
	}

	out := &Response{
		URI:     uri,
		Data:    r.GetBody(),
		Headers: make(map[string]string, len(r.GetHeaders())),
	}
	for name, h := range r.GetHeaders() {
		out.Headers[name] = strings.Join(h.GetValues(), ", ")
	}
	return out, nil
}
