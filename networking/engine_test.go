package networking

import (
	"errors"
	"fmt"
	"testing"

	sdk "github.com/streamfn/sdk"
	"github.com/streamfn/sdk/hostmock"
	"github.com/streamfn/sdk/logging"
	"github.com/streamfn/sdk/metrics"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
)

const testNamespace = "testing"

func hostResponse(hostCode, httpCode int32, body string) func() []byte {
	return func() []byte {
		resp := &proto.HTTPClientResponse{
			Status: &sdkproto.Status{Status: "host says", Code: hostCode},
			Code:   httpCode,
			Headers: map[string]*proto.Header{
				"Content-Type": {Values: []string{"video/mp4"}},
				"Vary":         {Values: []string{"Origin", "Range"}},
			},
			Body: []byte(body),
		}
		b, _ := resp.MarshalVT()
		return b
	}
}

// rangeValidator checks the method, URL and Range header carried by the payload.
func rangeValidator(url, rng string) func([]byte) error {
	return func(payload []byte) error {
		var req proto.HTTPClient
		if err := req.UnmarshalVT(payload); err != nil {
			return fmt.Errorf("could not unmarshal payload: %w", err)
		}
		if req.GetMethod() != "GET" {
			return fmt.Errorf("method mismatch: got %s", req.GetMethod())
		}
		if req.GetUrl() != url {
			return fmt.Errorf("url mismatch: expected %s, got %s", url, req.GetUrl())
		}
		if rng != "" {
			h := req.GetHeaders()[RangeHeaderName]
			if h == nil || len(h.GetValues()) != 1 || h.GetValues()[0] != rng {
				return fmt.Errorf("range mismatch: expected %s, got %v", rng, h.GetValues())
			}
		}
		return nil
	}
}

func newEngine(t *testing.T, host hostmock.Config) *HostEngine {
	t.Helper()
	m, err := hostmock.New(host)
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}
	e, err := New(Config{SDKConfig: sdk.RuntimeConfig{Namespace: testNamespace}, HostCall: m.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return e
}

func TestHostEngineRequest(t *testing.T) {
	routed := func(cfg hostmock.Config) hostmock.Config {
		cfg.ExpectedNamespace = testNamespace
		cfg.ExpectedCapability = capabilityName
		cfg.ExpectedFunction = fnCall
		return cfg
	}

	tt := []struct {
		name     string
		host     hostmock.Config
		reqType  RequestType
		req      *Request
		wantErr  error
		wantBody string
	}{
		{
			name: "segment range",
			host: routed(hostmock.Config{
				PayloadValidator: rangeValidator("http://cdn/seg1.mp4", "bytes=0-499"),
				Response:         hostResponse(206, 206, "partial"),
			}),
			reqType:  RequestTypeSegment,
			req:      NewSegmentRequest("http://cdn/seg1.mp4", 0, 499),
			wantBody: "partial",
		},
		{
			name: "manifest",
			host: routed(hostmock.Config{
				PayloadValidator: rangeValidator("http://cdn/manifest.mpd", ""),
				Response:         hostResponse(200, 200, "<MPD/>"),
			}),
			reqType:  RequestTypeManifest,
			req:      NewRequest("http://cdn/manifest.mpd"),
			wantBody: "<MPD/>",
		},
		{
			name:    "nil request",
			host:    routed(hostmock.Config{}),
			req:     nil,
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "no uris",
			host:    routed(hostmock.Config{}),
			req:     &Request{},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "host call failure",
			host:    routed(hostmock.Config{Fail: true}),
			req:     NewRequest("http://cdn/a"),
			wantErr: sdk.ErrHostCall,
		},
		{
			name:    "host error status",
			host:    routed(hostmock.Config{Response: hostResponse(404, 0, "")}),
			req:     NewRequest("http://cdn/a"),
			wantErr: sdk.ErrHostError,
		},
		{
			name:    "unexpected host status",
			host:    routed(hostmock.Config{Response: hostResponse(302, 200, "")}),
			req:     NewRequest("http://cdn/a"),
			wantErr: sdk.ErrHostResponseInvalid,
		},
		{
			name: "missing status",
			host: routed(hostmock.Config{Response: func() []byte {
				b, _ := (&proto.HTTPClientResponse{Code: 200}).MarshalVT()
				return b
			}}),
			req:     NewRequest("http://cdn/a"),
			wantErr: sdk.ErrHostResponseInvalid,
		},
		{
			name:    "bad http status",
			host:    routed(hostmock.Config{Response: hostResponse(200, 503, "")}),
			req:     NewRequest("http://cdn/a"),
			wantErr: ErrBadHTTPStatus,
		},
		{
			name:    "undecodable response",
			host:    routed(hostmock.Config{Response: func() []byte { return []byte{0xff} }}),
			req:     NewRequest("http://cdn/a"),
			wantErr: ErrUnmarshalResponse,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngine(t, tc.host)

			resp, err := e.Request(tc.reqType, tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}

			if string(resp.Data) != tc.wantBody {
				t.Errorf("expected body %q, got %q", tc.wantBody, resp.Data)
			}
			if resp.URI != tc.req.URIs[0] {
				t.Errorf("expected URI %s, got %s", tc.req.URIs[0], resp.URI)
			}
			if got := resp.Headers["Vary"]; got != "Origin, Range" {
				t.Errorf("expected flattened Vary header, got %q", got)
			}
		})
	}
}

func TestHostEngineObservability(t *testing.T) {
	host, _ := hostmock.New(hostmock.Config{})
	responses := map[string]func() []byte{
		"http://cdn/ok":   hostResponse(200, 200, "12345"),
		"http://cdn/fail": hostResponse(500, 0, ""),
	}

	// The httpclient capability answers per URL; logging and metrics are recorded only.
	hostCall := func(ns, capability, fn string, payload []byte) ([]byte, error) {
		if _, err := host.HostCall(ns, capability, fn, payload); err != nil {
			return nil, err
		}
		if capability != capabilityName {
			return nil, nil
		}
		var req proto.HTTPClient
		if err := req.UnmarshalVT(payload); err != nil {
			return nil, err
		}
		return responses[req.GetUrl()](), nil
	}

	logger, _ := logging.New(logging.Config{HostCall: hostCall})
	m, _ := metrics.New(metrics.Config{HostCall: hostCall})
	e, err := New(Config{HostCall: hostCall, Logger: logger, Metrics: m})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := e.Request(RequestTypeSegment, NewRequest("http://cdn/ok")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Request(RequestTypeSegment, NewRequest("http://cdn/fail")); !errors.Is(err, sdk.ErrHostError) {
		t.Fatalf("expected host error, got %v", err)
	}

	t.Run("metrics", func(t *testing.T) {
		if n := len(host.CallsTo("metrics", "counter")); n != 3 {
			t.Errorf("expected 3 counter emissions (2 requests, 1 failure), got %d", n)
		}
		if n := len(host.CallsTo("metrics", "gauge")); n != 4 {
			t.Errorf("expected 4 gauge emissions, got %d", n)
		}
		if n := len(host.CallsTo("metrics", "histogram")); n != 1 {
			t.Errorf("expected 1 histogram emission, got %d", n)
		}
	})

	t.Run("logging", func(t *testing.T) {
		warns := host.CallsTo("logging", logging.LevelWarn)
		if len(warns) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(warns))
		}
		want := "SEGMENT request for http://cdn/fail failed"
		if got := string(warns[0].Payload); len(got) < len(want) || got[:len(want)] != want {
			t.Errorf("unexpected warning %q", got)
		}
	})
}

func TestNewDefaults(t *testing.T) {
	e, err := New(Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if e.cfg.SDKConfig.Namespace != sdk.DefaultNamespace {
		t.Errorf("expected default namespace, got %q", e.cfg.SDKConfig.Namespace)
	}
	if e.hostCall == nil || e.log == nil {
		t.Errorf("expected host call and logger defaults to be set")
	}
}
