package metrics

import (
	"errors"
	"regexp"

	sdk "github.com/streamfn/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "metrics"
	fnCounter      = "counter"
	fnGauge        = "gauge"
	fnHistogram    = "histogram"
	actionInc      = "inc"
	actionDec      = "dec"
)

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:]+$`)
)

// HostCall defines the waPC host function signature used by metrics operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Client defines the metrics capability interface.
type Client interface {
	// NewCounter creates a named counter metric handle.
	NewCounter(name string) (*Counter, error)

	// NewGauge creates a named gauge metric handle.
	NewGauge(name string) (*Gauge, error)

	// NewHistogram creates a named histogram metric handle.
	NewHistogram(name string) (*Histogram, error)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// HostCall overrides the waPC host function used for metrics operations.
	HostCall HostCall
}

// HostMetrics is the metrics capability client implementation.
type HostMetrics struct {
	runtime  sdk.RuntimeConfig
	hostCall HostCall
}

var _ Client = (*HostMetrics)(nil)

// vtMessage is satisfied by every generated metrics payload.
type vtMessage interface {
	MarshalVT() ([]byte, error)
}

// emitter holds the routing shared by every metric handle.
type emitter struct {
	name      string
	namespace string
	hostCall  HostCall
}

// send is best-effort: marshal and host failures are dropped.
func (e emitter) send(fn string, msg vtMessage) {
	payload, err := msg.MarshalVT()
	if err != nil {
		return
	}
	_, _ = e.hostCall(e.namespace, capabilityName, fn, payload)
}

// Counter is a named counter metric handle. A nil *Counter is a no-op.
type Counter struct{ emitter }

// Gauge is a named gauge metric handle. A nil *Gauge is a no-op.
type Gauge struct{ emitter }

// Histogram is a named histogram metric handle. A nil *Histogram is a no-op.
type Histogram struct{ emitter }

// New creates a metrics client with namespace defaults and optional host-call override.
func New(config Config) (*HostMetrics, error) {
	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &HostMetrics{runtime: runtime, hostCall: hostCall}, nil
}

func (c *HostMetrics) newEmitter(name string) (emitter, error) {
	if !isMetricNameValid.MatchString(name) {
		return emitter{}, ErrInvalidMetricName
	}
	return emitter{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// NewCounter creates a named counter metric handle.
func (c *HostMetrics) NewCounter(name string) (*Counter, error) {
	e, err := c.newEmitter(name)
	if err != nil {
		return nil, err
	}
	return &Counter{e}, nil
}

// NewGauge creates a named gauge metric handle.
func (c *HostMetrics) NewGauge(name string) (*Gauge, error) {
	e, err := c.newEmitter(name)
	if err != nil {
		return nil, err
	}
	return &Gauge{e}, nil
}

// NewHistogram creates a named histogram metric handle.
func (c *HostMetrics) NewHistogram(name string) (*Histogram, error) {
	e, err := c.newEmitter(name)
	if err != nil {
		return nil, err
	}
	return &Histogram{e}, nil
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	if c == nil {
		return
	}
	c.send(fnCounter, &proto.MetricsCounter{Name: c.name})
}

// Inc increments the gauge by one.
func (g *Gauge) Inc() {
	if g == nil {
		return
	}
	g.send(fnGauge, &proto.MetricsGauge{Name: g.name, Action: actionInc})
}

// Dec decrements the gauge by one.
func (g *Gauge) Dec() {
	if g == nil {
		return
	}
	g.send(fnGauge, &proto.MetricsGauge{Name: g.name, Action: actionDec})
}

// Observe records a value for the histogram.
func (h *Histogram) Observe(value float64) {
	if h == nil {
		return
	}
	h.send(fnHistogram, &proto.MetricsHistogram{Name: h.name, Value: value})
}
