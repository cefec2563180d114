package logging

import (
	"fmt"

	sdk "github.com/streamfn/sdk"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const capabilityName = "logging"

// Level names double as the host function invoked for each entry.
const (
	LevelTrace = "Trace"
	LevelDebug = "Debug"
	LevelInfo  = "Info"
	LevelWarn  = "Warn"
	LevelError = "Error"
)

// HostCall defines the waPC host function signature used by the logger.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Client exposes leveled log helpers backed by the host runtime.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)

	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall HostCall

	// Prefix is prepended to every message, e.g. the emitting component.
	Prefix string
}

type client struct {
	runtime  sdk.RuntimeConfig
	hostCall HostCall
	prefix   string
}

// New creates a Client that emits logs through the host logging capability.
func New(cfg Config) (Client, error) {
	runtimeCfg := cfg.SDKConfig
	if runtimeCfg.Namespace == "" {
		runtimeCfg.Namespace = sdk.DefaultNamespace
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &client{
		runtime:  runtimeCfg,
		hostCall: hostCall,
		prefix:   cfg.Prefix,
	}, nil
}

func (c *client) Info(message string)  { c.log(LevelInfo, message) }
func (c *client) Warn(message string)  { c.log(LevelWarn, message) }
func (c *client) Error(message string) { c.log(LevelError, message) }
func (c *client) Debug(message string) { c.log(LevelDebug, message) }
func (c *client) Trace(message string) { c.log(LevelTrace, message) }

func (c *client) Infof(format string, args ...any)  { c.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (c *client) Warnf(format string, args ...any)  { c.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (c *client) Errorf(format string, args ...any) { c.log(LevelError, fmt.Sprintf(format, args...)) }
func (c *client) Debugf(format string, args ...any) { c.log(LevelDebug, fmt.Sprintf(format, args...)) }

// log is best-effort; host failures never reach the caller.
func (c *client) log(level, message string) {
	if c.prefix != "" {
		message = c.prefix + ": " + message
	}
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, level, []byte(message))
}

// Discard returns a Client that drops every entry.
func Discard() Client { return discard{} }

type discard struct{}

func (discard) Info(string)           {}
func (discard) Warn(string)           {}
func (discard) Error(string)          {}
func (discard) Debug(string)          {}
func (discard) Trace(string)          {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
func (discard) Debugf(string, ...any) {}
