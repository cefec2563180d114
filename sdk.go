package sdk

import (
	"errors"
	"fmt"
	"regexp"

	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "streamfn"

// handlerName is the waPC function the host invokes for each event.
const handlerName = "handler"

var (
	// ErrHandlerNil is returned when the provided function handler is nil.
	ErrHandlerNil = errors.New("function handler cannot be nil")

	// ErrInvalidNamespace is returned when a namespace contains characters the host rejects.
	ErrInvalidNamespace = errors.New("namespace is invalid")

	isNamespaceValid = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
)

// Config provides configuration options for SDK initialization.
type Config struct {
	// Namespace controls the function namespace to use for host callbacks.
	// If empty, DefaultNamespace is used.
	Namespace string

	// Handler is the function registered as the main WebAssembly entry point.
	Handler func([]byte) ([]byte, error)

	// Register overrides wapc.RegisterFunction. Tests use it to avoid
	// touching the global waPC function table.
	Register func(name string, fn func([]byte) ([]byte, error))
}

// RuntimeConfig carries configuration shared by SDK capability clients.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// SDK represents the initialized runtime with a registered waPC handler.
type SDK struct {
	runtime RuntimeConfig
	handler func([]byte) ([]byte, error)
}

// New validates the configuration and registers the handler with waPC.
func New(config Config) (*SDK, error) {
	if config.Handler == nil {
		return nil, ErrHandlerNil
	}

	cfg := RuntimeConfig{Namespace: DefaultNamespace}
	if config.Namespace != "" {
		if !isNamespaceValid.MatchString(config.Namespace) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, config.Namespace)
		}
		cfg.Namespace = config.Namespace
	}

	register := config.Register
	if register == nil {
		register = func(name string, fn func([]byte) ([]byte, error)) {
			wapc.RegisterFunction(name, fn)
		}
	}

	s := &SDK{
		runtime: cfg,
		handler: config.Handler,
	}
	register(handlerName, s.handler)

	return s, nil
}

// Config returns the current runtime configuration snapshot.
func (s *SDK) Config() RuntimeConfig { return s.runtime }
