/*
Package hostmock provides a pretend waPC host for tests.

Capability clients in this module (networking, logging, metrics) accept a
HostCall function. Passing Mock.HostCall lets a test assert exactly what a
client sends to the host and script what the host answers, without a real
runtime.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "streamfn",
	  ExpectedCapability: "httpclient",
	  ExpectedFunction:   "call",
	  PayloadValidator: func(p []byte) error {
	    // Unmarshal and assert fields here
	    return nil
	  },
	  Response: func() []byte { return okResponse },
	})

	engine, _ := networking.New(networking.Config{HostCall: m.HostCall})

Behavior

  - Every invocation is appended to the call log first; read it with Calls or CallsTo.
  - If Fail is true, HostCall returns Error, or ErrOperationFailed when Error is nil.
  - Expected namespace, capability and function are enforced only when set.
  - PayloadValidator runs next; then Response provides the return bytes, or nil.
*/
package hostmock
