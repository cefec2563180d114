/*
Package mock provides a deterministic networking.Engine for tests.

The Engine serves payloads from a URI-to-bytes response map, falling back to
an optional default payload, and never performs network I/O. Every request
is appended to a call log that tests inspect with Calls or
ExpectRangeRequest.

# Basic Usage

	engine := mock.New(mock.Config{
		Responses: map[string][]byte{"manifest.mpd": manifest},
		Default:   []byte("segment data"),
	})

	resp, err := engine.Request(networking.RequestTypeManifest, networking.NewRequest("manifest.mpd"))

# Unstubbed URIs

A request for a URI that is neither in the response map nor covered by a
default payload fails with an error wrapping ErrUnstubbedURI. When a Logger
is configured the miss is also logged, so it stays visible even if the code
under test swallows the error.

# Inspecting Calls

	if err := engine.ExpectRangeRequest("seg1.mp4", 0, 499); err != nil {
		t.Fatal(err)
	}
*/
package mock
