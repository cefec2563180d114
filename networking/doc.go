/*
Package networking defines the request model shared by the streaming
client's networking components and a host-backed Engine that performs
requests through the runtime's httpclient capability.

Manifests, segments, licenses and the like are all fetched through the
Engine interface, tagged with a RequestType. Byte ranges are expressed as
a Range header built by RangeHeader; NewSegmentRequest does this for the
common case.

Tests substitute the Engine with networking/mock, which serves
pre-configured payloads and records every request.
*/
package networking
