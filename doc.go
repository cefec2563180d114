/*
Package sdk provides the entry point and runtime configuration for media
streaming functions that run on a waPC host.

New registers the function handler with waPC. RuntimeConfig carries the
namespace shared by the capability clients (networking, logging, metrics).
DefaultNamespace is used when a namespace is not explicitly provided.
*/
package sdk
