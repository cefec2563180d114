/*
Package logging offers a leveled logger for functions running on the waPC
host.

Each level maps to a host function of the logging capability (Info, Warn,
Error, Debug, Trace). Emission is best-effort: a failed host call is
dropped so logging never changes the caller's control flow. Discard returns
a no-op Client for components that were not given a logger.
*/
package logging
