// Package editor owns the graph being edited.
//
// A [Controller] holds the current graph value and its validation report.
// Every editing command goes through it: the command is applied by the
// mutation policy, the new graph is validated in full, and the resulting
// [Snapshot] is pushed to subscribers before the command returns.
//
// The controller serializes commands with a mutex, so editing surfaces that
// call it from several goroutines (HTTP handlers, the terminal editor) see
// the same behavior as a single-threaded event loop. Graph values are
// immutable; a Snapshot stays consistent after later commands.
//
// Layout runs only when asked for with [Controller.RunLayout]. When a cache
// is configured, layouts are memoized by topology.
package editor
