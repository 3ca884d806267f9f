// Package main hosts the deltakey CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into dataset
// loading, identification session operations, and the HTTP API server. It
// centralizes configuration resolution and store wiring so subcommands can
// focus on user experience instead of plumbing.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
