//go:build !ios && !android && (amd64 || arm64)

// Package shlublu provides utility facilities for hosting Go programs:
// an embedded Python interpreter with reference-counted object
// tracking, a re-entrant mutex, CRC accumulators, string helpers,
// numeric helpers and randomness conveniences.
//
// The embedded interpreter is the main feature. Use the re-exported
// entry points here for the common lifecycle, or the python package
// directly for the full API:
//
//	if err := shlublu.Init("myprogram"); err != nil {
//		log.Fatal(err)
//	}
//	defer shlublu.Shutdown()
//
// The other facilities live in their own packages: concurrent, crc,
// text, mathx and random.
package shlublu

import (
	"github.com/shlublu/shlublu-go/internal/cpython"
	"github.com/shlublu/shlublu-go/python"
)

// Init starts the embedded Python interpreter under the given program
// name, optionally appending import paths to the module search path.
// It is safe to call multiple times.
func Init(programName string, paths ...string) error {
	return python.Init(programName, paths...)
}

// IsInitialized returns true if the interpreter is currently running.
func IsInitialized() bool {
	return python.IsInitialized()
}

// Shutdown releases every tracked object and stops the interpreter.
// It is a no-op when the interpreter is not running.
func Shutdown() error {
	return python.Shutdown()
}

// RuntimeVersion returns the version banner of the Python runtime the
// process linked against, or an empty string when no runtime could be
// loaded.
func RuntimeVersion() string {
	if err := cpython.Load(); err != nil {
		return ""
	}
	return cpython.GetVersion()
}

// Re-export the interpreter types for convenience
type (
	// Handle designates a tracked Python object.
	Handle = python.Handle

	// RefPolicy states what happens to an argument's reference when
	// an operation consumes it.
	RefPolicy = python.RefPolicy

	// CacheMode states whether a callable lookup may be served from
	// the cache.
	CacheMode = python.CacheMode
)

// Re-export the interpreter constants
const (
	// Transfer passes ownership of the reference to the operation.
	Transfer = python.Transfer

	// Retain keeps the caller's reference alive across the operation.
	Retain = python.Retain

	// Cached serves callable lookups from the cache when possible.
	Cached = python.Cached

	// Reload forces a callable lookup to re-resolve the attribute.
	Reload = python.Reload

	// MainModule is the name of the interpreter's __main__ module.
	MainModule = python.MainModule

	// BuiltinsModule is the name of the interpreter's builtins module.
	BuiltinsModule = python.BuiltinsModule
)
