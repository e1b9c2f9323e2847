package spec

import (
	"sync"

	"golang.org/x/crypto/blake2b"
)

var (
	defaultOnce        sync.Once
	defaultSpec        CommandSpec
	defaultFingerprint [blake2b.Size256]byte
)

// Default returns the built-in command specification: the prelude defined
// in prelude.go, compiled exactly once (spec.md §5 "process-wide lazily
// initialized handle, deterministic initialization").
func Default() CommandSpec {
	initDefault()
	return defaultSpec
}

// DefaultFingerprint returns the BLAKE2b-256 fingerprint of the default
// spec's binary encoding, so a host embedding spec.Default().ToBytes()
// elsewhere can verify it was produced by the same build of this package.
func DefaultFingerprint() [blake2b.Size256]byte {
	initDefault()
	return defaultFingerprint
}

func initDefault() {
	defaultOnce.Do(func() {
		defaultSpec = BuildPrelude().Build()
		bytes, err := defaultSpec.ToBytes()
		if err != nil {
			// ToBytes over an in-memory spec built entirely from this
			// package's own constructors cannot fail; a panic here means a
			// programming error in prelude.go, not a runtime condition.
			panic("spec: default spec failed to encode: " + err.Error())
		}
		defaultFingerprint = blake2b.Sum256(bytes)
	})
}
