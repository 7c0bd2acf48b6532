package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss is returned by lookups when no usable record exists for a
	// key. A corrupt record or a record with missing artifacts also surfaces
	// as a miss.
	ErrCacheMiss = errors.New("cache entry not found")

	// ErrCacheRecordCorrupt marks a persisted record that could not be parsed.
	ErrCacheRecordCorrupt = errors.New("cache record corrupt")

	// ErrRefNotFound is returned by storage backends when a ref does not
	// resolve to a stored object.
	ErrRefNotFound = errors.New("artifact ref not found")
)

// ScriptGenerationError wraps a failure of the script source. It is terminal
// for the stream that triggered it.
type ScriptGenerationError struct {
	Err error
}

func (e *ScriptGenerationError) Error() string {
	return fmt.Sprintf("script generation failed: %v", e.Err)
}

func (e *ScriptGenerationError) Unwrap() error { return e.Err }

type SynthesisErrorKind string

const (
	SynthesisRateLimited SynthesisErrorKind = "rate_limited"
	SynthesisAuthFailed  SynthesisErrorKind = "auth_failed"
	SynthesisTimedOut    SynthesisErrorKind = "timed_out"
	SynthesisProvider    SynthesisErrorKind = "provider_error"
)

// SynthesisError classifies a TTS engine failure. The core never retries
// these; retrying is the provider adapter's business.
type SynthesisError struct {
	Kind SynthesisErrorKind
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed (%s): %v", e.Kind, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// PersistenceError wraps a storage backend failure for a specific ref.
type PersistenceError struct {
	Ref string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed for %s: %v", e.Ref, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
