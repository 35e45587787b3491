package shsession

import (
	"fmt"
	"time"
)

// ErrorPolicy decides what a fatal session condition becomes.
// It receives the underlying error and returns whatever Send should
// hand to its caller.  The default policy (a nil ErrorPolicy field)
// propagates the error unchanged.  A policy may wrap, log, or even
// panic, but it must not retry; the session is already unusable.
type ErrorPolicy func(error) error

// SpawnError means the shell subprocess or its streams could not
// be created.
type SpawnError struct {
	Cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("unable to spawn shell; %s", e.Cause.Error())
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// TimeoutError means no data became ready on a stream within the
// session's configured timeout.  Fatal to the Send that hit it.
type TimeoutError struct {
	Stream string
	Wait   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout on %s; no data after %s", e.Stream, e.Wait)
}

// StreamReadError means a stream ended before the boundary marker was
// seen, usually because the shell subprocess died.  Fatal to the Send
// that hit it and to every Send after it.
type StreamReadError struct {
	Stream string
}

func (e *StreamReadError) Error() string {
	return fmt.Sprintf(
		"read error from %s; stream closed before sentinel found", e.Stream)
}
