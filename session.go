package shsession

import (
	"fmt"
	"sync"
	"time"

	"github.com/monopole/shsession/channeler"
)

// Stream names used in error reporting.
const (
	streamStdIn  = "stdIn"
	streamStdOut = "stdOut"
	streamStdErr = "stdErr"
)

// Session owns one shell subprocess and runs the synchronous
// command/response protocol over its three streams.
//
// A Session is in one of three conditions:
//
// live: the subprocess is healthy; Send and Close are usable.
//
// broken: a Send hit a fatal condition (timeout, dead subprocess).
// Every further Send fails fast; the session must be reconstructed.
//
// closed: Close was called; nothing further is usable.
//
// A mutex serializes Send, Close and the accessors, so a Session may
// be shared across goroutines, but commands never overlap: the
// protocol is strictly one command in flight at a time.
type Session struct {
	mu      sync.Mutex
	streams *channeler.Streams
	timeout time.Duration
	onFatal ErrorPolicy
	last    Result
	broken  error
	closed  bool
}

// streamsMakerF can be mocked in tests with bare channels
// (channels not associated with a shell, just made in a test).
type streamsMakerF func() (*channeler.Streams, error)

// NewSession spawns the shell subprocess described by p and returns a
// live Session wired to it.  A spawn failure is routed through the
// error policy as a SpawnError.
func NewSession(p Parameters) (*Session, error) {
	p.setDefaults()
	return NewSessionRaw(
		func() (*channeler.Streams, error) {
			if err := p.Validate(); err != nil {
				return nil, err
			}
			return channeler.Start(&p.Params)
		},
		p.Timeout,
		p.OnFatal,
	)
}

// NewSessionRaw returns a Session over streams obtained from the given
// maker function.  Allows testing with injected channels instead of a
// real shell subprocess.
func NewSessionRaw(
	f streamsMakerF, timeout time.Duration, onFatal ErrorPolicy) (
	*Session, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	s := &Session{timeout: timeout, onFatal: onFatal}
	streams, err := f()
	if err != nil {
		return nil, s.route(&SpawnError{Cause: err})
	}
	s.streams = streams
	return s, nil
}

// Send writes command to the shell, followed by the two sentinel echo
// lines, then drains stdOut and stdErr up to their boundary lines.
// The captured text and the exit status parsed from the stdOut
// boundary become the returned Result, which also overwrites the
// session's last result.
//
// The command text is passed to the shell as-is; it may hold several
// statements, and nothing here validates its syntax.
//
// An error return means the command's outcome is unknown.  The last
// result is not updated, and the session is broken: it will refuse
// further Sends until reconstructed.
func (s *Session) Send(command string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Result{}, fmt.Errorf("session is closed")
	}
	if s.broken != nil {
		return Result{}, fmt.Errorf(
			"session unusable after earlier failure; %w", s.broken)
	}
	sen := newSentinel()
	logger.Debugf(
		"send; %q with marker %s", channeler.Abbrev(command), sen.marker)
	for _, line := range []string{
		command, sen.outCommand(), sen.errCommand()} {
		if err := s.push(line); err != nil {
			return Result{}, s.fail(err)
		}
	}
	stdOut, status, err := drainStream(
		s.streams.StdOut, streamStdOut, s.timeout, sen.matchOut)
	if err != nil {
		return Result{}, s.fail(err)
	}
	stdErr, _, err := drainStream(
		s.streams.StdErr, streamStdErr, s.timeout,
		func(line string) (int, bool) { return 0, sen.matchErr(line) })
	if err != nil {
		return Result{}, s.fail(err)
	}
	s.last = Result{Stdout: stdOut, Stderr: stdErr, ExitStatus: status}
	return s.last, nil
}

// push enqueues one line for the shell's stdin, giving up after the
// session timeout or on evidence that the subprocess is gone.
func (s *Session) push(line string) error {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case s.streams.StdIn <- line:
		return nil
	case err := <-s.streams.Done:
		if err == nil {
			err = fmt.Errorf("shell terminated")
		}
		return fmt.Errorf("writing to stdIn; %w", err)
	case <-timer.C:
		return &TimeoutError{Stream: streamStdIn, Wait: s.timeout}
	}
}

// Close gracefully shuts the session down.  If finalCommand is
// non-empty it's sent first (presumably something like "exit 0"),
// then stdin is closed, then Close waits up to the session timeout
// for the subprocess to finish.
func (s *Session) Close(finalCommand string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session already closed")
	}
	s.closed = true
	if finalCommand != "" && s.broken == nil {
		if err := s.push(finalCommand); err != nil {
			close(s.streams.StdIn)
			return s.route(err)
		}
	}
	close(s.streams.StdIn)
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case err := <-s.streams.Done:
		// nil here (or a closed Done channel) means a clean exit.
		return err
	case <-timer.C:
		return s.route(&TimeoutError{Stream: "done", Wait: s.timeout})
	}
}

// Last returns the most recently captured Result.
// It's overwritten only by a successful Send.
func (s *Session) Last() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Stdout returns the stdout text of the last successful Send.
func (s *Session) Stdout() string { return s.Last().Stdout }

// Stderr returns the stderr text of the last successful Send.
func (s *Session) Stderr() string { return s.Last().Stderr }

// ExitStatus returns the exit status of the last successful Send.
func (s *Session) ExitStatus() int { return s.Last().ExitStatus }

// Timeout returns the current per-read timeout.
func (s *Session) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

// SetTimeout changes the per-read timeout and returns the now-current
// value.  A non-positive d leaves the prior value in place, making the
// no-op observable in the return value.
func (s *Session) SetTimeout(d time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.timeout = d
	}
	return s.timeout
}

// fail marks the session broken and routes err through the policy.
func (s *Session) fail(err error) error {
	s.broken = err
	logger.Warnf("session broken; %s", err.Error())
	return s.route(err)
}

// route applies the error policy, defaulting to plain propagation.
func (s *Session) route(err error) error {
	if s.onFatal != nil {
		return s.onFatal(err)
	}
	return err
}
