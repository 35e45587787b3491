// Package shsession maintains a persistent, synchronous
// command/response channel to a long-lived shell subprocess,
// e.g. /bin/sh, or ssh pointed at some host.
//
// One Session wraps one subprocess.  Each call to Send writes the
// given command to the shell, followed by two echo statements that
// print a freshly generated sentinel marker, one per output stream.
// Send then reads stdout, then stderr, until each stream yields its
// sentinel line.  The text captured before the sentinels, plus the
// exit status piggybacked on the stdout sentinel line, become that
// command's Result.
//
// The protocol is strictly request/response; a Session runs one
// command at a time.  See example_test.go for usage.
package shsession
