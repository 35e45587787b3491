package channeler

// Streams holds the three byte streams of a shell subprocess,
// exposed as line-oriented channels.
type Streams struct {
	// StdIn accepts command lines for the shell.  A line is sent
	// verbatim, other than the addition of a trailing newline if
	// one isn't already present.  Close StdIn to initiate graceful
	// shutdown of the shell.
	StdIn chan<- string

	// StdOut delivers lines from the shell's stdout, newline removed.
	StdOut <-chan string

	// StdErr delivers lines from the shell's stderr, newline removed.
	StdErr <-chan string

	// Done reports the shell's exit condition.  It yields at most
	// one error, then closes.  Block on it after closing StdIn to
	// confirm the shell finished cleanly.  An error before StdIn is
	// closed means the subprocess or its plumbing failed.
	Done <-chan error
}
