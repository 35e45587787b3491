package shsession

// Result is the full captured outcome of one command.
type Result struct {
	// Stdout is everything the command wrote to stdout,
	// up to but not including the boundary line.
	Stdout string

	// Stderr is everything the command wrote to stderr,
	// up to but not including the boundary line.
	Stderr string

	// ExitStatus is the command's exit status as reported by the
	// shell's own status variable, or StatusUnknown if the boundary
	// line didn't carry a parsable status.
	ExitStatus int
}
