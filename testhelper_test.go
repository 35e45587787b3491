package shsession_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/monopole/shsession/channeler"
)

const (
	theShell = "/bin/sh"

	timeOutLong = 2 * time.Second
	// timeOutShort is a "short" timeout, for happy cases.
	timeOutShort = 800 * time.Millisecond
	timeOutTiny  = 30 * time.Millisecond
)

func assertNoErr(err error) {
	if err != nil {
		panic("example failure: unexpected err: " + err.Error())
	}
}

// fakeShell stands in for a shell subprocess with bare channels,
// so protocol tests need no live subprocess.
type fakeShell struct {
	stdIn  chan string
	stdOut chan string
	stdErr chan string
	done   chan error
}

func newFakeShell() *fakeShell {
	return &fakeShell{
		// stdIn is buffered so that a Send can enqueue its three
		// lines before the fake gets around to reading them.
		stdIn:  make(chan string, 10),
		stdOut: make(chan string, 100),
		stdErr: make(chan string, 100),
		done:   make(chan error, 1),
	}
}

func (f *fakeShell) streams() (*channeler.Streams, error) {
	return &channeler.Streams{
		StdIn:  f.stdIn,
		StdOut: f.stdOut,
		StdErr: f.stdErr,
		Done:   f.done,
	}, nil
}

// markerOf extracts the sentinel marker from the stdout echo line,
// which looks like:  echo "MARKER errno=$?"
func markerOf(outEcho string) string {
	s := strings.TrimPrefix(outEcho, `echo "`)
	if i := strings.Index(s, " errno="); i >= 0 {
		return s[:i]
	}
	return s
}

// consume reads one command's worth of input (the command plus the two
// sentinel echoes) and returns the marker Send generated for it.
func (f *fakeShell) consume() string {
	<-f.stdIn // the command itself
	marker := markerOf(<-f.stdIn)
	<-f.stdIn // the stderr echo
	return marker
}

// respond plays the shell's role for one command: consume the three
// input lines, then emit the scripted output followed by the two
// boundary lines.
func (f *fakeShell) respond(status int, outLines, errLines []string) {
	go func() {
		marker := f.consume()
		for _, l := range outLines {
			f.stdOut <- l
		}
		f.stdOut <- fmt.Sprintf("%s errno=%d", marker, status)
		for _, l := range errLines {
			f.stdErr <- l
		}
		f.stdErr <- marker
	}()
}
