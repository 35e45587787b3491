package channeler

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Start starts a shell subprocess and returns the Streams needed
// to interact with and control it.
// To stop the shell, close its StdIn channel.
func Start(p *Params) (*Streams, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cmd := exec.Command(p.Path, p.Args...)
	cmd.Dir = p.WorkingDir

	stdIn, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdIn for %q; %w", p.Path, err)
	}

	var pipe io.ReadCloser

	pipe, err = cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdOut for %q; %w", p.Path, err)
	}
	scanOut := bufio.NewScanner(pipe)

	pipe, err = cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdErr for %q; %w", p.Path, err)
	}
	scanErr := bufio.NewScanner(pipe)

	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("trying to start %q; %w", p.Path, err)
	}

	chStdIn := make(chan string, p.BuffSizeIn)
	chStdOut := make(chan string, p.BuffSizeOut)
	chStdErr := make(chan string, p.BuffSizeErr)
	// Buffered so that a forwarder can report an error even when
	// nobody happens to be blocked on Done at that moment.
	chDone := make(chan error, 1)

	// scanWg lives as long as the subprocess; cmd.Wait must not be
	// called until both output scanners have finished with their pipes.
	var scanWg sync.WaitGroup
	scanWg.Add(1)
	go forwardStream(
		&scanWg, chDone, p.ConsumerTimeout, chStdOut, "stdOut", scanOut)
	scanWg.Add(1)
	go forwardStream(
		&scanWg, chDone, p.ConsumerTimeout, chStdErr, "stdErr", scanErr)

	go forwardInput(&scanWg, chDone, chStdIn, stdIn, cmd.Wait, scanOut, scanErr)

	return &Streams{
		StdIn:  chStdIn,
		StdOut: chStdOut,
		StdErr: chStdErr,
		Done:   chDone,
	}, nil
}

// forwardInput writes command lines to the subprocess until chStdIn
// closes, then shepherds the subprocess through its shutdown and
// reports the exit condition on chDone.
func forwardInput(
	scanWg *sync.WaitGroup,
	chDone chan<- error,
	chStdIn <-chan string,
	stdIn io.WriteCloser,
	cmdWait func() error,
	scanOut *bufio.Scanner,
	scanErr *bufio.Scanner,
) {
	defer close(chDone)
	for line := range chStdIn {
		logger.Debugf("stdIn; issuing %q", abbrev(line))
		if _, err := io.WriteString(stdIn, terminated(line)); err != nil {
			chDone <- fmt.Errorf("unable to write to stdIn; %w", err)
			return
		}
	}
	logger.Debugf("stdIn; channel closed, shutting down subprocess")
	if err := stdIn.Close(); err != nil {
		chDone <- fmt.Errorf("unable to close stdIn; %w", err)
		return
	}
	scanWg.Wait()
	if err := cmdWait(); err != nil {
		chDone <- fmt.Errorf("cmd.Wait returns: %w", err)
		return
	}
	if err := scanOut.Err(); err != nil {
		chDone <- fmt.Errorf("stdout scan incomplete; %w", err)
		return
	}
	if err := scanErr.Err(); err != nil {
		chDone <- fmt.Errorf("stderr scan incomplete; %w", err)
	}
}

// forwardStream copies lines from one subprocess output pipe into the
// given channel, closing the channel when the pipe is exhausted.
// If a full channel goes unconsumed for longer than consumerTimeout,
// the stream is abandoned; otherwise a blocked forwarder would also
// block cmd.Wait.
func forwardStream(
	scanWg *sync.WaitGroup,
	chDone chan<- error,
	consumerTimeout time.Duration,
	chStream chan<- string,
	name string,
	scanner *bufio.Scanner,
) {
	count := 0
	timer := time.NewTimer(consumerTimeout)
	defer timer.Stop()
	for scanner.Scan() {
		line := scanner.Text()
		count++
		logger.Debugf("%s; line #%d: %q", name, count, abbrev(line))
		if !timer.Stop() {
			<-timer.C
		}
		timer.Reset(consumerTimeout)
		select {
		case chStream <- line:
		case <-timer.C:
			err := paramErr(
				"timeout of %s elapsed awaiting write to %s",
				consumerTimeout, name)
			logger.Warnf("%s; %s", name, err.Error())
			select {
			case chDone <- err:
			default:
				// Another forwarder already reported; this
				// error is redundant.
			}
			close(chStream)
			scanWg.Done()
			return
		}
	}
	logger.Debugf("%s; scan done after %d lines", name, count)
	close(chStream)
	scanWg.Done()
}

const newLineChar = '\n'

// terminated assures the line ends with exactly what the shell
// needs to treat it as a complete command: a newline.
func terminated(line string) string {
	if strings.HasSuffix(line, string(newLineChar)) {
		return line
	}
	return line + string(newLineChar)
}
