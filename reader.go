package shsession

import (
	"strings"
	"time"
)

// drainStream runs the boundary-detection protocol against one output
// stream: receive lines, each receive bounded by timeout, accumulating
// everything that precedes the line match recognizes as the boundary.
// The boundary line itself is consumed but not captured.
// match also yields the exit status carried on the boundary line
// (meaningful only for stdOut).
func drainStream(
	stream <-chan string,
	name string,
	timeout time.Duration,
	match func(line string) (int, bool),
) (string, int, error) {
	var captured strings.Builder
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line, stillOpen := <-stream:
			if !stillOpen {
				// The subprocess is gone; likely crashed.
				return "", 0, &StreamReadError{Stream: name}
			}
			if status, boundary := match(line); boundary {
				logger.Debugf("%s; sentinel found after %d bytes",
					name, captured.Len())
				return captured.String(), status, nil
			}
			captured.WriteString(line)
			captured.WriteByte('\n')
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(timeout)
		case <-timer.C:
			return "", 0, &TimeoutError{Stream: name, Wait: timeout}
		}
	}
}
