package shsession

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// StatusUnknown is the exit status reported when the stdOut boundary
// line arrived but its errno field could not be parsed.  It's outside
// the 0-255 range of real shell exit codes, so it cannot be confused
// with one.
const StatusUnknown = -666

// markerPrefix is the fixed part of every sentinel marker.
const markerPrefix = "SHSESSION"

// sentinel is the ephemeral per-command boundary marker.
//
// Each Send generates a fresh sentinel and instructs the shell to echo
// it on both output streams after the command runs:
//
//	<command>
//	echo "<marker> errno=$?"
//	echo "<marker>" 1>&2
//
// The stdOut echo piggybacks the exit status of <command> onto the
// boundary line.  The marker embeds a random component so that it is
// overwhelmingly unlikely to appear in the command's genuine output.
// That's a probabilistic guarantee, not an absolute one; a command
// that prints its own input can still defeat it.
type sentinel struct {
	marker string
	outPat *regexp.Regexp
}

func newSentinel() sentinel {
	m := markerPrefix + "-" + uuid.NewString()
	return sentinel{
		marker: m,
		outPat: regexp.MustCompile(regexp.QuoteMeta(m) + ` errno=(\d+)`),
	}
}

// outCommand is the shell command that prints the stdOut boundary line.
func (s sentinel) outCommand() string {
	return fmt.Sprintf(`echo "%s errno=$?"`, s.marker)
}

// errCommand is the shell command that prints the stdErr boundary line.
func (s sentinel) errCommand() string {
	return fmt.Sprintf(`echo "%s" 1>&2`, s.marker)
}

// matchOut reports whether line is the stdOut boundary, and if so the
// exit status carried on it.  Matching is by containment, not equality,
// to tolerate prompt fragments or shell quoting artifacts sharing the
// line.  A boundary line whose errno field doesn't parse still ends
// the stream, with StatusUnknown.
func (s sentinel) matchOut(line string) (int, bool) {
	if !strings.Contains(line, s.marker) {
		return 0, false
	}
	m := s.outPat.FindStringSubmatch(line)
	if m == nil {
		return StatusUnknown, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return StatusUnknown, true
	}
	return n, true
}

// matchErr reports whether line is the stdErr boundary.
func (s sentinel) matchErr(line string) bool {
	return strings.Contains(line, s.marker)
}
