package shsession

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundaryOn(marker string) func(string) (int, bool) {
	return func(line string) (int, bool) {
		return 0, strings.Contains(line, marker)
	}
}

func TestDrainStreamCapturesUpToBoundary(t *testing.T) {
	ch := make(chan string, 10)
	ch <- "one"
	ch <- "two"
	ch <- "THE-END"
	ch <- "leftover for the next command"
	captured, _, err := drainStream(
		ch, "stdOut", time.Second, boundaryOn("THE-END"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", captured)
	// The boundary line was consumed, later lines were not.
	assert.Equal(t, 1, len(ch))
}

func TestDrainStreamTimerResetsPerLine(t *testing.T) {
	ch := make(chan string)
	go func() {
		// Each gap is under the timeout, though the total is over it.
		for _, line := range []string{"a", "b", "c", "THE-END"} {
			time.Sleep(30 * time.Millisecond)
			ch <- line
		}
	}()
	captured, _, err := drainStream(
		ch, "stdOut", 80*time.Millisecond, boundaryOn("THE-END"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", captured)
}

func TestDrainStreamTimeout(t *testing.T) {
	ch := make(chan string)
	_, _, err := drainStream(
		ch, "stdErr", 30*time.Millisecond, boundaryOn("never"))
	require.Error(t, err)
	var te *TimeoutError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "stdErr", te.Stream)
}

func TestDrainStreamClosed(t *testing.T) {
	ch := make(chan string, 2)
	ch <- "partial"
	close(ch)
	_, _, err := drainStream(ch, "stdOut", time.Second, boundaryOn("never"))
	require.Error(t, err)
	var re *StreamReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "stdOut", re.Stream)
}
