package channeler_test

import (
	"testing"
	"time"

	. "github.com/monopole/shsession/channeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const theShell = "/bin/sh"

// collect drains a closed (or closing) stream into a slice.
// Safe to call after Done has been observed, since both output
// channels close before Done yields.
func collect(ch <-chan string) []string {
	var lines []string
	for line := range ch {
		lines = append(lines, line)
	}
	return lines
}

func TestStartHappy(t *testing.T) {
	chs, err := Start(&Params{Path: theShell})
	require.NoError(t, err)
	chs.StdIn <- "echo alpha"
	chs.StdIn <- "echo beta 1>&2"
	close(chs.StdIn)
	assert.NoError(t, <-chs.Done)
	assert.Equal(t, []string{"alpha"}, collect(chs.StdOut))
	assert.Equal(t, []string{"beta"}, collect(chs.StdErr))
}

func TestStartExitZero(t *testing.T) {
	chs, err := Start(&Params{Path: theShell})
	require.NoError(t, err)
	chs.StdIn <- "echo alpha"
	chs.StdIn <- "exit 0"
	close(chs.StdIn)
	assert.NoError(t, <-chs.Done)
	assert.Equal(t, []string{"alpha"}, collect(chs.StdOut))
}

func TestStartExitNonZero(t *testing.T) {
	chs, err := Start(&Params{Path: theShell})
	require.NoError(t, err)
	chs.StdIn <- "exit 77"
	close(chs.StdIn)
	err = <-chs.Done
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "exit status 77")
	}
}

func TestStartBadPath(t *testing.T) {
	_, err := Start(&Params{Path: "beamMeUpScotty"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), `path "beamMeUpScotty" not available`)
	}
}

func TestStartWithBackPressure(t *testing.T) {
	p := &Params{
		Path: theShell,
		// Small buffer plus no consumer creates backpressure.
		BuffSizeOut:     1,
		ConsumerTimeout: 50 * time.Millisecond,
	}
	chs, err := Start(p)
	require.NoError(t, err)
	chs.StdIn <- "seq 1 100"
	close(chs.StdIn)
	err = <-chs.Done
	if assert.Error(t, err) {
		assert.Contains(
			t, err.Error(),
			"timeout of 50ms elapsed awaiting write to stdOut")
	}
}
