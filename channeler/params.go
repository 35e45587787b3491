package channeler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Params captures all parameters to channeler.Start.
// It's a mix of subprocess parameters, like Path and Args,
// and orchestration parameters like buffer sizes and timeouts.
type Params struct {
	// Path is either the absolute path to the executable, or a $PATH
	// relative command name.  This is the shell being run,
	// e.g. "/bin/sh", or "ssh" with a host in Args.
	Path string

	// Args has the arguments, flags and flag arguments for the
	// shell invocation.
	Args []string

	// WorkingDir is the working directory of the shell process.
	WorkingDir string

	// BuffSizeIn is how many command lines can be enqueued on StdIn
	// before a send will block.
	BuffSizeIn int

	// BuffSizeOut is how many lines of shell stdout can pile up
	// before back pressure is applied to the subprocess.
	BuffSizeOut int

	// BuffSizeErr is like BuffSizeOut, except for stderr.
	BuffSizeErr int

	// ConsumerTimeout is how long a full StdOut or StdErr channel may
	// go unconsumed before the subprocess is abandoned.  It's the
	// escape hatch from the deadlock that would otherwise arise when
	// the shell floods a stream nobody is draining; without it a
	// blocked forwarder would also block cmd.Wait.
	ConsumerTimeout time.Duration
}

const (
	defaultBuffSizeIn      = 100
	defaultBuffSizeOut     = 10000
	defaultBuffSizeErr     = 1000
	defaultConsumerTimeout = 5 * time.Second
)

// Validate applies defaults and returns an error if the
// subprocess cannot possibly be started from these Params.
func (p *Params) Validate() error {
	p.setDefaults()
	if err := p.validateWorkDir(); err != nil {
		return err
	}
	return p.validatePath()
}

func (p *Params) setDefaults() {
	if p.BuffSizeIn < 1 {
		p.BuffSizeIn = defaultBuffSizeIn
	}
	if p.BuffSizeOut < 1 {
		p.BuffSizeOut = defaultBuffSizeOut
	}
	if p.BuffSizeErr < 1 {
		p.BuffSizeErr = defaultBuffSizeErr
	}
	if p.ConsumerTimeout == 0 {
		p.ConsumerTimeout = defaultConsumerTimeout
	}
}

func (p *Params) validateWorkDir() (err error) {
	p.WorkingDir, err = filepath.Abs(p.WorkingDir)
	if err != nil {
		return paramErrCaused(err, "bad working dir path")
	}
	var info os.FileInfo
	info, err = os.Stat(p.WorkingDir)
	if err != nil {
		return paramErrCaused(err, "bad working dir stat")
	}
	if !info.IsDir() {
		return paramErr("%q is not a directory that exists", p.WorkingDir)
	}
	return nil
}

func (p *Params) validatePath() error {
	if p.Path == "" {
		return paramErr("must specify Path to the shell to run")
	}
	if _, err := exec.LookPath(p.Path); err != nil {
		return paramErrCaused(err, "path %q not available", p.Path)
	}
	return nil
}

func paramErr(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

func paramErrCaused(cause error, format string, args ...interface{}) error {
	return fmt.Errorf(format+"; %w", append(args, cause)...)
}
