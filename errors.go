package main

import (
	"github.com/pkg/errors"
)

// ExitCode is the process status for an error that reaches main.
type ExitCode uint8

const (
	ExitGenericError ExitCode = 1
	ExitInvalidInput ExitCode = 2
	ExitWriteFailure ExitCode = 3
)

// HasExitCode is an error carrying the status the process should exit with.
type HasExitCode interface {
	error
	ExitCode() ExitCode
}

// withExitCodeIfNone attaches code to err unless something in its chain
// already carries one.
func withExitCodeIfNone(err error, code ExitCode) error {
	if err == nil {
		return nil
	}
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return err
	}
	return withExitCode{err, code}
}

type withExitCode struct {
	error
	exitCode ExitCode
}

func (we withExitCode) Unwrap() error {
	return we.error
}

func (we withExitCode) ExitCode() ExitCode {
	return we.exitCode
}

var _ HasExitCode = withExitCode{}

func exitCodeOf(err error) ExitCode {
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return ecerr.ExitCode()
	}
	return ExitGenericError
}
