package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoDescriptor      = errors.New("no .modinfo file found in folder or immediate subfolder")
	ErrNoToolAvailable   = errors.New("no suitable extraction tool found")
	ErrExtractionFailed  = errors.New("archive extraction failed")
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrAlreadyExists     = errors.New("mod already exists")
	ErrCancelled         = errors.New("installation cancelled")
	ErrNotFound          = errors.New("mod not found")
	ErrCrossVolume       = errors.New("mod folders are on different volumes")
	ErrInvalidName       = errors.New("invalid mod folder name")
	ErrNoDefaultRoots    = errors.New("no default mods directory for this platform")
)

// NoToolError is returned when no extraction tool on this machine can handle an archive.
// Hint lists the tools the user can install, worded for the detected platform.
type NoToolError struct {
	Platform  string
	Extension string
	Hint      string
}

func (e *NoToolError) Error() string {
	return fmt.Sprintf("%s for %s archives\n\n%s", ErrNoToolAvailable, e.Extension, e.Hint)
}

// Is makes errors.Is(err, ErrNoToolAvailable) match.
func (e *NoToolError) Is(target error) bool {
	return target == ErrNoToolAvailable
}

// ExtractionError wraps a failed invocation of an external extraction tool.
type ExtractionError struct {
	Tool   string
	Output string // Tool's stderr (or stdout when stderr was empty)
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrExtractionFailed, e.Tool)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\nOutput: " + e.Output
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrExtractionFailed) match.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}
