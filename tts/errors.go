package tts

import (
	"errors"
	"fmt"
)

// Common conversion errors.
var (
	// ErrEmptyInput indicates the input text was empty after trimming.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrInvalidVoice indicates the configured voice is not supported
	// by the selected synthesizer.
	ErrInvalidVoice = errors.New("voice not supported by synthesizer")
)

// Stage identifies the pipeline stage where a conversion failed.
type Stage int

const (
	// StageSegmentation covers segmentation provider failures and
	// provider contract violations.
	StageSegmentation Stage = iota

	// StageSynthesis covers synthesis provider failures after the retry
	// budget is exhausted.
	StageSynthesis

	// StageAssembly covers audio merge failures such as format mismatch.
	StageAssembly

	// StageWrite covers output file failures.
	StageWrite
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageSegmentation:
		return "segmentation"
	case StageSynthesis:
		return "synthesis"
	case StageAssembly:
		return "assembly"
	case StageWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error is a conversion failure carrying the failed stage and, for
// synthesis failures, the segment index and attempt count.
type Error struct {
	Stage    Stage
	Segment  int // failing segment index, or -1 when not segment-specific
	Attempts int // synthesis attempts made, or 0 when not applicable
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Segment >= 0 && e.Attempts > 0:
		return fmt.Sprintf("%s failed: segment %d after %d attempts: %v",
			e.Stage, e.Segment, e.Attempts, e.Err)
	case e.Segment >= 0:
		return fmt.Sprintf("%s failed: segment %d: %v", e.Stage, e.Segment, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func segmentationError(err error) *Error {
	return &Error{Stage: StageSegmentation, Segment: -1, Err: err}
}

func synthesisError(segment, attempts int, err error) *Error {
	return &Error{Stage: StageSynthesis, Segment: segment, Attempts: attempts, Err: err}
}

func assemblyError(err error) *Error {
	return &Error{Stage: StageAssembly, Segment: -1, Err: err}
}

func writeError(err error) *Error {
	return &Error{Stage: StageWrite, Segment: -1, Err: err}
}
