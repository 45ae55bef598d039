package pipeline

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline stage where processing failed.
type Stage string

const (
	StageRasterize  Stage = "rasterize"
	StagePreprocess Stage = "preprocess"
	StageRecognize  Stage = "recognize"
)

// StageError wraps a failure from a specific pipeline stage so that callers
// can report which stage broke without parsing error strings.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrVendorNotRecognized indicates that OCR succeeded but no known vendor
// marker was found in the recognized text. Unlike a StageError this is a
// property of the document, not a processing fault.
var ErrVendorNotRecognized = errors.New("vendor not recognized")
