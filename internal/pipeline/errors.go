package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrIndexing     = errors.New("indexing failed")
	ErrEmbedding    = errors.New("query embedding failed")
	ErrGeneration   = errors.New("answer generation failed")
)

// InputError is a request rejected before any pipeline work.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string        { return e.Reason }
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// Stage names the ingestion step an IndexingError came from.
type Stage string

const (
	StageLoad  Stage = "load"
	StageChunk Stage = "chunk"
	StageEmbed Stage = "embed"
	StageIndex Stage = "index"
)

// IndexingError aborts a build. No pipeline exists after one.
type IndexingError struct {
	Stage Stage
	Err   error
}

func (e *IndexingError) Error() string        { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *IndexingError) Unwrap() error        { return e.Err }
func (e *IndexingError) Is(target error) bool { return target == ErrIndexing }

// GenerationError wraps a generator failure. Ask turns it into an answer
// instead of returning it.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string        { return "Error generating answer: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error        { return e.Err }
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }
