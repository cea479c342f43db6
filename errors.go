package kolor

import "errors"

var (
	// ErrMissingCollaborator is returned when a Transcoder is constructed
	// without a strategy its mode requires.
	ErrMissingCollaborator = errors.New("kolor: missing collaborator")

	// ErrInvalidParallelism is returned when the parallelism hint is less
	// than one.
	ErrInvalidParallelism = errors.New("kolor: parallelism must be at least one")

	// ErrWrongMode is returned when a direct color operation is called on an
	// indexed Transcoder or vice versa.
	ErrWrongMode = errors.New("kolor: operation not supported in this mode")

	// ErrNoQuantizer is returned by Quantize when no quantizer is configured.
	ErrNoQuantizer = errors.New("kolor: no quantizer configured")

	// ErrPaletteIndex is returned when a quantizer produces an index outside
	// of its own palette.
	ErrPaletteIndex = errors.New("kolor: palette index out of range")
)
