package memory

import "errors"

var (
	// ErrDimensionMismatch is returned when an embedding or query length
	// differs from the configured dimension. Nothing is mutated.
	ErrDimensionMismatch = errors.New("memory: dimension mismatch")
	// ErrInvalidDimension is returned by New for a dimension <= 0.
	ErrInvalidDimension = errors.New("memory: invalid dimension")
	// ErrInvalidCapacity is returned by New for a capacity <= 0.
	ErrInvalidCapacity = errors.New("memory: invalid capacity")
	// ErrBatchTooLarge is returned when a batch alone exceeds capacity.
	ErrBatchTooLarge = errors.New("memory: batch exceeds capacity")
	// ErrLengthMismatch is returned when embeddings and metadatas differ in
	// length.
	ErrLengthMismatch = errors.New("memory: embeddings and metadatas length mismatch")
	// ErrDuplicateID is returned by Restore when documents repeat an id.
	ErrDuplicateID = errors.New("memory: duplicate id")
)
