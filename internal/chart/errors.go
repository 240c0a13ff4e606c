package chart

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDataset    = errors.New("chart: empty dataset")
	ErrIndexOutOfRange = errors.New("chart: index out of range")
	ErrEmptyPalette    = errors.New("chart: empty palette")
	ErrShapeMismatch   = errors.New("chart: dataset shape mismatch")
	ErrInvalidStyle    = errors.New("chart: invalid style")
)

// IndexError reports an accessor called with an index outside its bound.
// Accessors panic with it, the same way slice indexing does; callers that
// recover can match it with errors.Is(err, ErrIndexOutOfRange).
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("chart: %s index %d out of range [0,%d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

func checkIndex(kind string, i, n int) {
	if i < 0 || i >= n {
		panic(&IndexError{Kind: kind, Index: i, Len: n})
	}
}
