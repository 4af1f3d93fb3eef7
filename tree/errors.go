package tree

import (
	"errors"
	"fmt"

	"github.com/brettbedarf/memtree/internal/validate"
)

var (
	// ErrInvalidName indicates a path failing the name grammar
	ErrInvalidName = validate.ErrInvalidName

	// ErrInvalidPath indicates a path failing the separator/dot grammar or length bound
	ErrInvalidPath = validate.ErrInvalidPath

	// ErrTargetIsFile indicates an attempt to place a node under a file
	ErrTargetIsFile = errors.New("target is a file")

	// ErrMissingDirectory indicates file creation through a directory that doesn't exist
	ErrMissingDirectory = errors.New("directory doesn't exist")
)

// Operation names carried by [OpError]
const (
	OpMkdir  = "mkdir"  // CreateDirectory and CreateDirectoryAtomic
	OpCreate = "create" // CreateFile
)

// MissingDirectoryError names the first path segment that did not resolve to
// an existing directory. It matches [ErrMissingDirectory] with errors.Is.
type MissingDirectoryError struct {
	Segment string
}

func (e *MissingDirectoryError) Error() string {
	return fmt.Sprintf("directory %s doesn't exist", e.Segment)
}

func (e *MissingDirectoryError) Is(target error) bool {
	return target == ErrMissingDirectory
}

// OpError wraps any failure of a tree operation with the operation and the
// full path it was given.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *OpError) Unwrap() error {
	return e.Err
}

// IsValidationErr reports whether err is a precondition failure, meaning the
// tree was not touched.
func IsValidationErr(err error) bool {
	return errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidPath)
}

func targetIsFile(segment string) error {
	return fmt.Errorf("%s: %w", segment, ErrTargetIsFile)
}
