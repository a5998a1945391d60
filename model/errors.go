package model

import (
	"errors"
	"fmt"
)

// Root classes of failure. Validation and solver errors wrap exactly one of
// them; I/O errors are passed through.
var (
	// ErrConfiguration reports malformed input detected before any iteration.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumerical reports a failure of the numeric kernels while iterating.
	ErrNumerical = errors.New("numerical error")
)

var (
	// ErrDimensionMismatch reports vectors or matrices of incompatible sizes.
	ErrDimensionMismatch = fmt.Errorf("%w: dimension mismatch", ErrConfiguration)

	// ErrNotSquare reports a coefficient matrix that is not n×n.
	ErrNotSquare = fmt.Errorf("%w: matrix is not square", ErrConfiguration)

	// ErrPartition reports blocks that overlap, leave an index uncovered,
	// are empty or reference an index outside [0, n).
	ErrPartition = fmt.Errorf("%w: invalid partition", ErrConfiguration)

	// ErrNotFinite reports a NaN or infinite coefficient.
	ErrNotFinite = fmt.Errorf("%w: NaN or Inf coefficient", ErrConfiguration)
)
