package sphere

import "errors"

// ErrInvalidParameter is wrapped by every error this package returns for
// out-of-domain input.
var ErrInvalidParameter = errors.New("invalid parameter")

// Tolerance used to reject vectors that cannot be normalized and rotations
// that drift from orthonormality.
const (
	normEpsilon     = 1e-12
	rotationEpsilon = 1e-6
)
