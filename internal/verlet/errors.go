package verlet

import "errors"

// Domain errors for engine operations.
var (
	// ErrCapacityExceeded indicates an insert into a full World or Links set.
	// The collection is left unchanged.
	ErrCapacityExceeded = errors.New("verlet: capacity exceeded")

	// ErrIndexOutOfRange indicates a particle index that does not exist in the World.
	ErrIndexOutOfRange = errors.New("verlet: particle index out of range")

	// ErrInvalidTimestep indicates a non-positive or non-finite timestep.
	ErrInvalidTimestep = errors.New("verlet: invalid timestep")

	// ErrTimestepChanged indicates Integrate was called with a timestep that
	// differs from the one the World was started with. Velocity is inferred
	// from position history, so a changed dt would corrupt it.
	ErrTimestepChanged = errors.New("verlet: timestep changed between steps")

	// ErrInvalidGrid indicates grid geometry with non-positive dimensions.
	ErrInvalidGrid = errors.New("verlet: invalid grid geometry")
)
