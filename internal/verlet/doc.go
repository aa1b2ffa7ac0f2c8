// Package verlet is a 2D particle engine built on position Verlet
// integration and iterative constraint projection.
//
// The package provides:
//
//   - [World]: fixed-capacity particle arena with stable indices
//   - [World.Integrate]: Verlet step, velocity inferred from position history
//   - [World.ResolveCollisions]: O(n^2) equal-mass push-apart
//   - [AccessGrid]: spatial hash broad-phase for large particle counts
//   - [World.ConstrainDistanceFromPoint], [World.ConstrainDistanceBetween],
//     [World.ConstrainBoundingBox]: one-shot position projections
//   - [Links]: tethers that tear permanently when overstrained
//
// # Example
//
//	w := verlet.NewWorld(128)
//	w.Spawn(0, 0, 0.5)
//	for {
//	    w.Integrate(dt)
//	    for i := 0; i < substeps; i++ {
//	        w.ResolveCollisions()
//	        w.ConstrainAllToBox(-10, 10, -10, 10)
//	    }
//	    w.ApplyGravity(9.8)
//	}
//
// # Timestep
//
// Velocity is position minus previous position, so dt must stay constant
// for a World's lifetime. Integrate rejects a changed dt with
// [ErrTimestepChanged].
//
// # Thread Safety
//
// A World and its AccessGrid are NOT safe for concurrent use. Pair
// resolution is order dependent, so parallelising it changes results; run
// independent Worlds in parallel instead.
package verlet
