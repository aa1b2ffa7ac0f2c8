// Package analysis extracts signals from recorded runs.
//
//   - [Trace], [Path]: per-particle coordinate series from frames
//   - [PowerSpectrum], [DominantFrequency]: FFT of a trace
//   - [Divergence]: largest Lyapunov exponent by trajectory separation
//   - [PathToASCII]: quick terminal plot of a trajectory
//
// # Oscillation
//
// A swinging rope end shows up as a clear spectral peak:
//
//	ys := analysis.Trace(frames, 9, analysis.AxisX)
//	f, err := analysis.DominantFrequency(ys, dt*float64(recordEvery))
package analysis
