// Package analysis characterises how a spring network oscillates.
//
// A [Trace] observer records one node's coordinate and velocity each frame.
// From it:
//
//   - [Spectrum] and [DominantFrequency]: FFT of the trajectory
//   - [Period]: period estimate from mean crossings
//   - [PhasePortrait] and [PortraitToASCII]: position/velocity plot
//
// Example:
//
//	tr := analysis.NewTrace(3, analysis.AxisY)
//	runner.AddObserver(tr)
//	runner.Run(ctx, sim.RunConfig{Frames: 1024})
//	hz, ok := analysis.DominantFrequency(tr.Position, 60)
package analysis
