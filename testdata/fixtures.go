// Package testdata provides synthetic hand-frame sequences for pipeline
// and end-to-end tests.
package testdata

import "github.com/ayusman/mudra/internal/detector"

// OrbitSweep returns frames of an open hand translating horizontally by
// step per frame, starting at startX.
func OrbitSweep(frames int, startX, step float64) []*detector.HandFrame {
	out := make([]*detector.HandFrame, frames)
	for i := range out {
		frame := detector.SyntheticFrame(startX+step*float64(i), 0.5, 1.6)
		out[i] = &frame
	}
	return out
}

// ZoomOpen returns frames of a stationary hand opening from a fist, with
// openness rising by opennessStep per frame.
func ZoomOpen(frames int, opennessStep float64) []*detector.HandFrame {
	out := make([]*detector.HandFrame, frames)
	for i := range out {
		frame := detector.SyntheticFrame(0.5, 0.6, 0.6+opennessStep*float64(i))
		out[i] = &frame
	}
	return out
}

// ZoomClose returns frames of a stationary hand closing from an open
// palm, with openness falling by opennessStep per frame.
func ZoomClose(frames int, opennessStep float64) []*detector.HandFrame {
	out := make([]*detector.HandFrame, frames)
	for i := range out {
		frame := detector.SyntheticFrame(0.5, 0.6, 1.6-opennessStep*float64(i))
		out[i] = &frame
	}
	return out
}

// WithGap appends n nil frames (missed detections) to a sequence.
func WithGap(frames []*detector.HandFrame, n int) []*detector.HandFrame {
	for i := 0; i < n; i++ {
		frames = append(frames, nil)
	}
	return frames
}

// Still returns frames of a motionless open hand, useful as a neutral
// lead-in before a gesture.
func Still(frames int) []*detector.HandFrame {
	out := make([]*detector.HandFrame, frames)
	for i := range out {
		frame := detector.SyntheticFrame(0.5, 0.5, 1.6)
		out[i] = &frame
	}
	return out
}
