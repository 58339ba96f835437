package pipeline

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Vec2 is a 2-D displacement in normalized image coordinates.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FeatureSample is the per-frame feature set derived from smoothed
// landmarks. One instance per frame; consumed immediately by the state
// machine.
type FeatureSample struct {
	// Centroid is the palm-region centroid of the smoothed hand.
	Centroid Vec2

	// Displacement is the frame-to-frame centroid delta, zero on the
	// first frame of a track.
	Displacement Vec2

	// Openness is the smoothed openness scalar in [0,1].
	Openness float64

	// OpennessVel is the openness change over one frame interval, zero
	// on the first frame of a track.
	OpennessVel float64
}

// Extract derives a FeatureSample from the current smoothed state and the
// previous frame's state. prev may be nil on the first frame after a hand
// appears, in which case displacement and openness velocity are zero.
// Pure function: no internal state, deterministic given its inputs.
func Extract(prev, curr *SmoothedState) FeatureSample {
	centroid := palmCentroid(curr)

	sample := FeatureSample{
		Centroid: centroid,
		Openness: curr.Openness,
	}

	if prev != nil {
		prevCentroid := palmCentroid(prev)
		sample.Displacement = Vec2{
			X: centroid.X - prevCentroid.X,
			Y: centroid.Y - prevCentroid.Y,
		}
		sample.OpennessVel = curr.Openness - prev.Openness
	}

	return sample
}

func palmCentroid(s *SmoothedState) Vec2 {
	frame := detector.HandFrame{Points: s.Points}
	c := frame.PalmCenter()
	return Vec2{X: c.X, Y: c.Y}
}
