// Package pipeline implements the gesture signal-processing pipeline:
// landmark smoothing, feature extraction, gesture classification with
// hysteresis, and translation into rate-limited command events.
//
// Data flows strictly one way: raw landmarks -> smoothed landmarks ->
// features -> classified gesture -> command events. Each stage is a pure,
// single-threaded state transition over its own retained short history.
package pipeline

import (
	"github.com/ayusman/mudra/internal/detector"
)

// SmoothedState holds the exponentially-averaged landmark positions and
// the openness scalar derived from them. Exactly one instance lives for
// the lifetime of a tracked hand; it is updated in place each frame.
type SmoothedState struct {
	Points   [detector.NumLandmarks]detector.Point3D
	Openness float64
}

// Smoother applies exponential-moving-average filtering to raw per-frame
// landmark positions, suppressing detection jitter.
//
// Update rule: smoothed = alpha*raw + (1-alpha)*smoothed_prev, applied per
// coordinate. Openness is computed fresh each frame from the smoothed
// landmarks; it inherits their smoothing and is never averaged a second
// time. On the first frame after a gap the state is initialized directly
// from the raw values, and after lossFrames consecutive missing frames it
// is discarded entirely.
type Smoother struct {
	alpha      float64
	lossFrames int
	state      *SmoothedState
	missing    int
}

// NewSmoother creates a Smoother with the given smoothing factor and
// hand-loss threshold. alpha must be in (0,1]; higher values weight recent
// frames more heavily (more responsive, less smooth). lossFrames is the
// number of consecutive missing detections after which the tracked hand
// is considered gone.
func NewSmoother(alpha float64, lossFrames int) *Smoother {
	return &Smoother{
		alpha:      alpha,
		lossFrames: lossFrames,
	}
}

// Update feeds one camera frame's detection into the filter. A nil raw
// frame means no hand was detected this frame.
//
// Returns the smoothed state for frames with a detection, or nil while no
// hand is tracked. During a gap shorter than the loss threshold the
// retained state is kept for blending when the hand reappears, but nil is
// returned so callers never act on stale data. Update never fails.
func (s *Smoother) Update(raw *detector.HandFrame) *SmoothedState {
	if raw == nil {
		if s.state != nil {
			s.missing++
			if s.missing >= s.lossFrames {
				s.state = nil
			}
		}
		return nil
	}

	s.missing = 0

	if s.state == nil {
		// First frame after a gap: adopt raw values outright, there is
		// no prior to blend with.
		s.state = &SmoothedState{Points: raw.Points}
		s.state.Openness = opennessOf(&s.state.Points)
		return s.state
	}

	a := s.alpha
	for i := range s.state.Points {
		s.state.Points[i].X = a*raw.Points[i].X + (1-a)*s.state.Points[i].X
		s.state.Points[i].Y = a*raw.Points[i].Y + (1-a)*s.state.Points[i].Y
		s.state.Points[i].Z = a*raw.Points[i].Z + (1-a)*s.state.Points[i].Z
	}
	s.state.Openness = opennessOf(&s.state.Points)

	return s.state
}

// Tracking reports whether a hand is currently being tracked, i.e. whether
// smoothed state is retained.
func (s *Smoother) Tracking() bool {
	return s.state != nil
}

// Reset discards any retained state, as if the hand had been lost.
func (s *Smoother) Reset() {
	s.state = nil
	s.missing = 0
}

// opennessOf computes the openness scalar from a smoothed landmark set by
// borrowing the HandFrame geometry helpers.
func opennessOf(points *[detector.NumLandmarks]detector.Point3D) float64 {
	frame := detector.HandFrame{Points: *points}
	return frame.Openness()
}
