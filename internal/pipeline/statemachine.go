package pipeline

import "math"

// Gesture is the closed set of gestures the classifier distinguishes.
// Adding a gesture is a compile-time-checked change: every switch over
// Gesture in this package is exhaustive.
type Gesture int

const (
	// Idle means no actionable gesture is active.
	Idle Gesture = iota
	// Orbit is a mostly-still-openness hand translating across the image.
	Orbit
	// ZoomIn is a fist opening toward a palm.
	ZoomIn
	// ZoomOut is a palm closing toward a fist.
	ZoomOut

	numGestures
)

// String returns a human-readable gesture name.
func (g Gesture) String() string {
	switch g {
	case Idle:
		return "idle"
	case Orbit:
		return "orbit"
	case ZoomIn:
		return "zoom-in"
	case ZoomOut:
		return "zoom-out"
	}
	return "unknown"
}

// Thresholds holds the classification tunables for the state machine.
type Thresholds struct {
	// ZoomSpeedPerSec is the openness rate of change (units/sec) at or
	// above which a zoom candidate is produced.
	ZoomSpeedPerSec float64

	// OrbitDeadZone is the minimum per-axis centroid displacement (in
	// normalized coordinates) that registers an orbit candidate.
	OrbitDeadZone float64

	// ConfidenceFrames is the number of consecutive supporting frames a
	// candidate needs before it is promoted to the active gesture, and
	// equally the number of empty frames before the active gesture is
	// demoted back to idle.
	ConfidenceFrames int

	// FrameRate is the processing rate; it converts the per-frame
	// openness delta into a per-second speed for the zoom threshold.
	FrameRate int
}

// StateMachine consumes per-frame features and maintains one confidence
// counter per candidate gesture. A candidate becomes active only after
// sustained evidence; contradicting evidence resets every competing
// counter, so a momentary misclassified frame can never flip the active
// gesture on its own.
type StateMachine struct {
	thresholds Thresholds

	// counters[g] counts consecutive frames whose raw candidate was g.
	// counters[Idle] doubles as the demotion counter.
	counters [numGestures]int

	active Gesture
}

// NewStateMachine creates a StateMachine with the given thresholds.
func NewStateMachine(thresholds Thresholds) *StateMachine {
	return &StateMachine{thresholds: thresholds}
}

// Advance drives the machine by one frame. A nil sample means no hand was
// tracked this frame and is treated as an empty (idle) candidate.
//
// Returns the active gesture after this frame and, while Orbit is active,
// the raw displacement payload used downstream for magnitude-proportional
// response. The payload is the zero vector for every other gesture.
func (m *StateMachine) Advance(sample *FeatureSample) (Gesture, Vec2) {
	candidate := m.classify(sample)

	// Strict exclusivity: exactly one counter accrues per frame, all
	// others reset, so confidence never leaks across gesture types.
	for g := Gesture(0); g < numGestures; g++ {
		if g == candidate {
			m.counters[g]++
		} else {
			m.counters[g] = 0
		}
	}

	if m.counters[candidate] >= m.thresholds.ConfidenceFrames {
		// Promotion overrides the current gesture immediately; for
		// Idle this is the demotion path. No minimum hold time.
		m.active = candidate
	}

	if m.active == Orbit && sample != nil {
		return m.active, sample.Displacement
	}
	return m.active, Vec2{}
}

// classify computes the raw, unfiltered candidate for one frame. The
// rules are mutually exclusive by construction, yielding exactly one
// candidate per frame; were an extension ever to make two gesture types
// tie on the same frame, Orbit takes priority.
func (m *StateMachine) classify(sample *FeatureSample) Gesture {
	if sample == nil {
		return Idle
	}

	speed := sample.OpennessVel * float64(m.thresholds.FrameRate)
	if math.Abs(speed) >= m.thresholds.ZoomSpeedPerSec {
		if speed > 0 {
			return ZoomIn
		}
		return ZoomOut
	}

	if math.Abs(sample.Displacement.X) >= m.thresholds.OrbitDeadZone ||
		math.Abs(sample.Displacement.Y) >= m.thresholds.OrbitDeadZone {
		return Orbit
	}

	return Idle
}

// Active returns the currently confirmed gesture.
func (m *StateMachine) Active() Gesture {
	return m.active
}

// Reset returns the machine to Idle with all counters cleared.
func (m *StateMachine) Reset() {
	m.counters = [numGestures]int{}
	m.active = Idle
}
