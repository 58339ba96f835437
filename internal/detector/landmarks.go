// Package detector provides hand detection interfaces and landmark geometry
// for the mudra gesture navigation system.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// palmIndices is the landmark subset averaged for the hand centroid.
// Wrist plus the four finger MCP knuckles move far less than fingertips,
// so the centroid stays stable while fingers curl and extend.
var palmIndices = [5]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// fingerTips and fingerMCPs pair each fingertip with its proximal joint
// for the openness ratio. The thumb uses its MCP rather than the CMC so
// the ratio band matches the other fingers.
var (
	fingerTips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}
	fingerMCPs = [5]int{ThumbMCP, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
)

// Openness ratio band: a curled fingertip sits around 0.6x its knuckle
// distance from the wrist, a fully extended one around 1.6x.
const (
	opennessRatioFist = 0.6
	opennessRatioSpan = 1.0
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandFrame is one detected hand for one camera frame: the 21 MediaPipe
// landmarks in normalized [0,1] image coordinates plus detection metadata.
// Frames are immutable after creation and discarded once consumed.
type HandFrame struct {
	Points      [NumLandmarks]Point3D `json:"points"`
	Handedness  string                `json:"handedness"` // "Left" or "Right"
	Score       float64               `json:"score"`
	TimestampMs int64                 `json:"timestamp_ms"`
}

// distance3D calculates the Euclidean distance between two 3D points.
func distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PalmCenter returns the mean position of the palm-region landmarks
// (wrist + finger MCPs). This is the tracked hand position.
func (h *HandFrame) PalmCenter() Point3D {
	var cx, cy, cz float64
	for _, i := range palmIndices {
		cx += h.Points[i].X
		cy += h.Points[i].Y
		cz += h.Points[i].Z
	}
	n := float64(len(palmIndices))
	return Point3D{X: cx / n, Y: cy / n, Z: cz / n}
}

// Openness returns how open the hand is, from 0.0 (tight fist) to 1.0
// (fully open palm). For each finger it measures the tip-to-wrist distance
// relative to the knuckle-to-wrist distance; the average ratio is mapped
// linearly from the fist..open band onto [0,1] and clamped. Being a pure
// ratio, the value is invariant to hand size and distance from the camera.
func (h *HandFrame) Openness() float64 {
	wrist := h.Points[Wrist]

	var sum float64
	var n int
	for f := 0; f < 5; f++ {
		tip := h.Points[fingerTips[f]]
		mcp := h.Points[fingerMCPs[f]]

		dMCP := distance3D(mcp, wrist)
		if dMCP < 1e-6 {
			continue
		}
		sum += distance3D(tip, wrist) / dMCP
		n++
	}

	if n == 0 {
		return 0
	}

	openness := (sum/float64(n) - opennessRatioFist) / opennessRatioSpan
	if openness < 0 {
		return 0
	}
	if openness > 1 {
		return 1
	}
	return openness
}

// WellFormed reports whether the frame's landmarks look like a plausible
// detection: every coordinate finite and within a loose margin of the
// normalized image square. Detector implementations drop frames that fail
// this check, so malformed model output surfaces as a missing detection
// rather than propagating downstream.
func (h *HandFrame) WellFormed() bool {
	const margin = 0.5 // landmarks may overshoot the image slightly
	for i := range h.Points {
		p := h.Points[i]
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
			return false
		}
		if math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) || math.IsInf(p.Z, 0) {
			return false
		}
		if p.X < -margin || p.X > 1+margin || p.Y < -margin || p.Y > 1+margin {
			return false
		}
	}
	return true
}
