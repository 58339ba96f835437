package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandFrame
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandFrame) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandFrame, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fingerAngles fans the five fingers upward from the wrist
// (image Y grows downward, so "up" is negative Y).
var fingerAngles = [5]float64{
	-40 * math.Pi / 180, // thumb, off to the side
	-70 * math.Pi / 180, // index
	-90 * math.Pi / 180, // middle, straight up
	-110 * math.Pi / 180, // ring
	-130 * math.Pi / 180, // pinky
}

// SyntheticFrame builds a geometrically plausible hand with its wrist at
// (cx, cy) and every fingertip placed at tipRatio times its knuckle's
// distance from the wrist. Because Openness maps that same ratio onto
// [0,1], tests can dial in an exact openness: tipRatio 0.6 reads as a
// fist (0.0), tipRatio 1.6 as a fully open palm (1.0).
func SyntheticFrame(cx, cy, tipRatio float64) HandFrame {
	const mcpRadius = 0.12

	frame := HandFrame{
		Handedness: "Right",
		Score:      0.95,
	}
	frame.Points[Wrist] = Point3D{X: cx, Y: cy}

	// Joint index layout per finger: base, mcp, mid, tip.
	joints := [5][4]int{
		{ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
		{IndexMCP, IndexMCP, IndexPIP, IndexTip},
		{MiddleMCP, MiddleMCP, MiddlePIP, MiddleTip},
		{RingMCP, RingMCP, RingPIP, RingTip},
		{PinkyMCP, PinkyMCP, PinkyPIP, PinkyTip},
	}
	// DIP joints sit between PIP and tip.
	dips := [5]int{ThumbIP, IndexDIP, MiddleDIP, RingDIP, PinkyDIP}

	for f := 0; f < 5; f++ {
		dx := math.Cos(fingerAngles[f])
		dy := math.Sin(fingerAngles[f])

		at := func(radius float64) Point3D {
			return Point3D{X: cx + radius*dx, Y: cy + radius*dy}
		}

		mcpR := mcpRadius
		tipR := mcpRadius * tipRatio

		frame.Points[joints[f][0]] = at(mcpR * 0.5)
		frame.Points[joints[f][1]] = at(mcpR)
		frame.Points[joints[f][2]] = at(mcpR + (tipR-mcpR)*0.5)
		frame.Points[dips[f]] = at(mcpR + (tipR-mcpR)*0.8)
		frame.Points[joints[f][3]] = at(tipR)
	}

	return frame
}

// OpenPalmFrame returns a preset HandFrame representing a fully open palm.
func OpenPalmFrame() HandFrame {
	return SyntheticFrame(0.5, 0.6, 1.6)
}

// FistFrame returns a preset HandFrame representing a closed fist.
func FistFrame() HandFrame {
	return SyntheticFrame(0.5, 0.6, 0.6)
}
