package pipeline

import "testing"

func testThresholds() Thresholds {
	return Thresholds{
		ZoomSpeedPerSec:  0.8,
		OrbitDeadZone:    0.015,
		ConfidenceFrames: 3,
		FrameRate:        30,
	}
}

func orbitSample(dx, dy float64) *FeatureSample {
	return &FeatureSample{
		Displacement: Vec2{X: dx, Y: dy},
		Openness:     0.8,
	}
}

func zoomSample(vel float64) *FeatureSample {
	return &FeatureSample{OpennessVel: vel}
}

func idleSample() *FeatureSample {
	return &FeatureSample{Openness: 0.5}
}

func TestStateMachine_Classify(t *testing.T) {
	m := NewStateMachine(testThresholds())

	tests := []struct {
		name   string
		sample *FeatureSample
		want   Gesture
	}{
		{"nil sample", nil, Idle},
		{"still hand", idleSample(), Idle},
		{"opening fast", zoomSample(0.4), ZoomIn},
		{"closing fast", zoomSample(-0.4), ZoomOut},
		{"slow openness drift", zoomSample(0.01), Idle},
		{"displacement on X", orbitSample(0.05, 0), Orbit},
		{"displacement on Y only", orbitSample(0, -0.05), Orbit},
		{"sub-dead-zone motion", orbitSample(0.01, 0.01), Idle},
		{"zoom beats orbit", &FeatureSample{
			Displacement: Vec2{X: 0.05},
			OpennessVel:  0.4,
		}, ZoomIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.classify(tt.sample); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateMachine_MutualExclusivity(t *testing.T) {
	m := NewStateMachine(testThresholds())

	// Alternate candidates and verify that after every frame exactly one
	// counter is non-zero.
	samples := []*FeatureSample{
		orbitSample(0.05, 0),
		orbitSample(0.05, 0),
		zoomSample(0.4),
		idleSample(),
		zoomSample(-0.4),
	}

	for i, sample := range samples {
		m.Advance(sample)

		nonZero := 0
		for g := Gesture(0); g < numGestures; g++ {
			if m.counters[g] > 0 {
				nonZero++
			}
		}
		if nonZero != 1 {
			t.Fatalf("frame %d: %d non-zero counters, want exactly 1 (%v)", i, nonZero, m.counters)
		}
	}
}

func TestStateMachine_PromotionOnThirdFrame(t *testing.T) {
	m := NewStateMachine(testThresholds())

	for frame := 1; frame <= 5; frame++ {
		got, payload := m.Advance(orbitSample(0.05, 0))

		want := Idle
		if frame >= 3 {
			want = Orbit
		}
		if got != want {
			t.Fatalf("frame %d: active = %v, want %v", frame, got, want)
		}
		if want == Orbit && payload.X != 0.05 {
			t.Fatalf("frame %d: payload = %+v, want displacement passthrough", frame, payload)
		}
	}
}

func TestStateMachine_Hysteresis(t *testing.T) {
	m := NewStateMachine(testThresholds())

	// Establish orbit.
	for i := 0; i < 3; i++ {
		m.Advance(orbitSample(0.05, 0))
	}
	if m.Active() != Orbit {
		t.Fatal("expected orbit to be active")
	}

	// A single contradicting frame must not change the active gesture.
	if got, _ := m.Advance(zoomSample(0.4)); got != Orbit {
		t.Errorf("one misclassified frame flipped active gesture to %v", got)
	}

	// But it must reset orbit's counter: one more orbit frame is not
	// enough to have been "sustained" from before.
	m.Advance(orbitSample(0.05, 0))
	if m.counters[Orbit] != 1 {
		t.Errorf("orbit counter = %d after interruption, want 1", m.counters[Orbit])
	}
}

func TestStateMachine_SwitchWithoutHold(t *testing.T) {
	m := NewStateMachine(testThresholds())

	for i := 0; i < 3; i++ {
		m.Advance(orbitSample(0.05, 0))
	}

	// Three sustained zoom frames override orbit immediately, no
	// minimum hold time on the outgoing gesture.
	var got Gesture
	for i := 0; i < 3; i++ {
		got, _ = m.Advance(zoomSample(0.4))
	}
	if got != ZoomIn {
		t.Errorf("active = %v after sustained zoom evidence, want ZoomIn", got)
	}
}

func TestStateMachine_DemotionToIdle(t *testing.T) {
	m := NewStateMachine(testThresholds())

	for i := 0; i < 3; i++ {
		m.Advance(orbitSample(0.05, 0))
	}

	for frame := 1; frame <= 4; frame++ {
		got, _ := m.Advance(nil)

		want := Orbit
		if frame >= 3 {
			want = Idle
		}
		if got != want {
			t.Fatalf("empty frame %d: active = %v, want %v", frame, got, want)
		}
	}
}

func TestStateMachine_NoPayloadWhenNotOrbiting(t *testing.T) {
	m := NewStateMachine(testThresholds())

	for i := 0; i < 3; i++ {
		_, payload := m.Advance(zoomSample(0.4))
		if payload != (Vec2{}) {
			t.Errorf("payload = %+v during zoom, want zero vector", payload)
		}
	}
}

func TestStateMachine_Reset(t *testing.T) {
	m := NewStateMachine(testThresholds())

	for i := 0; i < 3; i++ {
		m.Advance(orbitSample(0.05, 0))
	}
	m.Reset()

	if m.Active() != Idle {
		t.Error("expected Idle after Reset")
	}
	if got, _ := m.Advance(orbitSample(0.05, 0)); got != Idle {
		t.Error("expected promotion to start over after Reset")
	}
}
