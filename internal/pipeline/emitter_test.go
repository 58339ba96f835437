package pipeline

import (
	"testing"
	"time"
)

func testEmitterConfig() EmitterConfig {
	return EmitterConfig{
		SensitivityX:    2.5,
		SensitivityY:    2.5,
		DeadZone:        0.015,
		ZoomInTicks:     3,
		ZoomOutTicks:    -3,
		ZoomMinInterval: 50 * time.Millisecond,
	}
}

func TestEmitter_OrbitScaling(t *testing.T) {
	e := NewEmitter(testEmitterConfig())

	event := e.Emit(Orbit, Vec2{X: 0.04, Y: -0.02}, time.Now())
	if event == nil {
		t.Fatal("expected orbit event")
	}
	if event.Kind != CommandOrbit {
		t.Fatalf("kind = %v, want orbit", event.Kind)
	}
	if event.DX != 0.1 || event.DY != -0.05 {
		t.Errorf("delta = (%f, %f), want (0.1, -0.05)", event.DX, event.DY)
	}
}

func TestEmitter_OrbitDeadZone(t *testing.T) {
	e := NewEmitter(testEmitterConfig())
	now := time.Now()

	if event := e.Emit(Orbit, Vec2{X: 0.01, Y: 0.01}, now); event != nil {
		t.Errorf("sub-dead-zone displacement produced event %+v", event)
	}

	// One axis above the dead zone is enough.
	if event := e.Emit(Orbit, Vec2{X: 0.001, Y: 0.03}, now); event == nil {
		t.Error("expected event when one axis exceeds the dead zone")
	}
}

func TestEmitter_ZoomTicks(t *testing.T) {
	e := NewEmitter(testEmitterConfig())
	now := time.Now()

	in := e.Emit(ZoomIn, Vec2{}, now)
	if in == nil || in.Kind != CommandScroll || in.Ticks != 3 {
		t.Errorf("zoom-in event = %+v, want scroll with +3 ticks", in)
	}

	out := e.Emit(ZoomOut, Vec2{}, now.Add(time.Second))
	if out == nil || out.Kind != CommandScroll || out.Ticks != -3 {
		t.Errorf("zoom-out event = %+v, want scroll with -3 ticks", out)
	}
}

func TestEmitter_ZoomRateLimit(t *testing.T) {
	e := NewEmitter(testEmitterConfig())
	base := time.Now()

	if e.Emit(ZoomIn, Vec2{}, base) == nil {
		t.Fatal("expected first scroll event")
	}

	// Frames arriving faster than the minimum interval are swallowed.
	if event := e.Emit(ZoomIn, Vec2{}, base.Add(20*time.Millisecond)); event != nil {
		t.Errorf("scroll %v within min interval, want nil", event)
	}
	if event := e.Emit(ZoomIn, Vec2{}, base.Add(49*time.Millisecond)); event != nil {
		t.Errorf("scroll %v within min interval, want nil", event)
	}

	if e.Emit(ZoomIn, Vec2{}, base.Add(50*time.Millisecond)) == nil {
		t.Error("expected scroll event once the interval has elapsed")
	}
}

func TestEmitter_ZoomRateLimitIgnoresOrbit(t *testing.T) {
	e := NewEmitter(testEmitterConfig())
	base := time.Now()

	e.Emit(ZoomIn, Vec2{}, base)

	// Orbit events are not throttled by the scroll interval.
	if event := e.Emit(Orbit, Vec2{X: 0.05}, base.Add(time.Millisecond)); event == nil {
		t.Error("orbit event must not be gated by the zoom interval")
	}
}

func TestEmitter_IdleIsSilent(t *testing.T) {
	e := NewEmitter(testEmitterConfig())
	if event := e.Emit(Idle, Vec2{X: 1, Y: 1}, time.Now()); event != nil {
		t.Errorf("idle produced event %+v", event)
	}
}
