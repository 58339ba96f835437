package pipeline

import (
	"math"
	"time"
)

// CommandKind discriminates CommandEvent variants.
type CommandKind int

const (
	// CommandOrbit carries a scaled 2-D orbit delta.
	CommandOrbit CommandKind = iota
	// CommandScroll carries a signed number of scroll ticks.
	CommandScroll
)

// String returns the wire name of the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandOrbit:
		return "orbit"
	case CommandScroll:
		return "scroll"
	}
	return "unknown"
}

// CommandEvent is the pipeline's final output unit: one discrete viewport
// navigation command, consumed by the input-injection collaborator. At
// most one event is produced per processed frame.
type CommandEvent struct {
	Kind CommandKind `json:"kind"`

	// DX, DY are the sensitivity-scaled orbit deltas (CommandOrbit only).
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// Ticks is the signed scroll amount (CommandScroll only); positive
	// scrolls up (zoom in), negative scrolls down (zoom out).
	Ticks int `json:"ticks,omitempty"`
}

// EmitterConfig holds the output-shaping tunables.
type EmitterConfig struct {
	// SensitivityX and SensitivityY scale the raw orbit displacement
	// into the delta handed to the injector.
	SensitivityX float64
	SensitivityY float64

	// DeadZone is the per-axis displacement below which an orbit frame
	// produces no event, even while the orbit gesture is active.
	// Suppresses drift from residual hand tremor.
	DeadZone float64

	// ZoomInTicks and ZoomOutTicks are the fixed scroll amounts sent per
	// active zoom frame. ZoomInTicks is positive, ZoomOutTicks negative.
	ZoomInTicks  int
	ZoomOutTicks int

	// ZoomMinInterval is the minimum spacing between scroll events, so a
	// high frame rate cannot flood the injector.
	ZoomMinInterval time.Duration
}

// Emitter rate-limits and translates the active gesture plus payload into
// discrete command events. It never touches the OS itself.
type Emitter struct {
	config   EmitterConfig
	lastZoom time.Time
}

// NewEmitter creates an Emitter with the given configuration.
func NewEmitter(config EmitterConfig) *Emitter {
	return &Emitter{config: config}
}

// Emit translates one frame's active gesture into a command event, or nil
// when the frame produces no action. Called once per processed frame.
func (e *Emitter) Emit(active Gesture, payload Vec2, now time.Time) *CommandEvent {
	switch active {
	case Orbit:
		if math.Abs(payload.X) < e.config.DeadZone && math.Abs(payload.Y) < e.config.DeadZone {
			return nil
		}
		return &CommandEvent{
			Kind: CommandOrbit,
			DX:   payload.X * e.config.SensitivityX,
			DY:   payload.Y * e.config.SensitivityY,
		}

	case ZoomIn:
		return e.scroll(e.config.ZoomInTicks, now)

	case ZoomOut:
		return e.scroll(e.config.ZoomOutTicks, now)

	case Idle:
		return nil
	}
	return nil
}

// scroll emits a fixed tick event, spaced at least ZoomMinInterval apart.
// The effect is proportional to dwell time, not to openness magnitude.
func (e *Emitter) scroll(ticks int, now time.Time) *CommandEvent {
	if !e.lastZoom.IsZero() && now.Sub(e.lastZoom) < e.config.ZoomMinInterval {
		return nil
	}
	e.lastZoom = now
	return &CommandEvent{Kind: CommandScroll, Ticks: ticks}
}
