package pipeline

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Config gathers the tunables for one complete pipeline instance.
// Validation happens at startup in the config package; the pipeline
// assumes a well-formed configuration.
type Config struct {
	// Alpha is the EMA smoothing factor in (0,1].
	Alpha float64

	// LossFrames is the number of consecutive missed detections after
	// which the tracked hand is dropped.
	LossFrames int

	// FrameRate is the processing rate the loop runs at.
	FrameRate int

	// ZoomSpeedPerSec, OrbitDeadZone and ConfidenceFrames feed the
	// state machine (see Thresholds).
	ZoomSpeedPerSec  float64
	OrbitDeadZone    float64
	ConfidenceFrames int

	// SensitivityX..ZoomMinInterval feed the emitter (see EmitterConfig).
	SensitivityX    float64
	SensitivityY    float64
	ZoomInTicks     int
	ZoomOutTicks    int
	ZoomMinInterval time.Duration
}

// Status is the per-frame telemetry snapshot published to the debug
// surfaces (websocket state feed, HUD, tray).
type Status struct {
	Gesture     string  `json:"gesture"`
	HandPresent bool    `json:"hand_present"`
	Openness    float64 `json:"openness"`
	Centroid    Vec2    `json:"centroid"`
	TimestampMs int64   `json:"timestamp_ms"`
}

// Pipeline composes the smoother, feature extractor, state machine and
// emitter for a single tracked hand. It holds the short history each
// stage needs and nothing else; multiple independent Pipelines can track
// multiple hands. Not safe for concurrent use: exactly one goroutine
// drives Process, frame by frame, in arrival order.
type Pipeline struct {
	smoother *Smoother
	machine  *StateMachine
	emitter  *Emitter

	// prev is a copy of the previous frame's smoothed state; the
	// smoother mutates its own state in place, so a snapshot is kept
	// for feature deltas.
	prev *SmoothedState
}

// New creates a Pipeline from the given configuration.
func New(config Config) *Pipeline {
	return &Pipeline{
		smoother: NewSmoother(config.Alpha, config.LossFrames),
		machine: NewStateMachine(Thresholds{
			ZoomSpeedPerSec:  config.ZoomSpeedPerSec,
			OrbitDeadZone:    config.OrbitDeadZone,
			ConfidenceFrames: config.ConfidenceFrames,
			FrameRate:        config.FrameRate,
		}),
		emitter: NewEmitter(EmitterConfig{
			SensitivityX:    config.SensitivityX,
			SensitivityY:    config.SensitivityY,
			DeadZone:        config.OrbitDeadZone,
			ZoomInTicks:     config.ZoomInTicks,
			ZoomOutTicks:    config.ZoomOutTicks,
			ZoomMinInterval: config.ZoomMinInterval,
		}),
	}
}

// Process runs one frame through the full pipeline. frame is nil when no
// hand was detected this frame. Returns the command event for this frame
// (nil for most frames) and a telemetry snapshot.
func (p *Pipeline) Process(frame *detector.HandFrame, now time.Time) (*CommandEvent, Status) {
	status := Status{TimestampMs: now.UnixMilli()}

	curr := p.smoother.Update(frame)
	if curr == nil {
		// Missing or not-yet-confirmed hand. Feature deltas must not
		// bridge a gap, so the previous snapshot is dropped too.
		p.prev = nil
		gesture, _ := p.machine.Advance(nil)
		status.Gesture = gesture.String()
		return nil, status
	}

	sample := Extract(p.prev, curr)
	snapshot := *curr
	p.prev = &snapshot

	gesture, payload := p.machine.Advance(&sample)
	event := p.emitter.Emit(gesture, payload, now)

	status.Gesture = gesture.String()
	status.HandPresent = true
	status.Openness = sample.Openness
	status.Centroid = sample.Centroid

	return event, status
}

// Reset drops all retained state, returning the pipeline to its initial
// condition. Used when tracking is toggled off.
func (p *Pipeline) Reset() {
	p.smoother.Reset()
	p.machine.Reset()
	p.prev = nil
}
