// Package config defines the YAML configuration surface for the mudra
// daemon: defaults, file loading, flag overrides and validation.
//
// The config file is the primary configuration source; flags exist for
// ad-hoc overrides. Everything downstream assumes a validated config, so
// Validate must run before any component is constructed.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/pipeline"
)

// Config is the top-level YAML configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Output   OutputConfig   `yaml:"output"`
	Injector InjectorConfig `yaml:"injector"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Tray     TrayConfig     `yaml:"tray"`
}

// CameraConfig selects and shapes the capture device.
type CameraConfig struct {
	DeviceID int `yaml:"device_id"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`

	// ActiveFPS is the capture rate while a hand is tracked or motion is
	// seen; IdleFPS applies when the scene has been still for a while.
	ActiveFPS int `yaml:"active_fps"`
	IdleFPS   int `yaml:"idle_fps"`

	// Mirror flips frames horizontally so on-screen motion matches the
	// user's own left/right.
	Mirror bool `yaml:"mirror"`
}

// DetectorConfig shapes the hand landmark detector.
type DetectorConfig struct {
	MaxHands        int     `yaml:"max_hands"`
	MinConfidence   float64 `yaml:"min_confidence"`
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`
}

// GestureConfig holds the smoothing and classification tunables.
type GestureConfig struct {
	// SmoothingAlpha is the EMA factor in (0,1]; higher reacts faster.
	SmoothingAlpha float64 `yaml:"smoothing_alpha"`

	// LossFrames is the consecutive missed-detection count after which
	// the tracked hand is dropped.
	LossFrames int `yaml:"loss_frames"`

	// ZoomSpeedPerSec is the openness rate (units/sec) that registers a
	// zoom candidate.
	ZoomSpeedPerSec float64 `yaml:"zoom_speed_per_sec"`

	// OrbitDeadZone is the per-axis displacement (normalized coords)
	// below which hand motion is treated as tremor.
	OrbitDeadZone float64 `yaml:"orbit_dead_zone"`

	// ConfidenceFrames is the consecutive-frame count a candidate needs
	// before becoming the active gesture.
	ConfidenceFrames int `yaml:"confidence_frames"`
}

// OutputConfig shapes how gestures translate into commands.
type OutputConfig struct {
	SensitivityX float64 `yaml:"sensitivity_x"`
	SensitivityY float64 `yaml:"sensitivity_y"`

	// ZoomInTicks must be positive, ZoomOutTicks negative.
	ZoomInTicks  int `yaml:"zoom_in_ticks"`
	ZoomOutTicks int `yaml:"zoom_out_ticks"`

	// ZoomMinIntervalMS spaces scroll events so a fast frame rate cannot
	// flood the injector.
	ZoomMinIntervalMS int `yaml:"zoom_min_interval_ms"`
}

// InjectorConfig selects the command sink.
type InjectorConfig struct {
	// Mode is "process" (external injector helper), "log" (print only)
	// or "none".
	Mode string `yaml:"mode"`

	// Dir is where injector manifests are discovered (process mode).
	Dir string `yaml:"dir,omitempty"`
}

// ServerConfig shapes the local HTTP debug/control surface.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StoreConfig shapes session/event persistence.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TrayConfig shapes the system tray integration.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Injector modes.
const (
	InjectorModeProcess = "process"
	InjectorModeLog     = "log"
	InjectorModeNone    = "none"
)

// Default returns a fully-populated Config. The gesture and output
// defaults are the tuned values the pipeline was calibrated with; change
// them only together with the thresholds they balance against.
func Default() Config {
	return Config{
		Camera: CameraConfig{
			DeviceID:  0,
			Width:     1280,
			Height:    720,
			ActiveFPS: 30,
			IdleFPS:   5,
			Mirror:    true,
		},
		Detector: DetectorConfig{
			MaxHands:        1,
			MinConfidence:   0.7,
			MinTrackingConf: 0.6,
		},
		Gesture: GestureConfig{
			SmoothingAlpha:   0.45,
			LossFrames:       10,
			ZoomSpeedPerSec:  0.8,
			OrbitDeadZone:    0.015,
			ConfidenceFrames: 3,
		},
		Output: OutputConfig{
			SensitivityX:      2.5,
			SensitivityY:      2.5,
			ZoomInTicks:       3,
			ZoomOutTicks:      -3,
			ZoomMinIntervalMS: 50,
		},
		Injector: InjectorConfig{
			Mode: InjectorModeProcess,
			Dir:  "~/.mudra/injectors",
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:7465",
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    "~/.mudra/mudra.db",
		},
		Tray: TrayConfig{
			Enabled: true,
		},
	}
}

// LoadFile reads and parses a YAML config file on top of the defaults.
// Unknown fields are rejected via KnownFields to catch typos early.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies command-line overrides on top of a loaded config.
// Nil pointers are ignored; non-nil pointers are applied even when they
// carry a zero value.
type FlagOverrides struct {
	CameraDeviceID *int
	CameraMirror   *bool

	SmoothingAlpha *float64
	SensitivityX   *float64
	SensitivityY   *float64

	InjectorMode *string

	ServerEnabled *bool
	ServerAddr    *string

	StoreEnabled *bool
	StorePath    *string

	TrayEnabled *bool
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.CameraDeviceID != nil {
		cfg.Camera.DeviceID = *o.CameraDeviceID
	}
	if o.CameraMirror != nil {
		cfg.Camera.Mirror = *o.CameraMirror
	}
	if o.SmoothingAlpha != nil {
		cfg.Gesture.SmoothingAlpha = *o.SmoothingAlpha
	}
	if o.SensitivityX != nil {
		cfg.Output.SensitivityX = *o.SensitivityX
	}
	if o.SensitivityY != nil {
		cfg.Output.SensitivityY = *o.SensitivityY
	}
	if o.InjectorMode != nil {
		cfg.Injector.Mode = *o.InjectorMode
	}
	if o.ServerEnabled != nil {
		cfg.Server.Enabled = *o.ServerEnabled
	}
	if o.ServerAddr != nil {
		cfg.Server.Addr = *o.ServerAddr
	}
	if o.StoreEnabled != nil {
		cfg.Store.Enabled = *o.StoreEnabled
	}
	if o.StorePath != nil {
		cfg.Store.Path = *o.StorePath
	}
	if o.TrayEnabled != nil {
		cfg.Tray.Enabled = *o.TrayEnabled
	}
}

// Validate checks config invariants and returns a user-friendly error.
// Called once at startup, after defaults + file + overrides; a failure
// aborts the process before any camera or detector is opened.
func (c *Config) Validate() error {
	if c.Camera.DeviceID < 0 {
		return errors.New("camera.device_id must be >= 0")
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return errors.New("camera.width and camera.height must be > 0")
	}
	if c.Camera.ActiveFPS <= 0 || c.Camera.ActiveFPS > 120 {
		return errors.New("camera.active_fps must be between 1 and 120")
	}
	if c.Camera.IdleFPS <= 0 || c.Camera.IdleFPS > c.Camera.ActiveFPS {
		return errors.New("camera.idle_fps must be between 1 and camera.active_fps")
	}

	if c.Detector.MaxHands < 1 {
		return errors.New("detector.max_hands must be >= 1")
	}
	if c.Detector.MinConfidence <= 0 || c.Detector.MinConfidence > 1 {
		return errors.New("detector.min_confidence must be in (0,1]")
	}
	if c.Detector.MinTrackingConf <= 0 || c.Detector.MinTrackingConf > 1 {
		return errors.New("detector.min_tracking_confidence must be in (0,1]")
	}

	if c.Gesture.SmoothingAlpha <= 0 || c.Gesture.SmoothingAlpha > 1 {
		return errors.New("gesture.smoothing_alpha must be in (0,1]")
	}
	if c.Gesture.LossFrames <= 0 {
		return errors.New("gesture.loss_frames must be > 0")
	}
	if c.Gesture.ZoomSpeedPerSec <= 0 {
		return errors.New("gesture.zoom_speed_per_sec must be > 0")
	}
	if c.Gesture.OrbitDeadZone <= 0 {
		return errors.New("gesture.orbit_dead_zone must be > 0")
	}
	if c.Gesture.ConfidenceFrames < 1 {
		return errors.New("gesture.confidence_frames must be >= 1")
	}

	if c.Output.SensitivityX <= 0 || c.Output.SensitivityY <= 0 {
		return errors.New("output.sensitivity_x and output.sensitivity_y must be > 0")
	}
	if c.Output.ZoomInTicks <= 0 {
		return errors.New("output.zoom_in_ticks must be > 0")
	}
	if c.Output.ZoomOutTicks >= 0 {
		return errors.New("output.zoom_out_ticks must be < 0")
	}
	if c.Output.ZoomMinIntervalMS < 0 {
		return errors.New("output.zoom_min_interval_ms must be >= 0")
	}

	switch c.Injector.Mode {
	case InjectorModeProcess:
		if c.Injector.Dir == "" {
			return errors.New("injector.mode is \"process\" but injector.dir is empty")
		}
	case InjectorModeLog, InjectorModeNone:
	default:
		return fmt.Errorf("injector.mode must be %q, %q or %q",
			InjectorModeProcess, InjectorModeLog, InjectorModeNone)
	}

	if c.Server.Enabled && c.Server.Addr == "" {
		return errors.New("server.enabled is true but server.addr is empty")
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return errors.New("store.enabled is true but store.path is empty")
	}

	return nil
}

// ToPipeline converts the gesture and output sections into the pipeline's
// internal config. The processing frame rate is the camera's active rate.
func (c *Config) ToPipeline() pipeline.Config {
	return pipeline.Config{
		Alpha:            c.Gesture.SmoothingAlpha,
		LossFrames:       c.Gesture.LossFrames,
		FrameRate:        c.Camera.ActiveFPS,
		ZoomSpeedPerSec:  c.Gesture.ZoomSpeedPerSec,
		OrbitDeadZone:    c.Gesture.OrbitDeadZone,
		ConfidenceFrames: c.Gesture.ConfidenceFrames,
		SensitivityX:     c.Output.SensitivityX,
		SensitivityY:     c.Output.SensitivityY,
		ZoomInTicks:      c.Output.ZoomInTicks,
		ZoomOutTicks:     c.Output.ZoomOutTicks,
		ZoomMinInterval:  time.Duration(c.Output.ZoomMinIntervalMS) * time.Millisecond,
	}
}

// ExpandPath expands a leading "~" in a path using the home directory.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
