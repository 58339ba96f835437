package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadFile_PartialOverridesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
camera:
  device_id: 2
gesture:
  smoothing_alpha: 0.6
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Camera.DeviceID != 2 {
		t.Errorf("device_id = %d, want 2", cfg.Camera.DeviceID)
	}
	if cfg.Gesture.SmoothingAlpha != 0.6 {
		t.Errorf("smoothing_alpha = %f, want 0.6", cfg.Gesture.SmoothingAlpha)
	}
	// Untouched sections keep defaults.
	if cfg.Output.SensitivityX != 2.5 {
		t.Errorf("sensitivity_x = %f, want default 2.5", cfg.Output.SensitivityX)
	}
	if cfg.Gesture.ConfidenceFrames != 3 {
		t.Errorf("confidence_frames = %d, want default 3", cfg.Gesture.ConfidenceFrames)
	}
}

func TestLoadFile_RejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
gesture:
  smothing_alpha: 0.5
`)

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for misspelled field")
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFlagOverrides(t *testing.T) {
	cfg := Default()

	device := 3
	alpha := 0.8
	mode := InjectorModeLog
	trayOff := false

	FlagOverrides{
		CameraDeviceID: &device,
		SmoothingAlpha: &alpha,
		InjectorMode:   &mode,
		TrayEnabled:    &trayOff,
	}.Apply(&cfg)

	if cfg.Camera.DeviceID != 3 || cfg.Gesture.SmoothingAlpha != 0.8 {
		t.Error("overrides were not applied")
	}
	if cfg.Injector.Mode != InjectorModeLog {
		t.Errorf("injector mode = %q, want log", cfg.Injector.Mode)
	}
	if cfg.Tray.Enabled {
		t.Error("explicit false override must be applied")
	}
	// Untouched fields survive.
	if cfg.Output.ZoomInTicks != 3 {
		t.Error("unrelated field changed by overrides")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"alpha zero", func(c *Config) { c.Gesture.SmoothingAlpha = 0 }, "smoothing_alpha"},
		{"alpha above one", func(c *Config) { c.Gesture.SmoothingAlpha = 1.5 }, "smoothing_alpha"},
		{"alpha one is legal", func(c *Config) { c.Gesture.SmoothingAlpha = 1.0 }, ""},
		{"negative dead zone", func(c *Config) { c.Gesture.OrbitDeadZone = -0.1 }, "orbit_dead_zone"},
		{"zero confidence frames", func(c *Config) { c.Gesture.ConfidenceFrames = 0 }, "confidence_frames"},
		{"zero loss frames", func(c *Config) { c.Gesture.LossFrames = 0 }, "loss_frames"},
		{"zoom ticks wrong sign", func(c *Config) { c.Output.ZoomOutTicks = 3 }, "zoom_out_ticks"},
		{"zoom in ticks wrong sign", func(c *Config) { c.Output.ZoomInTicks = -3 }, "zoom_in_ticks"},
		{"idle above active fps", func(c *Config) { c.Camera.IdleFPS = 60 }, "idle_fps"},
		{"bad injector mode", func(c *Config) { c.Injector.Mode = "dbus" }, "injector.mode"},
		{"process mode without dir", func(c *Config) { c.Injector.Dir = "" }, "injector.dir"},
		{"server without addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"min confidence above one", func(c *Config) { c.Detector.MinConfidence = 1.2 }, "min_confidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestToPipeline(t *testing.T) {
	cfg := Default()
	pc := cfg.ToPipeline()

	if pc.Alpha != cfg.Gesture.SmoothingAlpha {
		t.Error("alpha not carried over")
	}
	if pc.FrameRate != cfg.Camera.ActiveFPS {
		t.Error("frame rate must come from the active capture rate")
	}
	if pc.ZoomMinInterval.Milliseconds() != int64(cfg.Output.ZoomMinIntervalMS) {
		t.Error("zoom interval not converted to a duration")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Errorf("ExpandPath(~/x.db) = %q", got)
	}
	if got := ExpandPath("/abs/x.db"); got != "/abs/x.db" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("empty path changed: %q", got)
	}
}
