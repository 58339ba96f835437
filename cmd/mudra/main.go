package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/inject"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - hand gesture viewport navigation")

	configPath := flag.String("config", "", "path to YAML config file")
	cameraID := flag.Int("camera", -1, "camera device ID override")
	injectorMode := flag.String("injector", "", "injector mode override: process, log or none")
	serverAddr := flag.String("addr", "", "server listen address override")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	cfg := loadConfig(*configPath, *cameraID, *injectorMode, *serverAddr, *noTray)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Data directory for the database and injector manifests.
	if err := ensureDataDir(); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	var st *store.Store
	if cfg.Store.Enabled {
		var err error
		st, err = store.New(config.ExpandPath(cfg.Store.Path))
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()
	}

	injector := buildInjector(cfg)
	defer injector.Close()

	var det detector.Detector
	mp, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConf,
	})
	if err != nil {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		det = detector.NewMockDetector()
	} else {
		det = mp
		log.Println("Using MediaPipe hand detection")
	}

	camera := capture.NewCamera(capture.Options{
		DeviceID: cfg.Camera.DeviceID,
		Width:    cfg.Camera.Width,
		Height:   cfg.Camera.Height,
		FPS:      cfg.Camera.IdleFPS,
		Mirror:   cfg.Camera.Mirror,
	})

	a := app.New(app.Config{
		Camera:    camera,
		Detector:  det,
		Injector:  injector,
		Store:     st,
		Pipeline:  cfg.ToPipeline(),
		IdleFPS:   cfg.Camera.IdleFPS,
		ActiveFPS: cfg.Camera.ActiveFPS,
	})

	if cfg.Server.Enabled {
		srv := server.New(server.Config{
			Store:  st,
			Camera: camera,
			Status: a.Status,
		})
		a.SetStatusSink(srv.State())

		go func() {
			log.Printf("server listening on %s", cfg.Server.Addr)
			if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	if cfg.Tray.Enabled {
		runWithTray(a)
	} else {
		waitForSignal()
	}

	a.Stop()
}

// loadConfig builds the effective configuration: defaults, then the config
// file if given, then flag overrides.
func loadConfig(path string, cameraID int, injectorMode, serverAddr string, noTray bool) config.Config {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	var overrides config.FlagOverrides
	if cameraID >= 0 {
		overrides.CameraDeviceID = &cameraID
	}
	if injectorMode != "" {
		overrides.InjectorMode = &injectorMode
	}
	if serverAddr != "" {
		overrides.ServerAddr = &serverAddr
	}
	if noTray {
		trayOff := false
		overrides.TrayEnabled = &trayOff
	}
	overrides.Apply(&cfg)

	return cfg
}

// buildInjector constructs the command sink selected by the config.
func buildInjector(cfg config.Config) inject.Injector {
	switch cfg.Injector.Mode {
	case config.InjectorModeLog:
		return inject.NewLogInjector()
	case config.InjectorModeNone:
		return inject.NewNopInjector()
	}

	mgr := inject.NewManager(config.ExpandPath(cfg.Injector.Dir))
	if err := mgr.Discover(); err != nil {
		log.Fatalf("Failed to discover injectors: %v", err)
	}

	helpers := mgr.List()
	if len(helpers) == 0 {
		log.Printf("no injector helpers found in %s, falling back to log output", cfg.Injector.Dir)
		return inject.NewLogInjector()
	}

	p := inject.NewProcessInjector(helpers[0])
	if err := p.Start(); err != nil {
		log.Fatalf("Failed to start injector: %v", err)
	}
	return p
}

// runWithTray blocks in the tray loop until the user quits or a signal
// arrives.
func runWithTray(a *app.App) {
	t := tray.New()
	t.OnToggle(a.SetTracking)
	t.OnQuit(func() {})
	a.OnGesture(t.SetGesture)

	go func() {
		waitForSignal()
		t.Quit()
	}()

	// Blocks until quit; must stay on the main goroutine.
	t.Run()
}

func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Println("shutting down")
}

// ensureDataDir creates ~/.mudra and its injectors subdirectory.
func ensureDataDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(homeDir, ".mudra", "injectors"), 0o755)
}
