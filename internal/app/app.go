// Package app wires the capture, detection, gesture pipeline, injection
// and persistence layers together and owns their lifecycle.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/inject"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/store"
)

// idleTimeout is how long the scene must stay still before capture drops
// back to the idle frame rate.
const idleTimeout = 2 * time.Second

// StatusSink receives per-frame pipeline status, e.g. the websocket feed.
type StatusSink interface {
	Publish(status pipeline.Status)
}

// Config holds the application's collaborators and tunables. Camera,
// Detector and Injector are injected so tests can substitute mocks.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Injector inject.Injector
	Store    *store.Store

	Pipeline pipeline.Config

	// MotionThreshold is the percentage of changed pixels that counts as
	// scene motion; <= 0 selects the default of 1%.
	MotionThreshold float64

	IdleFPS   int
	ActiveFPS int
}

// App orchestrates the two long-running goroutines: the capture loop
// (camera to detection to handoff buffer) and the processing loop (handoff
// buffer through the pipeline to command fan-out).
type App struct {
	config Config

	motion   *capture.MotionDetector
	pipeline *pipeline.Pipeline
	latest   *capture.LatestObservation

	statusSink StatusSink
	onGesture  func(name string)

	mu       sync.RWMutex
	tracking bool
	stopCh   chan struct{}
	wg       sync.WaitGroup

	session  *store.Session
	frames   int
	commands int

	lastStatus pipeline.Status
}

// New creates an App. Start must be called before anything runs.
func New(config Config) *App {
	threshold := config.MotionThreshold
	if threshold <= 0 {
		threshold = 1.0
	}

	return &App{
		config:   config,
		motion:   capture.NewMotionDetector(threshold),
		pipeline: pipeline.New(config.Pipeline),
		latest:   capture.NewLatestObservation(),
		tracking: true,
	}
}

// SetStatusSink sets the sink that receives per-frame status snapshots.
func (a *App) SetStatusSink(sink StatusSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statusSink = sink
}

// OnGesture sets a callback invoked whenever the active gesture changes,
// used by the tray.
func (a *App) OnGesture(fn func(name string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGesture = fn
}

// SetTracking pauses or resumes gesture processing. Pausing clears all
// pipeline state so a later resume starts from scratch.
func (a *App) SetTracking(tracking bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracking == tracking {
		return
	}
	a.tracking = tracking

	if !tracking {
		a.pipeline.Reset()
		a.motion.Reset()
	}
	log.Printf("tracking %s", map[bool]string{true: "resumed", false: "paused"}[tracking])
}

// IsTracking reports whether gesture processing is active.
func (a *App) IsTracking() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracking
}

// Status returns the most recent pipeline status snapshot.
func (a *App) Status() pipeline.Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastStatus
}

// Start opens the camera, begins a session and launches both loops.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.config.Camera.Open(); err != nil {
		return err
	}
	a.config.Camera.SetFPS(a.config.IdleFPS)

	if a.config.Store != nil {
		sess, err := a.config.Store.Sessions().Begin()
		if err != nil {
			a.config.Camera.Close()
			return err
		}
		a.session = sess
		log.Printf("session started: %s", sess.ID)
	}
	a.frames = 0
	a.commands = 0

	a.stopCh = make(chan struct{})
	a.wg.Add(2)
	go a.runCapture(a.stopCh)
	go a.runProcessing(a.stopCh)

	log.Println("gesture pipeline started")
	return nil
}

// Stop halts both loops, finalizes the session and releases the camera,
// motion detector and hand detector. The injector is left to the caller,
// which owns it.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	a.mu.Unlock()

	a.wg.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.Store != nil && a.session != nil {
		if err := a.config.Store.Sessions().End(a.session.ID, a.frames, a.commands); err != nil {
			log.Printf("error ending session: %v", err)
		}
		a.session = nil
	}

	if err := a.config.Camera.Close(); err != nil {
		log.Printf("error closing camera: %v", err)
	}
	a.motion.Close()
	if a.config.Detector != nil {
		if err := a.config.Detector.Close(); err != nil {
			log.Printf("error closing detector: %v", err)
		}
	}

	log.Println("gesture pipeline stopped")
}

// Camera returns the camera, for the stream handler.
func (a *App) Camera() capture.Camera {
	return a.config.Camera
}

// SessionID returns the current session ID, empty when none is active.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return ""
	}
	return a.session.ID
}
