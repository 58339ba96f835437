// Package tray provides the system tray interface for the mudra daemon:
// a tracking toggle, the current gesture and a quit entry.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(tracking bool)
	onQuit   func()
	tracking bool
	mu       sync.RWMutex

	menuToggle  *systray.MenuItem
	menuGesture *systray.MenuItem
}

// New creates a Tray with tracking enabled by default.
func New() *Tray {
	return &Tray{
		tracking: true,
	}
}

// OnToggle sets the callback invoked when tracking is toggled.
func (t *Tray) OnToggle(fn func(tracking bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback invoked when quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. Blocks until systray.Quit is called; must
// run on the main goroutine on macOS.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit tears the tray down from outside, e.g. on SIGTERM.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra gesture navigation")

	t.menuToggle = systray.AddMenuItem("● Tracking", "Toggle hand tracking")
	systray.AddSeparator()

	t.menuGesture = systray.AddMenuItem("Gesture: idle", "Current gesture")
	t.menuGesture.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.tracking = !t.tracking
	tracking := t.tracking

	if tracking {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Callback runs outside the lock to prevent deadlocks.
	if callback != nil {
		callback(tracking)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetGesture updates the current gesture shown in the menu.
func (t *Tray) SetGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuGesture == nil {
		return
	}
	if name == "" {
		name = "idle"
	}
	t.menuGesture.SetTitle("Gesture: " + name)
}

// IsTracking returns the current tracking state.
func (t *Tray) IsTracking() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tracking
}
