package inject

import (
	"log"

	"github.com/ayusman/mudra/internal/pipeline"
)

// LogInjector prints command events instead of delivering them anywhere.
// Useful for tuning thresholds without moving the viewport.
type LogInjector struct{}

// NewLogInjector creates a LogInjector.
func NewLogInjector() *LogInjector {
	return &LogInjector{}
}

// Send logs the event.
func (l *LogInjector) Send(event *pipeline.CommandEvent) error {
	if event == nil {
		return nil
	}
	switch event.Kind {
	case pipeline.CommandOrbit:
		log.Printf("command: orbit dx=%.4f dy=%.4f", event.DX, event.DY)
	case pipeline.CommandScroll:
		log.Printf("command: scroll ticks=%d", event.Ticks)
	}
	return nil
}

// Close is a no-op.
func (l *LogInjector) Close() error {
	return nil
}

// NopInjector discards all events.
type NopInjector struct{}

// NewNopInjector creates a NopInjector.
func NewNopInjector() *NopInjector {
	return &NopInjector{}
}

func (NopInjector) Send(*pipeline.CommandEvent) error { return nil }
func (NopInjector) Close() error                      { return nil }
