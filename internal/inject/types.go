// Package inject delivers command events to the OS input layer through
// external injector helpers. The daemon itself never synthesizes input;
// injectors are separate executables discovered via manifests, receiving
// one JSON command event per stdin line.
package inject

import "github.com/ayusman/mudra/internal/pipeline"

// Injector is a sink for command events. Send is fire-and-forget from the
// pipeline's point of view: a slow or failing injector must never stall
// frame processing, so implementations do their own buffering or dropping.
type Injector interface {
	Send(event *pipeline.CommandEvent) error
	Close() error
}

// Manifest describes an injector helper's metadata.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`

	// Kinds lists the command kinds the helper handles ("orbit",
	// "scroll"). An empty list means all kinds.
	Kinds []string `json:"kinds,omitempty"`
}

// Discovered is an injector helper found on disk.
type Discovered struct {
	Manifest   Manifest
	Path       string
	Executable string
}
