package inject

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/pipeline"
)

// closeWait bounds how long Close waits for the helper to exit after its
// stdin is closed before killing it.
const closeWait = 2 * time.Second

// ProcessInjector drives one long-running injector helper. The helper is
// started once and receives one JSON-encoded command event per stdin line;
// it exits when stdin closes. Starting the process per event would add
// tens of milliseconds of latency to every command, which gesture control
// cannot afford.
type ProcessInjector struct {
	discovered *Discovered

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	enc     *json.Encoder
	started bool
}

// NewProcessInjector creates a ProcessInjector for a discovered helper.
// The helper process is not started until Start.
func NewProcessInjector(discovered *Discovered) *ProcessInjector {
	return &ProcessInjector{discovered: discovered}
}

// Start launches the helper process and connects its stdin.
func (p *ProcessInjector) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	cmd := exec.Command(p.discovered.Executable)
	cmd.Dir = p.discovered.Path

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("injector %s: stdin pipe: %w", p.discovered.Manifest.Name, err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("injector %s: start: %w", p.discovered.Manifest.Name, err)
	}

	p.cmd = cmd
	p.stdin = stdin
	p.enc = json.NewEncoder(stdin)
	p.started = true

	log.Printf("injector started: %s %s (pid %d)",
		p.discovered.Manifest.Name, p.discovered.Manifest.Version, cmd.Process.Pid)

	return nil
}

// Send writes one command event as a JSON line to the helper. A write
// error marks the injector dead; subsequent sends fail fast until it is
// restarted via Start after Close.
func (p *ProcessInjector) Send(event *pipeline.CommandEvent) error {
	if event == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return errors.New("injector not started")
	}

	if err := p.enc.Encode(event); err != nil {
		p.teardownLocked()
		return fmt.Errorf("injector %s: write: %w", p.discovered.Manifest.Name, err)
	}
	return nil
}

// Close signals the helper by closing its stdin and waits for it to exit,
// killing it if it does not within the grace period.
func (p *ProcessInjector) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return nil
	}

	p.stdin.Close()

	done := make(chan error, 1)
	go func(cmd *exec.Cmd) { done <- cmd.Wait() }(p.cmd)

	var err error
	select {
	case err = <-done:
	case <-time.After(closeWait):
		p.cmd.Process.Kill()
		err = <-done
	}

	p.cmd = nil
	p.stdin = nil
	p.enc = nil
	p.started = false

	return err
}

// teardownLocked abandons a dead helper without waiting. Caller holds mu.
func (p *ProcessInjector) teardownLocked() {
	p.stdin.Close()
	go p.cmd.Wait()
	p.cmd = nil
	p.stdin = nil
	p.enc = nil
	p.started = false
}
