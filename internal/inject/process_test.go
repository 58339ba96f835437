package inject

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/pipeline"
)

// scriptInjector installs a shell-script helper that appends every stdin
// line to received.jsonl in its own directory.
func scriptInjector(t *testing.T) *Discovered {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script helper not available on windows")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "record.sh")
	content := "#!/bin/sh\ncat >> received.jsonl\n"
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}

	return &Discovered{
		Manifest:   Manifest{Name: "record", Version: "1.0.0", Executable: "record.sh"},
		Path:       dir,
		Executable: script,
	}
}

func TestProcessInjector_DeliversEvents(t *testing.T) {
	d := scriptInjector(t)
	p := NewProcessInjector(d)

	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	events := []*pipeline.CommandEvent{
		{Kind: pipeline.CommandOrbit, DX: 0.125, DY: -0.05},
		{Kind: pipeline.CommandScroll, Ticks: 3},
	}
	for _, ev := range events {
		if err := p.Send(ev); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(filepath.Join(d.Path, "received.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []pipeline.CommandEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev pipeline.CommandEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("bad line %q: %v", scanner.Text(), err)
		}
		got = append(got, ev)
	}

	if len(got) != 2 {
		t.Fatalf("helper received %d events, want 2", len(got))
	}
	if got[0].Kind != pipeline.CommandOrbit || got[0].DX != 0.125 {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Kind != pipeline.CommandScroll || got[1].Ticks != 3 {
		t.Errorf("second event = %+v", got[1])
	}
}

func TestProcessInjector_SendBeforeStart(t *testing.T) {
	p := NewProcessInjector(scriptInjector(t))
	if err := p.Send(&pipeline.CommandEvent{Kind: pipeline.CommandScroll, Ticks: 3}); err == nil {
		t.Error("expected error sending before Start")
	}
}

func TestProcessInjector_NilEvent(t *testing.T) {
	p := NewProcessInjector(scriptInjector(t))
	if err := p.Send(nil); err != nil {
		t.Errorf("nil event must be a silent no-op, got %v", err)
	}
}

func TestProcessInjector_CloseIdempotent(t *testing.T) {
	p := NewProcessInjector(scriptInjector(t))
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestProcessInjector_DeadHelper(t *testing.T) {
	d := scriptInjector(t)
	// Helper exits immediately without reading stdin.
	if err := os.WriteFile(d.Executable, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := NewProcessInjector(d)
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	// Writes to a dead helper eventually fail; the pipe buffer may absorb
	// the first few.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := p.Send(&pipeline.CommandEvent{Kind: pipeline.CommandScroll, Ticks: 3}); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("sends to a dead helper never failed")
}
