package capture

import (
	"sync"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

func TestLatestObservation_EmptyBuffer(t *testing.T) {
	l := NewLatestObservation()

	if _, fresh := l.Take(0); fresh {
		t.Error("empty buffer reported a fresh observation")
	}
	if l.Seq() != 0 {
		t.Errorf("Seq() = %d before any publish, want 0", l.Seq())
	}
}

func TestLatestObservation_NewestWins(t *testing.T) {
	l := NewLatestObservation()

	a := detector.SyntheticFrame(0.2, 0.5, 1.6)
	b := detector.SyntheticFrame(0.8, 0.5, 1.6)

	l.Publish(&a, time.Now())
	seq := l.Publish(&b, time.Now())

	obs, fresh := l.Take(0)
	if !fresh {
		t.Fatal("expected a fresh observation")
	}
	if obs.Seq != seq {
		t.Errorf("Seq = %d, want %d (only the newest observation survives)", obs.Seq, seq)
	}
	if obs.Hand == nil || obs.Hand.Points != b.Points {
		t.Error("expected the later observation's hand")
	}
}

func TestLatestObservation_NoDoubleConsume(t *testing.T) {
	l := NewLatestObservation()

	a := detector.SyntheticFrame(0.5, 0.5, 1.6)
	l.Publish(&a, time.Now())

	obs, fresh := l.Take(0)
	if !fresh {
		t.Fatal("expected a fresh observation")
	}

	// The same observation is not fresh a second time.
	if _, fresh := l.Take(obs.Seq); fresh {
		t.Error("already-consumed observation reported as fresh")
	}

	// A new publish makes it fresh again.
	l.Publish(nil, time.Now())
	obs2, fresh := l.Take(obs.Seq)
	if !fresh {
		t.Fatal("expected a fresh observation after republish")
	}
	if obs2.Hand != nil {
		t.Error("expected the no-hand observation")
	}
}

func TestLatestObservation_NilHand(t *testing.T) {
	l := NewLatestObservation()

	l.Publish(nil, time.Now())

	obs, fresh := l.Take(0)
	if !fresh {
		t.Fatal("a no-hand frame is still an observation")
	}
	if obs.Hand != nil {
		t.Error("expected nil hand")
	}
}

func TestLatestObservation_ProducerConsumer(t *testing.T) {
	l := NewLatestObservation()

	const publishes = 1000
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		frame := detector.SyntheticFrame(0.5, 0.5, 1.6)
		for i := 0; i < publishes; i++ {
			l.Publish(&frame, time.Now())
		}
	}()

	// Sequence numbers seen by the consumer must be strictly increasing
	// even while the producer overwrites the slot.
	var lastSeq uint64
	for lastSeq < publishes {
		obs, fresh := l.Take(lastSeq)
		if !fresh {
			continue
		}
		if obs.Seq <= lastSeq {
			t.Fatalf("sequence went backwards: %d after %d", obs.Seq, lastSeq)
		}
		lastSeq = obs.Seq
	}
	wg.Wait()
}
