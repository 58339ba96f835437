package capture

import (
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Observation is one capture-side detection result: the best hand found in
// a camera frame (nil when none) plus bookkeeping for the consumer.
type Observation struct {
	// Hand is the detected hand for this frame, or nil when no hand was
	// found. The pointer is owned by the buffer's consumer after Take.
	Hand *detector.HandFrame

	// Seq increments once per published observation, so the consumer can
	// tell a fresh observation from one it has already processed.
	Seq uint64

	// CapturedAt is when the camera frame was read.
	CapturedAt time.Time
}

// LatestObservation is a single-slot handoff buffer between the capture
// goroutine and the processing loop. The producer always overwrites the
// slot, so the consumer sees the newest observation and stale frames are
// silently dropped; when the processing loop is slower than the camera,
// backpressure never builds up.
//
// Exactly one producer and one consumer are assumed.
type LatestObservation struct {
	mu  sync.Mutex
	obs Observation
	seq uint64
}

// NewLatestObservation creates an empty buffer.
func NewLatestObservation() *LatestObservation {
	return &LatestObservation{}
}

// Publish stores a new observation, replacing any unconsumed one, and
// returns its sequence number.
func (l *LatestObservation) Publish(hand *detector.HandFrame, capturedAt time.Time) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	l.obs = Observation{
		Hand:       hand,
		Seq:        l.seq,
		CapturedAt: capturedAt,
	}
	return l.seq
}

// Take returns the newest observation and whether it is fresher than
// lastSeq. The observation stays in the slot; callers pass the Seq of the
// last observation they processed.
func (l *LatestObservation) Take(lastSeq uint64) (Observation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seq == lastSeq {
		return Observation{}, false
	}
	return l.obs, true
}

// Seq returns the sequence number of the newest published observation,
// zero when nothing has been published yet.
func (l *LatestObservation) Seq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.seq
}
