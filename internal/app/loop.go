package app

import (
	"log"
	"time"
)

// runCapture is the capture loop: read a camera frame, gate on scene
// motion, run hand detection and publish the result into the handoff
// buffer. It owns the camera's frame-rate switching; the processing loop
// never touches the camera.
func (a *App) runCapture(stopCh <-chan struct{}) {
	defer a.wg.Done()

	activeMode := false
	lastMotion := time.Now()

	interval := time.Second / time.Duration(a.config.IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsTracking() {
				continue
			}

			frame, err := a.config.Camera.ReadFrame()
			if err != nil {
				log.Printf("error reading frame: %v", err)
				continue
			}

			moved, _ := a.motion.Detect(frame)
			if moved {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.config.Camera.SetFPS(a.config.ActiveFPS)
					interval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(interval)
					log.Println("capture: active mode")
				}
			} else if activeMode && time.Since(lastMotion) > idleTimeout {
				activeMode = false
				a.config.Camera.SetFPS(a.config.IdleFPS)
				interval = time.Second / time.Duration(a.config.IdleFPS)
				ticker.Reset(interval)
				log.Println("capture: idle mode")
			}

			if !activeMode {
				// A still scene cannot contain a gesture; publish the
				// absence so the pipeline's loss counting still runs.
				frame.Close()
				a.latest.Publish(nil, time.Now())
				continue
			}

			hands, err := a.config.Detector.Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("error detecting hands: %v", err)
				continue
			}

			if len(hands) == 0 {
				a.latest.Publish(nil, time.Now())
				continue
			}

			// Single-hand tracking: the detector orders hands by score,
			// so the first one is the hand we follow.
			hand := hands[0]
			a.latest.Publish(&hand, time.Now())
		}
	}
}

// runProcessing is the processing loop: drain the newest observation from
// the handoff buffer, run it through the gesture pipeline and fan the
// results out to the injector, the store and the status sinks. It runs at
// the pipeline's configured frame rate regardless of the capture rate;
// ticks with no fresh observation are skipped, and when the capture side
// outruns processing only the newest observation survives.
func (a *App) runProcessing(stopCh <-chan struct{}) {
	defer a.wg.Done()

	interval := time.Second / time.Duration(a.config.Pipeline.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSeq uint64
	var lastGesture string

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsTracking() {
				continue
			}

			obs, fresh := a.latest.Take(lastSeq)
			if !fresh {
				continue
			}
			lastSeq = obs.Seq

			event, status := a.pipeline.Process(obs.Hand, time.Now())

			a.mu.Lock()
			a.frames++
			if event != nil {
				a.commands++
			}
			a.lastStatus = status
			sink := a.statusSink
			onGesture := a.onGesture
			session := a.session
			a.mu.Unlock()

			if event != nil {
				if err := a.config.Injector.Send(event); err != nil {
					log.Printf("error injecting command: %v", err)
				}
				if a.config.Store != nil && session != nil {
					if err := a.config.Store.Events().Append(session.ID, status.Gesture, event); err != nil {
						log.Printf("error persisting event: %v", err)
					}
				}
			}

			if sink != nil {
				sink.Publish(status)
			}
			if onGesture != nil && status.Gesture != lastGesture {
				lastGesture = status.Gesture
				onGesture(status.Gesture)
			}
		}
	}
}
