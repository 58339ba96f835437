package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/preview"
)

// streamInterval paces the MJPEG stream at roughly 15 fps.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves MJPEG camera frames with the status HUD drawn on.
type StreamHandler struct {
	camera capture.Camera

	// status returns the newest pipeline status for the overlay.
	status func() pipeline.Status
}

// NewStreamHandler creates a StreamHandler. status may be nil, in which
// case frames are streamed without an overlay.
func NewStreamHandler(camera capture.Camera, status func() pipeline.Status) *StreamHandler {
	return &StreamHandler{camera: camera, status: status}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		if h.status != nil {
			preview.DrawHUD(frame, h.status())
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(streamInterval)
	}
}
