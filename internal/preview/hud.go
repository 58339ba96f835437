// Package preview renders the debug overlay drawn onto streamed camera
// frames: the active gesture, hand presence and the tracked centroid.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/pipeline"
)

var gestureColors = map[string]color.RGBA{
	"idle":     {R: 160, G: 160, B: 160, A: 255},
	"orbit":    {R: 80, G: 180, B: 255, A: 255},
	"zoom-in":  {R: 80, G: 230, B: 120, A: 255},
	"zoom-out": {R: 255, G: 140, B: 80, A: 255},
}

var (
	presentColor = color.RGBA{R: 80, G: 230, B: 120, A: 255}
	absentColor  = color.RGBA{R: 220, G: 70, B: 70, A: 255}
)

// DrawHUD draws the status overlay onto frame in place.
func DrawHUD(frame *gocv.Mat, status pipeline.Status) {
	if frame == nil || frame.Empty() {
		return
	}

	col, ok := gestureColors[status.Gesture]
	if !ok {
		col = gestureColors["idle"]
	}

	gocv.PutText(frame, status.Gesture,
		image.Point{X: 16, Y: 36},
		gocv.FontHersheySimplex, 1.0, col, 2)

	// Presence dot in the top-right corner.
	dot := image.Point{X: frame.Cols() - 24, Y: 24}
	if status.HandPresent {
		gocv.Circle(frame, dot, 10, presentColor, -1)
	} else {
		gocv.Circle(frame, dot, 10, absentColor, 2)
	}

	if !status.HandPresent {
		return
	}

	gocv.PutText(frame, fmt.Sprintf("openness %.2f", status.Openness),
		image.Point{X: 16, Y: 68},
		gocv.FontHersheySimplex, 0.6, color.RGBA{R: 230, G: 230, B: 230, A: 255}, 1)

	// Centroid marker, scaled from normalized to pixel coordinates.
	cx := int(status.Centroid.X * float64(frame.Cols()))
	cy := int(status.Centroid.Y * float64(frame.Rows()))
	if cx >= 0 && cx < frame.Cols() && cy >= 0 && cy < frame.Rows() {
		gocv.Circle(frame, image.Point{X: cx, Y: cy}, 8, col, 2)
	}
}
