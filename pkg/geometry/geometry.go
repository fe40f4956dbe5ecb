// Package geometry computes the fixed layout used by the titling pipeline:
// the HD crop, the overlay bar, the content viewport and logo placement.
// All functions are pure and derive from the target canvas constants.
package geometry

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Target canvas dimensions and layout ratios.
const (
	TargetWidth  = 1920
	TargetHeight = 1080

	OverlayHeightRatio = 0.10 // overlay bar height as fraction of canvas height
	MarginRatio        = 0.10 // margin as fraction of overlay bar height

	DefaultBlurRadius = 5
)

// ResizeAndCrop cover-fits an image onto the target canvas: it scales by
// max(TargetWidth/w, TargetHeight/h) preserving aspect ratio, then
// center-crops the overflow so the result is exactly TargetWidth x TargetHeight.
func ResizeAndCrop(img image.Image) image.Image {
	return imaging.Fill(img, TargetWidth, TargetHeight, imaging.Center, imaging.Lanczos)
}

// OverlayHeight returns the overlay bar height for a canvas of the given height.
func OverlayHeight(canvasHeight int) int {
	return int(math.Round(float64(canvasHeight) * OverlayHeightRatio))
}

// Margin returns the layout margin derived from the overlay bar height.
func Margin(overlayHeight int) int {
	return int(math.Round(float64(overlayHeight) * MarginRatio))
}

// MaxTextHeight returns the tallest text ink allowed inside the overlay bar.
func MaxTextHeight(overlayHeight int) int {
	return int(math.Round(float64(overlayHeight) * 0.5))
}

// Viewport is the horizontal span of the canvas valid for logo and text
// placement: a centered square column as wide as the canvas is tall.
type Viewport struct {
	Left  int
	Right int
}

// ContentViewport returns the centered content column for a canvas.
func ContentViewport(canvasWidth, canvasHeight int) Viewport {
	left := (canvasWidth - canvasHeight) / 2
	return Viewport{Left: left, Right: left + canvasHeight}
}

// LogoPlacement records where a logo was composited inside the overlay bar.
type LogoPlacement struct {
	X      int
	Y      int
	Width  int
	Height int
	Margin int
}

// Right returns the logo's right boundary plus margin, the minimum left
// bound for text placed after it.
func (p LogoPlacement) Right() int {
	return p.X + p.Width + p.Margin
}
