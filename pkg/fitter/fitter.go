// Package fitter sizes and places a right-aligned text label inside the
// overlay bar. It binary-searches for the largest font size whose rendered
// ink fits the height budget without crossing the viewport's left bound.
package fitter

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/menta2k/image-titler/pkg/geometry"
)

// ErrNoFittingSize reports that no font size, down to 1, produced text that
// fits the viewport. Typically the text is too long for the space left of it.
var ErrNoFittingSize = errors.New("no font size fits the text in the available space")

// Metrics describes the ink bounding box of a text string at one font size.
// MinX and MinY are the ink offsets relative to the baseline origin; MinY is
// negative for ink above the baseline (the top bearing).
type Metrics struct {
	Width  int
	Height int
	MinX   int
	MinY   int
}

// MeasureFunc measures text at a given font size. The text being measured is
// fixed for the lifetime of one Fit call.
type MeasureFunc func(size int) (Metrics, error)

// Placement is the result of a successful fit: the chosen font size, the ink
// box position, and the baseline dot to hand to the text drawer.
type Placement struct {
	Size    int
	Metrics Metrics

	// X, Y are the top-left corner of the visual ink box.
	X int
	Y int

	// DotX, DotY are the baseline origin compensating for the font's own
	// bearings, so the glyph ink (not the nominal line box) is centered
	// vertically in the overlay bar.
	DotX int
	DotY int
}

// Fitter finds the maximum fitting font size for overlay text.
type Fitter struct {
	logger *log.Logger
}

// New creates a Fitter. A nil logger disables diagnostics.
func New(logger *log.Logger) *Fitter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fitter{logger: logger}
}

// Fit searches for the largest font size whose measured ink satisfies both
// constraints: ink height at most half the overlay height, and the
// right-aligned text's left edge at or beyond viewportLeft. The search is an
// integer binary search over [1, 2*maxTextHeight]; feasibility is monotonic
// because text only grows with size.
func (f *Fitter) Fit(viewportLeft, viewportRight, overlayHeight, margin int, measure MeasureFunc) (Placement, error) {
	maxTextHeight := geometry.MaxTextHeight(overlayHeight)
	textRightX := viewportRight - margin

	f.logger.Debug("text layout",
		"overlayHeight", overlayHeight,
		"maxTextHeight", maxTextHeight,
		"viewportLeft", viewportLeft,
		"textRightX", textRightX)

	lo, hi := 1, maxTextHeight*2
	best := 0
	var bestMetrics Metrics

	for lo <= hi {
		mid := (lo + hi) / 2

		m, err := measure(mid)
		if err != nil {
			return Placement{}, fmt.Errorf("measure text at size %d: %w", mid, err)
		}

		feasible := m.Height <= maxTextHeight && textRightX-m.Width >= viewportLeft
		f.logger.Debug("fit step", "size", mid, "width", m.Width, "height", m.Height, "feasible", feasible)

		if feasible {
			best = mid
			bestMetrics = m
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best == 0 {
		return Placement{}, ErrNoFittingSize
	}

	x := textRightX - bestMetrics.Width
	y := overlayHeight/2 - bestMetrics.Height/2

	p := Placement{
		Size:    best,
		Metrics: bestMetrics,
		X:       x,
		Y:       y,
		DotX:    x - bestMetrics.MinX,
		DotY:    y - bestMetrics.MinY,
	}

	f.logger.Debug("selected font size", "size", p.Size, "x", p.X, "y", p.Y)

	return p, nil
}
