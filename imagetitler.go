// Package imagetitler adds a branded title bar to images and crops them to a
// fixed 1920x1080 canvas for use as video-conferencing backgrounds.
//
// The title bar is a translucent white band across the top 10% of the canvas
// carrying an optional logo on the left and optional right-aligned text. The
// text font is resolved from the host system by family name and sized by
// binary search to the largest size that fits the bar.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		imagetitler "github.com/menta2k/image-titler"
//		"github.com/menta2k/image-titler/pkg/types"
//	)
//
//	func main() {
//		titler := imagetitler.New()
//
//		err := titler.ProcessFile(context.Background(), types.Request{
//			InputPath:    "photo.jpg",
//			OutputPath:   "photo_labeled.jpg",
//			Text:         "Q3 Review",
//			CropToHD:     true,
//			Transparency: 20,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Geometry (pkg/geometry): crop rectangles, overlay bar bounds, viewport
// 2. Fonts (pkg/fonts): system font resolution from a family name
// 3. Fitter (pkg/fitter): binary-search text sizing inside the bar
// 4. Processing (pkg/processing): the compositing pipeline tying them together
package imagetitler

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/internal/utils"
	"github.com/menta2k/image-titler/pkg/processing"
	"github.com/menta2k/image-titler/pkg/types"
)

// Version of the image titler library
const Version = "1.0.0"

// Titler provides a high-level interface for producing titled images
type Titler struct {
	processor *processing.Processor
	config    *config.Config
}

// New creates a new Titler with default configuration
func New() *Titler {
	return NewWithConfig(config.Default(), nil)
}

// NewWithConfig creates a new Titler with custom configuration. A nil logger
// disables diagnostics.
func NewWithConfig(cfg *config.Config, logger *log.Logger) *Titler {
	p := processing.NewProcessor(logger)
	p.DefaultFontFamily = cfg.Font.DefaultFamily
	p.Quality = cfg.Output.Quality

	return &Titler{
		processor: p,
		config:    cfg,
	}
}

// ProcessFile runs the full titling pipeline for one request.
func (t *Titler) ProcessFile(ctx context.Context, req types.Request) error {
	return t.processor.Process(ctx, req)
}

// Processor exposes the underlying pipeline for advanced use.
func (t *Titler) Processor() *processing.Processor {
	return t.processor
}

// OutputPathFor returns the default output path for an input image, using
// the configured suffix.
func (t *Titler) OutputPathFor(inputPath string) string {
	return utils.LabeledOutputPath(inputPath, t.config.Output.Suffix)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
