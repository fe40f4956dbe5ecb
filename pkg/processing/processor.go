// Package processing implements the titling pipeline: color normalization,
// optional HD crop, optional blur layer, the translucent overlay bar, logo
// compositing, fitted text and save. Steps run in a fixed order; any step's
// failure aborts the remaining pipeline for that image.
package processing

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-titler/pkg/fitter"
	"github.com/menta2k/image-titler/pkg/fonts"
	"github.com/menta2k/image-titler/pkg/geometry"
	"github.com/menta2k/image-titler/pkg/types"
)

// OpenError reports a failure to open or decode the input image.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open image %s: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// SaveError reports a failure to encode or write the output image.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save image %s: %v", e.Path, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// LogoError reports a failure to load or composite the logo image.
type LogoError struct {
	Path string
	Err  error
}

func (e *LogoError) Error() string { return fmt.Sprintf("process logo %s: %v", e.Path, e.Err) }
func (e *LogoError) Unwrap() error { return e.Err }

// Processor runs the titling pipeline for one request at a time.
type Processor struct {
	resolver *fonts.Resolver
	fitter   *fitter.Fitter
	logger   *log.Logger

	// DefaultFontFamily is used when a request does not name one.
	DefaultFontFamily string

	// Quality is the JPEG/WebP encode quality (1-100).
	Quality int
}

// NewProcessor creates a Processor with default settings. A nil logger
// disables diagnostics.
func NewProcessor(logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Processor{
		resolver:          fonts.NewResolver(logger),
		fitter:            fitter.New(logger),
		logger:            logger,
		DefaultFontFamily: "Arial",
		Quality:           90,
	}
}

// SetResolver replaces the font resolver, mainly for tests that resolve
// against a controlled directory.
func (p *Processor) SetResolver(r *fonts.Resolver) {
	p.resolver = r
}

// OverlayAlpha converts a transparency percentage to the overlay bar's alpha:
// 0% transparency is a fully opaque bar (255), 100% is invisible (0).
func OverlayAlpha(transparency int) int {
	return int(math.Round(255 * (1 - float64(transparency)/100)))
}

// BlurAlpha converts a blur percentage to the blurred layer's alpha: higher
// blur shows more of the blurred copy.
func BlurAlpha(blur int) int {
	return int(math.Round(255 * float64(blur) / 100))
}

// Process runs the full pipeline for one request. The context is checked
// between steps so long batches can be cancelled.
func (p *Processor) Process(ctx context.Context, req types.Request) error {
	img, err := p.LoadImage(req.InputPath)
	if err != nil {
		return &OpenError{Path: req.InputPath, Err: err}
	}

	canvas, err := p.Compose(ctx, img, req)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.SaveImage(canvas, req.OutputPath); err != nil {
		return &SaveError{Path: req.OutputPath, Err: err}
	}

	return nil
}

// Compose applies every pipeline step between load and save to an already
// decoded image and returns the finished canvas.
func (p *Processor) Compose(ctx context.Context, img image.Image, req types.Request) (*image.NRGBA, error) {
	// Color normalization: everything downstream works on NRGBA, with any
	// source alpha dropped so the canvas starts out opaque.
	canvas := imaging.Clone(img)
	for i := 3; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = 0xff
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.CropToHD {
		canvas = imaging.Clone(geometry.ResizeAndCrop(canvas))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Blur > 0 {
		radius := req.BlurRadius
		if radius <= 0 {
			radius = geometry.DefaultBlurRadius
		}
		canvas = p.applyBlur(canvas, req.Blur, radius)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas = p.applyOverlayBar(canvas, req.Transparency)

	var logo *geometry.LogoPlacement
	if req.LogoPath != "" {
		var err error
		canvas, logo, err = p.compositeLogo(canvas, req.LogoPath)
		if err != nil {
			return nil, &LogoError{Path: req.LogoPath, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Text != "" {
		family := req.FontFamily
		if family == "" {
			family = p.DefaultFontFamily
		}
		if err := p.drawText(canvas, req.Text, family, logo); err != nil {
			return nil, err
		}
	}

	return canvas, nil
}

// applyBlur composites a gaussian-blurred copy over the canvas. The blur
// percentage controls the blurred layer's opacity.
func (p *Processor) applyBlur(canvas *image.NRGBA, blur, radius int) *image.NRGBA {
	p.logger.Debug("blur settings", "amount", blur, "radius", radius)

	blurred := imaging.Blur(canvas, float64(radius))
	opacity := float64(BlurAlpha(blur)) / 255
	return imaging.Overlay(canvas, blurred, image.Pt(0, 0), opacity)
}

// applyOverlayBar composites the translucent white title bar across the full
// width at the top of the canvas.
func (p *Processor) applyOverlayBar(canvas *image.NRGBA, transparency int) *image.NRGBA {
	overlayHeight := geometry.OverlayHeight(canvas.Bounds().Dy())
	bar := imaging.New(canvas.Bounds().Dx(), overlayHeight, color.NRGBA{255, 255, 255, 255})
	opacity := float64(OverlayAlpha(transparency)) / 255
	return imaging.Overlay(canvas, bar, image.Pt(0, 0), opacity)
}

// compositeLogo scales the logo to fit the overlay bar (minus margins),
// places it at the left edge of the content viewport and records its
// placement for text layout. Logo transparency is preserved.
func (p *Processor) compositeLogo(canvas *image.NRGBA, logoPath string) (*image.NRGBA, *geometry.LogoPlacement, error) {
	logo, err := p.LoadImage(logoPath)
	if err != nil {
		return nil, nil, err
	}

	overlayHeight := geometry.OverlayHeight(canvas.Bounds().Dy())
	margin := geometry.Margin(overlayHeight)
	maxLogoHeight := overlayHeight - 2*margin

	resized := imaging.Resize(logo, 0, maxLogoHeight, imaging.Lanczos)

	vp := geometry.ContentViewport(canvas.Bounds().Dx(), canvas.Bounds().Dy())
	placement := &geometry.LogoPlacement{
		X:      vp.Left + margin,
		Y:      margin,
		Width:  resized.Bounds().Dx(),
		Height: resized.Bounds().Dy(),
		Margin: margin,
	}

	p.logger.Debug("logo placement", "x", placement.X, "y", placement.Y,
		"width", placement.Width, "height", placement.Height)

	out := imaging.Overlay(canvas, resized, image.Pt(placement.X, placement.Y), 1.0)
	return out, placement, nil
}

// drawText resolves the font, fits the text inside the overlay bar and draws
// it right-aligned in solid black. The left bound is the logo's right edge
// when a logo was composited, otherwise the viewport's left margin.
func (p *Processor) drawText(canvas *image.NRGBA, text, family string, logo *geometry.LogoPlacement) error {
	fontPath, err := p.resolver.Resolve(family)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return fmt.Errorf("read font %s: %w", fontPath, err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", fontPath, err)
	}

	overlayHeight := geometry.OverlayHeight(canvas.Bounds().Dy())
	margin := geometry.Margin(overlayHeight)
	vp := geometry.ContentViewport(canvas.Bounds().Dx(), canvas.Bounds().Dy())

	left := vp.Left + margin
	if logo != nil {
		left = logo.Right()
	}

	measure := func(size int) (fitter.Metrics, error) {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size: float64(size),
			DPI:  72,
		})
		if err != nil {
			return fitter.Metrics{}, err
		}
		defer face.Close()

		bounds, _ := font.BoundString(face, text)
		return fitter.Metrics{
			Width:  (bounds.Max.X - bounds.Min.X).Ceil(),
			Height: (bounds.Max.Y - bounds.Min.Y).Ceil(),
			MinX:   bounds.Min.X.Floor(),
			MinY:   bounds.Min.Y.Floor(),
		}, nil
	}

	placement, err := p.fitter.Fit(left, vp.Right, overlayHeight, margin, measure)
	if err != nil {
		return err
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: float64(placement.Size),
		DPI:  72,
	})
	if err != nil {
		return fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(placement.DotX, placement.DotY),
	}
	d.DrawString(text)

	return nil
}

// LoadImage loads an image from a file path with WebP support.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// SaveImage encodes an image to the format implied by the path's extension.
func (p *Processor) SaveImage(img image.Image, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Quality: float32(p.Quality)})
	case ".jpg", ".jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(p.Quality))
	default:
		return imaging.Save(img, path)
	}
}
