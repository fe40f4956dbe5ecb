package imagetitler

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x % 200), uint8(y % 200), 100, 255})
		}
	}

	return img
}

func TestNew(t *testing.T) {
	titler := New()
	if titler == nil {
		t.Fatal("New() returned nil")
	}

	if titler.processor == nil {
		t.Error("processor component is nil")
	}

	if titler.config == nil {
		t.Error("config component is nil")
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Font.DefaultFamily = "Helvetica"
	cfg.Output.Quality = 75

	titler := NewWithConfig(cfg, nil)

	if titler.processor.DefaultFontFamily != "Helvetica" {
		t.Errorf("processor font family = %q, want Helvetica", titler.processor.DefaultFontFamily)
	}

	if titler.processor.Quality != 75 {
		t.Errorf("processor quality = %d, want 75", titler.processor.Quality)
	}
}

func TestOutputPathFor(t *testing.T) {
	titler := New()

	got := titler.OutputPathFor(filepath.Join("pics", "team.png"))
	want := filepath.Join("pics", "team_labeled.png")

	if got != want {
		t.Errorf("OutputPathFor = %q, want %q", got, want)
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.png")

	if err := imaging.Save(createTestImage(2400, 1400), inPath); err != nil {
		t.Fatal(err)
	}

	titler := New()
	outPath := titler.OutputPathFor(inPath)

	err := titler.ProcessFile(context.Background(), types.Request{
		InputPath:    inPath,
		OutputPath:   outPath,
		CropToHD:     true,
		Transparency: 20,
	})
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	out, err := imaging.Open(outPath)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}

	if out.Bounds().Dx() != 1920 || out.Bounds().Dy() != 1080 {
		t.Errorf("output = %dx%d, want 1920x1080", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("GetVersion() = %q, want %q", GetVersion(), Version)
	}
}
