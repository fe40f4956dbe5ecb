package geometry

import (
	"image"
	"image/color"
	"testing"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	return img
}

func TestResizeAndCrop(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"landscape 3000x2000", 3000, 2000},
		{"portrait 1000x2000", 1000, 2000},
		{"already HD", 1920, 1080},
		{"small upscale", 640, 480},
		{"ultrawide", 5000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResizeAndCrop(createTestImage(tt.width, tt.height))

			bounds := result.Bounds()
			if bounds.Dx() != TargetWidth || bounds.Dy() != TargetHeight {
				t.Errorf("got %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), TargetWidth, TargetHeight)
			}
		})
	}
}

func TestOverlayHeight(t *testing.T) {
	if h := OverlayHeight(TargetHeight); h != 108 {
		t.Errorf("OverlayHeight(1080) = %d, want 108", h)
	}

	if h := OverlayHeight(1000); h != 100 {
		t.Errorf("OverlayHeight(1000) = %d, want 100", h)
	}
}

func TestMargin(t *testing.T) {
	// 108 * 0.10 = 10.8, rounds to 11
	if m := Margin(108); m != 11 {
		t.Errorf("Margin(108) = %d, want 11", m)
	}
}

func TestMaxTextHeight(t *testing.T) {
	if h := MaxTextHeight(108); h != 54 {
		t.Errorf("MaxTextHeight(108) = %d, want 54", h)
	}
}

func TestContentViewport(t *testing.T) {
	vp := ContentViewport(TargetWidth, TargetHeight)

	if vp.Left != 420 {
		t.Errorf("viewport left = %d, want 420", vp.Left)
	}

	if vp.Right != 1500 {
		t.Errorf("viewport right = %d, want 1500", vp.Right)
	}

	if vp.Right-vp.Left != TargetHeight {
		t.Errorf("viewport width = %d, want %d", vp.Right-vp.Left, TargetHeight)
	}
}

func TestLogoPlacementRight(t *testing.T) {
	p := LogoPlacement{X: 431, Y: 11, Width: 120, Height: 86, Margin: 11}

	if r := p.Right(); r != 431+120+11 {
		t.Errorf("Right() = %d, want %d", r, 431+120+11)
	}
}
