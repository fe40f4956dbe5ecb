package main

import (
	"bufio"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-titler/internal/utils"
)

// writeTestImage writes a small gradient PNG to path.
func writeTestImage(t *testing.T, path string) {
	t.Helper()

	img := imaging.New(320, 180, color.NRGBA{40, 80, 120, 255})
	for y := 0; y < 180; y++ {
		for x := 0; x < 320; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x % 200), uint8(y % 160), 100, 255})
		}
	}

	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
}

// execute runs the root command with the given args against an empty stdin.
func execute(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newRootCmd(strings.NewReader(""))
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestChooseOutputPathMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	got, skip := chooseOutputPath(bufio.NewReader(strings.NewReader("")), path)
	if skip {
		t.Fatal("should not skip when output does not exist")
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
}

func TestChooseOutputPathExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		wantPath string
		wantSkip bool
	}{
		{"cancel", "1\n", "", true},
		{"overwrite", "2\n", path, false},
		{"unique name", "3\n", filepath.Join(dir, "out_1.png"), false},
		{"retry then overwrite", "9\n2\n", path, false},
		{"closed stdin falls back to unique", "", filepath.Join(dir, "out_1.png"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skip := chooseOutputPath(bufio.NewReader(strings.NewReader(tt.input)), path)
			if skip != tt.wantSkip {
				t.Errorf("skip = %v, want %v", skip, tt.wantSkip)
			}
			if got != tt.wantPath {
				t.Errorf("path = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestRunContinuesAfterFailedImage(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.png")
	good := filepath.Join(dir, "good.png")
	writeTestImage(t, good)

	err := execute(t, "--no-crop", missing, good)
	if err == nil {
		t.Fatal("expected an error when one image fails")
	}

	if !strings.Contains(err.Error(), "1 of 2 images failed") {
		t.Errorf("error = %v, want \"1 of 2 images failed\"", err)
	}

	// The failure of the first image must not stop the second.
	if !utils.FileExists(filepath.Join(dir, "good_labeled.png")) {
		t.Error("second image was not processed after the first failed")
	}
}

func TestRunContinuesAfterFontNotFound(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.png")
	second := filepath.Join(dir, "second.png")
	writeTestImage(t, first)
	writeTestImage(t, second)

	err := execute(t, "--no-crop", "--text", "Q3 Review", "--font", "NoSuchFont123", first, second)
	if err == nil {
		t.Fatal("expected an error when the font cannot be resolved")
	}

	// Both images fail the same way; the count proves the run did not
	// abort on the first one.
	if !strings.Contains(err.Error(), "2 of 2 images failed") {
		t.Errorf("error = %v, want \"2 of 2 images failed\"", err)
	}
}

func TestRunRejectsNonImageArgs(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.png")
	writeTestImage(t, good)

	err := execute(t, "--no-crop", notes, good)
	if err == nil {
		t.Fatal("expected an error for a non-image argument")
	}

	if !strings.Contains(err.Error(), "1 of 2 images failed") {
		t.Errorf("error = %v, want \"1 of 2 images failed\"", err)
	}

	if !utils.FileExists(filepath.Join(dir, "good_labeled.png")) {
		t.Error("image after the rejected argument was not processed")
	}
}

func TestRootCmdFlagDefaults(t *testing.T) {
	cmd := newRootCmd(strings.NewReader(""))

	if f := cmd.Flags().Lookup("transparency"); f == nil || f.DefValue != "20" {
		t.Error("transparency flag should default to 20")
	}

	if f := cmd.Flags().Lookup("blur-radius"); f == nil || f.DefValue != "5" {
		t.Error("blur-radius flag should default to 5")
	}

	if f := cmd.Flags().Lookup("no-crop"); f == nil || f.DefValue != "false" {
		t.Error("no-crop flag should default to false")
	}
}
