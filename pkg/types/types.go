package types

// Request describes one image to process. It is built and validated by the
// caller (CLI or library user) and treated as immutable by the pipeline.
type Request struct {
	InputPath  string
	OutputPath string
	LogoPath   string // optional; empty means no logo
	Text       string // optional; empty means no text
	FontFamily string // optional; empty means the configured default

	CropToHD     bool
	Transparency int // overlay bar transparency percentage, 0-100
	Blur         int // blur layer opacity percentage, 0-100
	BlurRadius   int // gaussian blur radius in pixels
}
