package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	imagetitler "github.com/menta2k/image-titler"
	"github.com/menta2k/image-titler/internal/config"
	"github.com/menta2k/image-titler/internal/utils"
	"github.com/menta2k/image-titler/pkg/types"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdin).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	logo         string
	text         string
	font         string
	noCrop       bool
	transparency int
	blur         int
	blurRadius   int
	debug        bool
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "image-titler [flags] IMAGE...",
		Short: "Add a branded title bar to images for video-conferencing backgrounds",
		Long: `image-titler composites a translucent title bar with an optional logo and
right-aligned text onto images, cropping them to 1920x1080 by default.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, stdin, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.logo, "logo", "", "path to logo image")
	cmd.Flags().StringVar(&opts.text, "text", "", "text to overlay on the title bar")
	cmd.Flags().StringVar(&opts.font, "font", "", "font family to use for text")
	cmd.Flags().BoolVar(&opts.noCrop, "no-crop", false, "disable automatic cropping to 1920x1080")
	cmd.Flags().IntVar(&opts.transparency, "transparency", 20, "transparency percentage (0-100) for the overlay bar")
	cmd.Flags().IntVar(&opts.blur, "blur", 0, "blur layer opacity percentage (0-100)")
	cmd.Flags().IntVar(&opts.blurRadius, "blur-radius", 5, "gaussian blur radius in pixels")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug output")

	return cmd
}

func run(cmd *cobra.Command, stdin io.Reader, opts options, images []string) error {
	level := log.InfoLevel
	if opts.debug || os.Getenv("IMAGE_TITLER_DEBUG") == "1" {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	if opts.transparency < 0 || opts.transparency > 100 {
		return fmt.Errorf("transparency must be between 0 and 100")
	}
	if opts.blur < 0 || opts.blur > 100 {
		return fmt.Errorf("blur must be between 0 and 100")
	}
	if opts.logo != "" && !utils.FileExists(opts.logo) {
		return fmt.Errorf("logo file %s does not exist", opts.logo)
	}

	cfg := config.Default()
	if utils.FileExists(config.GetConfigPath()) {
		loaded, err := config.LoadFromFile(config.GetConfigPath())
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}
		cfg = loaded
		logger.Debug("loaded config", "path", config.GetConfigPath())
	}

	// Flags win over config file values.
	if !cmd.Flags().Changed("transparency") {
		opts.transparency = cfg.Overlay.Transparency
	}
	if !cmd.Flags().Changed("blur") {
		opts.blur = cfg.Overlay.Blur
	}
	if !cmd.Flags().Changed("blur-radius") {
		opts.blurRadius = cfg.Overlay.BlurRadius
	}

	titler := imagetitler.NewWithConfig(cfg, logger)
	prompter := bufio.NewReader(stdin)

	failed := 0
	for _, imagePath := range images {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		if !utils.FileExists(imagePath) {
			logger.Error("input does not exist", "image", imagePath)
			failed++
			continue
		}

		if !utils.IsImageFile(imagePath) {
			logger.Error("input is not an image file", "image", imagePath)
			failed++
			continue
		}

		outputPath, skip := chooseOutputPath(prompter, titler.OutputPathFor(imagePath))
		if skip {
			logger.Info("skipping", "image", imagePath)
			continue
		}

		err := titler.ProcessFile(cmd.Context(), types.Request{
			InputPath:    imagePath,
			OutputPath:   outputPath,
			LogoPath:     opts.logo,
			Text:         opts.text,
			FontFamily:   opts.font,
			CropToHD:     !opts.noCrop,
			Transparency: opts.transparency,
			Blur:         opts.blur,
			BlurRadius:   opts.blurRadius,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Error("processing failed", "image", imagePath, "err", err)
			failed++
			continue
		}

		logger.Info("processed", "image", imagePath, "output", outputPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(images))
	}
	return nil
}

// chooseOutputPath handles an already existing output file: the user may
// cancel this image, overwrite, or pick a unique name. A closed or
// non-interactive stdin falls back to a unique name.
func chooseOutputPath(stdin *bufio.Reader, outputPath string) (path string, skip bool) {
	if !utils.FileExists(outputPath) {
		return outputPath, false
	}

	for {
		fmt.Printf("\nFile %s already exists. Choose action:\n[1] Cancel\n[2] Overwrite\n[3] Use new name\nEnter choice (1-3): ", outputPath)

		line, err := stdin.ReadString('\n')
		if err != nil {
			return utils.UniqueOutputPath(outputPath), false
		}

		switch strings.TrimSpace(line) {
		case "1":
			return "", true
		case "2":
			return outputPath, false
		case "3":
			return utils.UniqueOutputPath(outputPath), false
		}
	}
}
