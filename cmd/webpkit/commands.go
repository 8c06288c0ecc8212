package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/webpkit/pkg/adapters/filesink"
	"github.com/user/webpkit/pkg/config"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/pipeline"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/stages/filmstrip"
	"github.com/user/webpkit/pkg/summarizer"
)

// codecFlags are shared by the commands that encode.
func codecFlags() []cli.Flag {
	category := l10n.T("Codec")
	return []cli.Flag{
		&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: l10n.T("Preset (default, picture, photo, drawing, icon, text)"), Category: category},
		&cli.Float64Flag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Quality 0-100"), Category: category},
		&cli.BoolFlag{Name: "lossless", Usage: l10n.T("Encode losslessly"), Category: category},
		&cli.IntFlag{Name: "level", Usage: l10n.T("Lossless level 0-9 (requires --lossless)"), Category: category},
		&cli.IntFlag{Name: "method", Aliases: []string{"m"}, Usage: l10n.T("Compression method 0-6"), Category: category},
		&cli.IntFlag{Name: "target-size", Usage: l10n.T("Target size in bytes (lossy only)"), Category: category},
		&cli.IntFlag{Name: "passes", Usage: l10n.T("Passes used to reach the target size (1-10)"), Category: category},
		&cli.BoolFlag{Name: "exact", Usage: l10n.T("Keep RGB values under transparent pixels"), Category: category},
	}
}

// codecConfig builds the codec configuration from the profile and flags.
func codecConfig(c *cli.Context, profile config.Profile) (config.Config, error) {
	if c.IsSet("preset") {
		profile.Preset = c.String("preset")
	}
	if c.IsSet("lossless") {
		profile.Lossless = c.Bool("lossless")
	}
	if c.IsSet("exact") {
		profile.Exact = c.Bool("exact")
	}

	b, err := profile.Builder()
	if err != nil {
		return config.Config{}, err
	}
	if c.IsSet("level") {
		b.WithLosslessLevel(c.Int("level"))
	}
	if c.IsSet("quality") {
		b.WithQuality(float32(c.Float64("quality")))
	}
	if c.IsSet("method") {
		b.WithMethod(c.Int("method"))
	}
	if c.IsSet("target-size") {
		b.WithTargetSize(c.Int("target-size"))
	}
	if c.IsSet("passes") {
		b.WithPasses(c.Int("passes"))
	}
	return b.Build()
}

func layoutFlag(def string) *cli.StringFlag {
	return &cli.StringFlag{Name: "layout", Value: def, Usage: l10n.T("Pixel layout of decoded frames (RGB, RGBA, BGRA, ...)")}
}

func parseLayout(name string) (picture.Layout, error) {
	l, ok := picture.ParseLayout(name)
	if !ok {
		return 0, fmt.Errorf("unknown layout %q", name)
	}
	return l, nil
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() < n {
		return errors.New(l10n.F("%s: expected %d arguments, got %d", c.Command.Name, n, c.NArg()))
	}
	return nil
}

// readPicture loads a PNG or JPEG file as an RGBA buffer.
func readPicture(e *env, path string) (*picture.Buffer, error) {
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := e.renderer.DecodeImage(data, ports.FormatFromExt(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return picture.FromImage(img, picture.RGBA)
}

// writeRaster encodes img by the extension of path, PNG when unknown.
func writeRaster(e *env, img image.Image, path string) error {
	format := ports.FormatFromExt(filepath.Ext(path))
	if format == ports.FormatAuto {
		format = ports.FormatPNG
	}
	data, err := e.renderer.EncodeImage(img, format, 90)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return e.fs.WriteFile(path, data)
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     l10n.T("Encode a PNG or JPEG image as WebP"),
		ArgsUsage: "<input> <output.webp>",
		Flags:     codecFlags(),
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			cfg, err := codecConfig(c, e.profile)
			if err != nil {
				return err
			}

			pic, err := readPicture(e, c.Args().Get(0))
			if err != nil {
				return err
			}
			defer pic.Release()

			return e.client.SaveImage(c.Context, pic, c.Args().Get(1), cfg)
		},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     l10n.T("Decode a still WebP into PNG or JPEG"),
		ArgsUsage: "<input.webp> <output>",
		Flags:     []cli.Flag{layoutFlag("RGBA")},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			layout, err := parseLayout(c.String("layout"))
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}

			pic, err := e.client.LoadImage(c.Context, c.Args().Get(0), layout)
			if err != nil {
				return err
			}
			defer pic.Release()

			return writeRaster(e, pic.Image(), c.Args().Get(1))
		},
	}
}

func animateCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.Float64Flag{Name: "fps", Usage: l10n.T("Frames per second")},
		&cli.IntFlag{Name: "loop", Usage: l10n.T("Loop count (0 = infinite)")},
	}, codecFlags()...)

	return &cli.Command{
		Name:      "animate",
		Usage:     l10n.T("Build an animated WebP from still images"),
		ArgsUsage: "<output.webp> <frame>...",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			cfg, err := codecConfig(c, e.profile)
			if err != nil {
				return err
			}
			fps := e.profile.FPS
			if c.IsSet("fps") {
				fps = c.Float64("fps")
			}
			loop := e.profile.LoopCount
			if c.IsSet("loop") {
				loop = c.Int("loop")
			}

			paths := c.Args().Slice()[1:]
			frames := make([]*picture.Buffer, 0, len(paths))
			defer func() {
				for _, f := range frames {
					f.Release()
				}
			}()
			for _, path := range paths {
				pic, err := readPicture(e, path)
				if err != nil {
					return err
				}
				frames = append(frames, pic)
			}

			return e.client.SaveAnimation(c.Context, frames, c.Args().Get(0), fps, loop, cfg)
		},
	}
}

// frameTiming is written next to extracted frames.
type frameTiming struct {
	File  string `json:"file"`
	EndMs int    `json:"end_ms"`
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     l10n.T("Write the frames of an animated WebP as numbered PNG files"),
		ArgsUsage: "<input.webp> <outdir>",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "fps", Usage: l10n.T("Resample to a constant frame rate")},
			layoutFlag("RGBA"),
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			layout, err := parseLayout(c.String("layout"))
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}

			var fps *float64
			if c.IsSet("fps") {
				v := c.Float64("fps")
				fps = &v
			}

			result, err := e.client.LoadAnimationFrames(c.Context, c.Args().Get(0), layout, fps)
			if err != nil {
				return err
			}

			sink := filesink.New(c.Args().Get(1), e.fs, e.renderer)
			timings := make([]frameTiming, len(result.Frames))
			for i, f := range result.Frames {
				if err := sink.SaveFrame(i, f.Picture.Image()); err != nil {
					return fmt.Errorf("save frame %d: %w", i, err)
				}
				timings[i] = frameTiming{File: filepath.Base(sink.FramePath(i)), EndMs: f.EndMs}
				f.Picture.Release()
			}

			data, err := json.MarshalIndent(timings, "", "  ")
			if err != nil {
				return err
			}
			if err := sink.SaveReport("frames.json", data); err != nil {
				return fmt.Errorf("save timings: %w", err)
			}

			e.log.Info("Extracted %d frames to %s", len(result.Frames), c.Args().Get(1))
			return nil
		},
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     l10n.T("Describe the frames of an animated WebP"),
		ArgsUsage: "<input.webp>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Usage: l10n.T("Print a Markdown report")},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1); err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}

			path := c.Args().Get(0)
			info, container, err := e.client.Inspect(path)
			if err != nil {
				return err
			}

			summary := summarizer.NewBuilder().
				WithSource(path).
				WithAnimation(info, container).
				Build()

			opts := []summarizer.Option{
				summarizer.WithTranslator(l10n.T),
				summarizer.WithVersion(version),
			}
			formatter := summarizer.NewTextFormatter(opts...)
			if c.Bool("markdown") {
				formatter = summarizer.NewMarkdownFormatter(opts...)
			}
			return summarizer.NewWriter(formatter).Write(os.Stdout, summary)
		},
	}
}

func stripCommand() *cli.Command {
	defaults := pipeline.DefaultStripInput()
	return &cli.Command{
		Name:      "strip",
		Usage:     l10n.T("Render the frames of an animated WebP as a contact sheet"),
		ArgsUsage: "<input.webp> <output.png>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "columns", Value: defaults.Columns, Usage: l10n.T("Thumbnails per row")},
			&cli.IntFlag{Name: "width", Value: defaults.ThumbWidth, Usage: l10n.T("Thumbnail width in pixels")},
			&cli.Float64Flag{Name: "fps", Usage: l10n.T("Resample to a constant frame rate")},
			&cli.BoolFlag{Name: "no-labels", Usage: l10n.T("Omit frame end times")},
			&cli.StringFlag{Name: "font", Usage: l10n.T("TrueType font for labels")},
		},
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2); err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}

			var fps *float64
			if c.IsSet("fps") {
				v := c.Float64("fps")
				fps = &v
			}
			result, err := e.client.LoadAnimationFrames(c.Context, c.Args().Get(0), picture.RGBA, fps)
			if err != nil {
				return err
			}
			defer func() {
				for _, f := range result.Frames {
					f.Picture.Release()
				}
			}()

			input := pipeline.DefaultStripInput()
			input.Frames = result.Frames
			input.Columns = c.Int("columns")
			input.ThumbWidth = c.Int("width")
			input.Labels = !c.Bool("no-labels")
			input.FontPath = c.String("font")

			strip, err := filmstrip.NewStage(e.renderer, e.log).Execute(c.Context, input)
			if err != nil {
				return err
			}
			return writeRaster(e, strip.Image, c.Args().Get(1))
		},
	}
}
