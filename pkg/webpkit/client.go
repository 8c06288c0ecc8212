// Package webpkit provides file-level WebP operations: still images and
// animations are encoded, decoded and written through a pluggable engine.
package webpkit

import (
	"context"
	"fmt"
	"math"

	"github.com/user/webpkit/pkg/adapters/logger"
	"github.com/user/webpkit/pkg/adapters/nullsink"
	"github.com/user/webpkit/pkg/animation"
	"github.com/user/webpkit/pkg/config"
	"github.com/user/webpkit/pkg/framecodec"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/pipeline"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/stages/decode"
	"github.com/user/webpkit/pkg/stages/encode"
	"github.com/user/webpkit/pkg/webpdata"
	"github.com/user/webpkit/pkg/webperr"
)

// Client reads and writes WebP files.
type Client struct {
	codec       *framecodec.Codec
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	fs          ports.FileSystem
	logger      ports.Logger

	useThreads bool
	workers    int
	background uint32
	allowMixed bool
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	sink       ports.FrameSink
	useThreads bool
	workers    int
	background uint32
	allowMixed bool
}

// WithFrameSink sends every decoded animation frame to sink.
func WithFrameSink(sink ports.FrameSink) Option {
	return func(o *clientOptions) { o.sink = sink }
}

// WithThreads decodes animation frames on a worker pool.
// workers <= 0 uses one worker per CPU.
func WithThreads(workers int) Option {
	return func(o *clientOptions) {
		o.useThreads = true
		o.workers = workers
	}
}

// WithBackgroundColor sets the ARGB background stored in saved animations.
func WithBackgroundColor(argb uint32) Option {
	return func(o *clientOptions) { o.background = argb }
}

// WithAllowMixed lets each animation frame pick lossy or lossless,
// whichever is smaller.
func WithAllowMixed(allow bool) Option {
	return func(o *clientOptions) { o.allowMixed = allow }
}

// New creates a Client on top of engine.
func New(engine ports.Codec, fs ports.FileSystem, log ports.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewNoop()
	}
	o := clientOptions{
		sink:       nullsink.New(),
		background: animation.DefaultBackgroundColor,
	}
	for _, opt := range opts {
		opt(&o)
	}

	codec := framecodec.New(engine, log)
	return &Client{
		codec:       codec,
		encodeStage: encode.NewStage(codec, log),
		decodeStage: decode.NewStage(codec, o.sink, log),
		fs:          fs,
		logger:      log.WithComponent("webpkit"),
		useThreads:  o.useThreads,
		workers:     o.workers,
		background:  o.background,
		allowMixed:  o.allowMixed,
	}
}

// Codec returns the frame codec used by the client.
func (c *Client) Codec() *framecodec.Codec {
	return c.codec
}

// SaveImage encodes pic as a still WebP and writes it to path.
func (c *Client) SaveImage(ctx context.Context, pic *picture.Buffer, path string, cfg config.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := c.codec.Encode(pic, cfg)
	if err != nil {
		c.logger.Error("Failed to encode %s: %v", path, err)
		return err
	}
	defer data.Release()

	if err := c.fs.WriteFile(path, data.Bytes()); err != nil {
		c.logger.Error("Failed to write output: %s", err)
		return fmt.Errorf("write %s: %w", path, err)
	}

	c.logger.Info("Saved %s (%d bytes)", path, data.Size())
	return nil
}

// LoadImage reads a still WebP from path and decodes it into layout.
func (c *Client) LoadImage(ctx context.Context, path string, layout picture.Layout) (*picture.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := c.read(path)
	if err != nil {
		return nil, err
	}
	defer data.Release()

	pic, err := c.codec.Decode(data, layout)
	if err != nil {
		c.logger.Error("Failed to decode %s: %v", path, err)
		return nil, err
	}

	c.logger.Info("Loaded %s: %dx%d", path, pic.Width(), pic.Height())
	return pic, nil
}

// FrameTimestamps returns the start time of each of n frames shown at a
// constant fps and the end time of the last one. Times are rounded half to
// even.
func FrameTimestamps(n int, fps float64) ([]int, int, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return nil, 0, webperr.Newf(webperr.ErrConfig, "webpkit.FrameTimestamps", "fps must be positive, got %v", fps)
	}
	ts := make([]int, n)
	for i := range ts {
		ts[i] = int(math.RoundToEven(float64(i) * 1000 / fps))
	}
	return ts, int(math.RoundToEven(float64(n) * 1000 / fps)), nil
}

// SaveAnimation encodes frames at a constant fps and writes the animation
// to path. Nothing is written unless the whole animation assembles.
func (c *Client) SaveAnimation(ctx context.Context, frames []*picture.Buffer, path string, fps float64, loopCount int, cfg config.Config) error {
	const op = "webpkit.SaveAnimation"

	ts, final, err := FrameTimestamps(len(frames), fps)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return webperr.New(webperr.ErrAssembly, op, "no frames")
	}

	input := pipeline.EncodeInput{
		Frames:          make([]pipeline.TimedFrame, len(frames)),
		FinalMs:         final,
		LoopCount:       loopCount,
		BackgroundColor: c.background,
		AllowMixed:      c.allowMixed,
		Config:          cfg,
	}
	for i, f := range frames {
		input.Frames[i] = pipeline.TimedFrame{Picture: f, TimestampMs: ts[i]}
	}

	c.logger.Info("Encoding %d frames at %.2f fps", len(frames), fps)
	encoded, err := c.encodeStage.Execute(ctx, input)
	if err != nil {
		c.logger.Error("Failed to encode animation: %s", err)
		return fmt.Errorf("encode stage: %w", err)
	}
	defer encoded.Data.Release()

	if err := c.fs.WriteFile(path, encoded.Data.Bytes()); err != nil {
		c.logger.Error("Failed to write output: %s", err)
		return fmt.Errorf("write %s: %w", path, err)
	}

	c.logger.Info("Saved %s: %d frames, %d ms, %d bytes", path, encoded.FrameCount, encoded.DurationMs, encoded.FileSize)
	return nil
}

// LoadAnimation decodes every frame of the animation at path into layout.
// When fps is set the frames are resampled to that constant rate.
func (c *Client) LoadAnimation(ctx context.Context, path string, layout picture.Layout, fps *float64) ([]*picture.Buffer, error) {
	result, err := c.LoadAnimationFrames(ctx, path, layout, fps)
	if err != nil {
		return nil, err
	}
	pics := make([]*picture.Buffer, len(result.Frames))
	for i, f := range result.Frames {
		pics[i] = f.Picture
	}
	return pics, nil
}

// LoadAnimationFrames is LoadAnimation keeping frame end times and the
// container summary.
func (c *Client) LoadAnimationFrames(ctx context.Context, path string, layout picture.Layout, fps *float64) (pipeline.DecodeResult, error) {
	data, err := c.read(path)
	if err != nil {
		return pipeline.DecodeResult{}, err
	}
	defer data.Release()

	result, err := c.decodeStage.Execute(ctx, pipeline.DecodeInput{
		Data:       data,
		Layout:     layout,
		FPS:        fps,
		UseThreads: c.useThreads,
		Workers:    c.workers,
	})
	if err != nil {
		c.logger.Error("Failed to decode animation: %s", err)
		return pipeline.DecodeResult{}, fmt.Errorf("decode stage: %w", err)
	}

	c.logger.Info("Loaded %s: %d frames", path, len(result.Frames))
	return result, nil
}

// Inspect parses the animation container at path without decoding pixels.
func (c *Client) Inspect(path string) (animation.Info, *riff.Container, error) {
	data, err := c.read(path)
	if err != nil {
		return animation.Info{}, nil, err
	}
	defer data.Release()

	dec, err := animation.Open(c.codec, data, animation.DecoderOptions{Logger: c.logger})
	if err != nil {
		return animation.Info{}, nil, err
	}
	defer dec.Close()
	return dec.Info(), dec.Container(), nil
}

func (c *Client) read(path string) (*webpdata.Data, error) {
	b, err := c.fs.ReadFile(path)
	if err != nil {
		c.logger.Error("Failed to read %s: %v", path, err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return webpdata.FromBytes(b), nil
}
