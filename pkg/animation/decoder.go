package animation

import (
	"context"
	"errors"
	"image"
	"runtime"
	"sort"
	"sync"

	"github.com/user/webpkit/pkg/adapters/logger"
	"github.com/user/webpkit/pkg/framecodec"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/webpdata"
	"github.com/user/webpkit/pkg/webperr"
)

// DecoderOptions configures frame decoding.
type DecoderOptions struct {
	// UseThreads decodes frame bitstreams ahead of compositing with a
	// worker pool. Frames are still returned in order.
	UseThreads bool
	// Workers bounds the pool size. Defaults to runtime.NumCPU().
	Workers int
	Logger  ports.Logger
}

// Info describes an opened animation.
type Info struct {
	CanvasWidth     int
	CanvasHeight    int
	FrameCount      int
	LoopCount       int
	BackgroundColor uint32
}

// Decoder iterates the frames of an animated WebP.
// It is not safe for concurrent use.
type Decoder struct {
	codec     *framecodec.Codec
	container *riff.Container
	opts      DecoderOptions
	logger    ports.Logger

	canvas      *image.NRGBA
	index       int
	endMs       int
	prevRect    image.Rectangle
	prevDispose riff.Dispose

	prefetched []decodedFrame
	closed     bool
}

type decodedFrame struct {
	index int
	img   image.Image
	err   error
}

// Open parses data as an animated WebP. The container is read eagerly;
// frame bitstreams are decoded on demand.
func Open(codec *framecodec.Codec, data *webpdata.Data, opts DecoderOptions) (*Decoder, error) {
	if data.Released() {
		return nil, webperr.New(webperr.ErrContainer, "animation.Open", "data is nil or released")
	}

	// Frame payloads alias the input, so keep a private copy.
	c, err := riff.Demux(append([]byte(nil), data.Bytes()...))
	if err != nil {
		return nil, err
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	d := &Decoder{
		codec:     codec,
		container: c,
		opts:      opts,
		logger:    log.WithComponent("animation"),
		canvas:    image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height)),
	}
	d.logger.Debug("Opened %dx%d animation with %d frames", c.Width, c.Height, len(c.Frames))
	return d, nil
}

// Info returns the canvas and container parameters.
func (d *Decoder) Info() Info {
	return Info{
		CanvasWidth:     d.container.Width,
		CanvasHeight:    d.container.Height,
		FrameCount:      len(d.container.Frames),
		LoopCount:       d.container.LoopCount,
		BackgroundColor: d.container.BackgroundColor,
	}
}

// Container returns the parsed container.
func (d *Decoder) Container() *riff.Container {
	return d.container
}

// HasNext reports whether another frame is available.
func (d *Decoder) HasNext() bool {
	return !d.closed && d.index < len(d.container.Frames)
}

// Next composites the next frame and returns a copy of the canvas in RGBA
// layout together with the frame's end timestamp in milliseconds.
func (d *Decoder) Next() (*picture.Buffer, int, error) {
	const op = "animation.Next"

	if d.closed {
		return nil, 0, webperr.New(webperr.ErrState, op, "decoder closed")
	}
	if d.index >= len(d.container.Frames) {
		return nil, 0, webperr.New(webperr.ErrState, op, "no more frames")
	}
	if d.opts.UseThreads && d.prefetched == nil {
		if err := d.Prefetch(context.Background()); err != nil {
			return nil, 0, err
		}
	}

	f := d.container.Frames[d.index]
	img, err := d.frameImage(d.index)
	if err != nil {
		return nil, 0, err
	}

	if d.prevDispose == riff.DisposeBackground {
		clearRect(d.canvas, d.prevRect)
	}
	rect := image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height)
	composite(d.canvas, rect, img, f.Blend)

	d.prevRect = rect
	d.prevDispose = f.Dispose
	d.endMs += f.DurationMs
	d.index++

	pic, err := picture.FromImage(d.canvas, picture.RGBA)
	if err != nil {
		return nil, 0, err
	}
	return pic, d.endMs, nil
}

// Reset rewinds to the first frame and clears the canvas. It does nothing
// on a closed decoder.
func (d *Decoder) Reset() {
	if d.closed {
		return
	}
	d.index = 0
	d.endMs = 0
	d.prevRect = image.Rectangle{}
	d.prevDispose = riff.DisposeNone
	clear(d.canvas.Pix)
}

// Close releases the canvas and decoded frames. Repeated calls are no-ops.
func (d *Decoder) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.canvas = nil
	d.prefetched = nil
}

// Prefetch decodes every frame bitstream with a bounded worker pool.
// Per-frame failures are reported by Next at that frame.
func (d *Decoder) Prefetch(ctx context.Context) error {
	if d.closed {
		return webperr.New(webperr.ErrState, "animation.Prefetch", "decoder closed")
	}

	numFrames := len(d.container.Frames)
	numWorkers := min(d.opts.Workers, numFrames)
	d.logger.Debug("Decoding %d frames with %d workers", numFrames, numWorkers)

	jobs := make(chan int, numFrames)
	results := make(chan decodedFrame, numFrames)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				img, err := d.decodeFrame(idx)
				results <- decodedFrame{index: idx, img: img, err: err}
			}
		}()
	}

	for i := 0; i < numFrames; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	frames := make([]decodedFrame, 0, numFrames)
	for r := range results {
		frames = append(frames, r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].index < frames[j].index
	})
	d.prefetched = frames
	return nil
}

func (d *Decoder) frameImage(idx int) (image.Image, error) {
	if d.prefetched != nil {
		f := d.prefetched[idx]
		return f.img, f.err
	}
	return d.decodeFrame(idx)
}

func (d *Decoder) decodeFrame(idx int) (image.Image, error) {
	f := d.container.Frames[idx]
	data := webpdata.FromBytes(riff.WrapStill(f.Still))
	defer data.Release()

	pic, err := d.codec.Decode(data, picture.RGBA)
	if err != nil {
		if errors.Is(err, webperr.ErrDecoding) {
			return nil, err
		}
		return nil, webperr.Wrap(webperr.ErrDecoding, "animation.Next", err)
	}
	defer pic.Release()

	if pic.Width() != f.Width || pic.Height() != f.Height {
		return nil, webperr.Decoding("animation.Next", webperr.StatusBitstreamError, errors.New("frame size differs from ANMF header"))
	}
	return pic.Image(), nil
}

func clearRect(dst *image.NRGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		clear(dst.Pix[dst.PixOffset(r.Min.X, y):dst.PixOffset(r.Max.X, y)])
	}
}

// composite draws src into r. BlendNone overwrites; BlendAlpha applies
// non-premultiplied source-over.
func composite(dst *image.NRGBA, r image.Rectangle, src image.Image, blend riff.Blend) {
	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(src.Bounds())
		for y := src.Bounds().Min.Y; y < src.Bounds().Max.Y; y++ {
			for x := src.Bounds().Min.X; x < src.Bounds().Max.X; x++ {
				nrgba.Set(x, y, src.At(x, y))
			}
		}
	}
	sb := nrgba.Bounds()

	for y := 0; y < r.Dy(); y++ {
		s := nrgba.Pix[nrgba.PixOffset(sb.Min.X, sb.Min.Y+y):]
		o := dst.PixOffset(r.Min.X, r.Min.Y+y)
		row := dst.Pix[o : o+r.Dx()*4]
		if blend == riff.BlendNone {
			copy(row, s[:r.Dx()*4])
			continue
		}
		for x := 0; x < len(row); x += 4 {
			blendPixel(row[x:x+4], s[x:x+4])
		}
	}
}

// blendPixel composites src over dst, both non-premultiplied.
func blendPixel(dst, src []byte) {
	sa := uint32(src[3])
	switch sa {
	case 0:
		return
	case 0xff:
		copy(dst, src)
		return
	}
	da := uint32(dst[3]) * (256 - sa) >> 8
	ba := sa + da
	scale := (uint32(1) << 24) / ba
	for c := 0; c < 3; c++ {
		v := (uint32(src[c])*sa + uint32(dst[c])*da) * scale >> 24
		dst[c] = uint8(v)
	}
	dst[3] = uint8(ba)
}
