// ABOUTME: Playback host pacing decoded frames into a video output driver
// ABOUTME: Decode and present run concurrently; presentation repeats frames when decode stalls

package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/AgustinCB/mpv/pkg/raster"
	"github.com/AgustinCB/mpv/pkg/vo"
)

// Options configures a playback run.
type Options struct {
	// FPS is the presentation rate. Must be positive.
	FPS float64
	// MaxFrames stops playback after that many presented frames.
	// 0 plays until the source ends.
	MaxFrames int
	Log       zerolog.Logger
}

// errFrameLimit stops the group once present hits MaxFrames, so a
// blocked decode send gets cancelled instead of leaking.
var errFrameLimit = errors.New("frame limit reached")

// Player drives a vo.Driver through its lifecycle at a fixed frame rate.
type Player struct {
	src  Source
	drv  vo.Driver
	opts Options
}

// New returns a Player presenting src on drv.
func New(src Source, drv vo.Driver, opts Options) *Player {
	return &Player{src: src, drv: drv, opts: opts}
}

// Run plays the source to completion, context cancellation, or the
// frame limit. The driver is initialized and torn down inside Run.
// Cancellation is a clean stop, not an error.
func (p *Player) Run(ctx context.Context) error {
	if p.opts.FPS <= 0 {
		return fmt.Errorf("frame rate must be positive, got %g", p.opts.FPS)
	}

	params := p.src.Params()
	if !p.drv.QueryFormat(params.Format) {
		return fmt.Errorf("video output does not support pixel format %s", params.Format)
	}

	if err := p.drv.Preinit(); err != nil {
		return fmt.Errorf("initializing video output: %w", err)
	}
	defer p.drv.Uninit()

	if err := p.drv.Reconfig(params); err != nil {
		return fmt.Errorf("configuring video output: %w", err)
	}

	frames := make(chan *raster.Image, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(frames)
		return p.decode(gctx, frames)
	})
	g.Go(func() error {
		return p.present(gctx, frames)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, errFrameLimit) {
		p.opts.Log.Debug().Msg("playback stopped")
		return nil
	}
	return err
}

// decode pulls frames off the source until it ends.
func (p *Player) decode(ctx context.Context, frames chan<- *raster.Image) error {
	for {
		img, err := p.src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decoding frame: %w", err)
		}
		select {
		case frames <- img:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// present draws one frame per tick. When no new frame is ready the
// previous one is repeated, which lets the output skip work.
func (p *Player) present(ctx context.Context, frames <-chan *raster.Image) error {
	interval := time.Duration(float64(time.Second) / p.opts.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var current *raster.Image
	shown := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		repeat := true
		select {
		case img, ok := <-frames:
			if !ok {
				// Source drained; the last frame has been presented.
				return nil
			}
			current = img
			repeat = false
		default:
			if current == nil {
				// Still waiting on the first frame.
				continue
			}
		}

		p.drv.Draw(vo.Frame{
			Current: current,
			Repeat:  repeat,
			PTS:     time.Duration(shown) * interval,
		})
		p.drv.Flip()
		shown++

		if p.opts.MaxFrames > 0 && shown >= p.opts.MaxFrames {
			p.opts.Log.Debug().Int("frames", shown).Msg("stopping at frame limit")
			return errFrameLimit
		}
	}
}
