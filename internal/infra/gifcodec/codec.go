package gifcodec

import (
	"context"
	"image"
	"image/gif"
	"os"

	"github.com/gifpress/gifpress/internal/domain/entity"
	"github.com/gifpress/gifpress/internal/domain/port"
	"go.uber.org/zap"
)

// defaultDelayCS stands in for a zero frame delay, which GIF leaves
// unspecified; players conventionally render it near 100ms.
const defaultDelayCS = 10

// Codec reads and writes animated GIFs with the standard library decoder.
type Codec struct {
	logger *zap.Logger
}

func NewCodec(logger *zap.Logger) *Codec {
	return &Codec{logger: logger}
}

func (c *Codec) Probe(ctx context.Context, path string) (*port.AnimationInfo, error) {
	g, err := decode(path)
	if err != nil {
		return nil, err
	}

	return &port.AnimationInfo{
		FrameCount:   len(g.Image),
		FirstDelayMS: firstDelayCS(g) * 10,
		LoopCount:    g.LoopCount,
	}, nil
}

func (c *Codec) Extract(ctx context.Context, src string, dst string, stride int, delayMS int) (*entity.Artifact, error) {
	g, err := decode(src)
	if err != nil {
		return nil, err
	}

	if stride < 1 {
		stride = 1
	}

	delayCS := delayMS / 10
	if delayMS > 0 && delayCS < 1 {
		delayCS = 1
	}
	if delayMS == 0 {
		// Derive the delay so the subsampled animation keeps roughly the
		// original real-time speed.
		delayCS = firstDelayCS(g) * stride
	}

	out := &gif.GIF{
		LoopCount:       g.LoopCount,
		Config:          g.Config,
		BackgroundIndex: g.BackgroundIndex,
	}
	for i := 0; i < len(g.Image); i += stride {
		out.Image = append(out.Image, g.Image[i])
		out.Delay = append(out.Delay, delayCS)
		if g.Disposal != nil {
			out.Disposal = append(out.Disposal, g.Disposal[i])
		}
	}
	if len(out.Image) == 0 && len(g.Image) > 0 {
		// Keep at least the first frame.
		out.Image = []*image.Paletted{g.Image[0]}
		out.Delay = []int{delayCS}
		if g.Disposal != nil {
			out.Disposal = []byte{g.Disposal[0]}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Create(dst)
	if err != nil {
		return nil, &entity.EncodeError{Path: dst, Err: err}
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return nil, &entity.EncodeError{Path: dst, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return nil, &entity.EncodeError{Path: dst, Err: err}
	}

	art, err := entity.NewArtifact(dst)
	if err != nil {
		return nil, &entity.EncodeError{Path: dst, Err: err}
	}

	c.logger.Debug("frames extracted",
		zap.String("dst", dst),
		zap.Int("stride", stride),
		zap.Int("kept", len(out.Image)),
		zap.Int("of", len(g.Image)),
	)

	return art, nil
}

func decode(path string) (*gif.GIF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &entity.DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, &entity.DecodeError{Path: path, Err: err}
	}
	return g, nil
}

func firstDelayCS(g *gif.GIF) int {
	if len(g.Delay) > 0 && g.Delay[0] > 0 {
		return g.Delay[0]
	}
	return defaultDelayCS
}
