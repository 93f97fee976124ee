package gifcodec

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/gifpress/gifpress/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func grayPalette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}

// writeGIF builds an animation whose i-th frame is filled with palette
// index i, so tests can tell exactly which source frames survived.
func writeGIF(t *testing.T, frames, delayCS, loopCount int) string {
	t.Helper()

	palette := grayPalette()
	g := &gif.GIF{
		LoopCount: loopCount,
		Config: image.Config{
			ColorModel: palette,
			Width:      16,
			Height:     16,
		},
	}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 16, 16), palette)
		for p := range img.Pix {
			img.Pix[p] = uint8(i)
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, delayCS)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}

	path := filepath.Join(t.TempDir(), "in.gif")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, g))
	require.NoError(t, f.Close())
	return path
}

func decodeGIF(t *testing.T, path string) *gif.GIF {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	return g
}

func TestProbeReadsMetadata(t *testing.T) {
	path := writeGIF(t, 8, 5, 3)

	info, err := NewCodec(zap.NewNop()).Probe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 8, info.FrameCount)
	assert.Equal(t, 50, info.FirstDelayMS)
	assert.Equal(t, 3, info.LoopCount)
}

func TestProbeDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a.gif")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	_, err := NewCodec(zap.NewNop()).Probe(context.Background(), path)
	var decodeErr *entity.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestExtractStrideOneKeepsEveryFrame(t *testing.T) {
	src := writeGIF(t, 10, 4, 2)
	dst := filepath.Join(t.TempDir(), "out.gif")

	art, err := NewCodec(zap.NewNop()).Extract(context.Background(), src, dst, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, dst, art.Path)
	assert.Positive(t, art.SizeKB)

	out := decodeGIF(t, dst)
	assert.Len(t, out.Image, 10)
	assert.Equal(t, 2, out.LoopCount)
	for _, d := range out.Delay {
		// Derived delay: original 4cs x stride 1.
		assert.Equal(t, 4, d)
	}
}

func TestExtractKeepsEveryNthFrame(t *testing.T) {
	src := writeGIF(t, 10, 4, 0)
	dst := filepath.Join(t.TempDir(), "out.gif")

	_, err := NewCodec(zap.NewNop()).Extract(context.Background(), src, dst, 2, 40)
	require.NoError(t, err)

	out := decodeGIF(t, dst)
	require.Len(t, out.Image, 5)
	assert.Equal(t, 0, out.LoopCount)
	for j, frame := range out.Image {
		assert.Equal(t, uint8(2*j), frame.Pix[0], "frame %d should come from source index %d", j, 2*j)
	}
	for _, d := range out.Delay {
		// Caller-supplied 40ms stored as 4 centiseconds.
		assert.Equal(t, 4, d)
	}
}

func TestExtractDerivedDelaySlowsByStride(t *testing.T) {
	src := writeGIF(t, 9, 5, 0)
	dst := filepath.Join(t.TempDir(), "out.gif")

	_, err := NewCodec(zap.NewNop()).Extract(context.Background(), src, dst, 3, 0)
	require.NoError(t, err)

	out := decodeGIF(t, dst)
	require.Len(t, out.Image, 3)
	for _, d := range out.Delay {
		assert.Equal(t, 15, d)
	}
}

func TestExtractDelayFloorsToOneCentisecond(t *testing.T) {
	src := writeGIF(t, 4, 2, 0)
	dst := filepath.Join(t.TempDir(), "out.gif")

	_, err := NewCodec(zap.NewNop()).Extract(context.Background(), src, dst, 2, 5)
	require.NoError(t, err)

	for _, d := range decodeGIF(t, dst).Delay {
		assert.Equal(t, 1, d)
	}
}

func TestExtractStrideWiderThanAnimation(t *testing.T) {
	src := writeGIF(t, 4, 2, 0)
	dst := filepath.Join(t.TempDir(), "out.gif")

	_, err := NewCodec(zap.NewNop()).Extract(context.Background(), src, dst, 100, 0)
	require.NoError(t, err)

	out := decodeGIF(t, dst)
	require.Len(t, out.Image, 1)
	assert.Equal(t, uint8(0), out.Image[0].Pix[0])
}

func TestExtractDecodeError(t *testing.T) {
	src := filepath.Join(t.TempDir(), "not-a.gif")
	require.NoError(t, os.WriteFile(src, []byte("nope"), 0644))
	dst := filepath.Join(t.TempDir(), "out.gif")

	_, err := NewCodec(zap.NewNop()).Extract(context.Background(), src, dst, 2, 0)
	var decodeErr *entity.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.NoFileExists(t, dst)
}

func TestExtractEncodeErrorOnBadDestination(t *testing.T) {
	src := writeGIF(t, 4, 2, 0)
	dst := filepath.Join(t.TempDir(), "no-such-dir", "out.gif")

	_, err := NewCodec(zap.NewNop()).Extract(context.Background(), src, dst, 2, 0)
	var encodeErr *entity.EncodeError
	require.ErrorAs(t, err, &encodeErr)
}

func TestExtractCancelledBeforeWrite(t *testing.T) {
	src := writeGIF(t, 4, 2, 0)
	dst := filepath.Join(t.TempDir(), "out.gif")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCodec(zap.NewNop()).Extract(ctx, src, dst, 2, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, dst)
}
