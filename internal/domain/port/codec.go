package port

import (
	"context"

	"github.com/gifpress/gifpress/internal/domain/entity"
)

// AnimationInfo is the metadata the planner needs from a source animation.
type AnimationInfo struct {
	FrameCount   int
	FirstDelayMS int
	LoopCount    int
}

// FrameCodec decodes a frame sequence with its per-frame timing metadata and
// re-encodes subsets of it.
type FrameCodec interface {
	Probe(ctx context.Context, path string) (*AnimationInfo, error)

	// Extract writes a new animation to dst keeping every stride-th frame of
	// src. A positive delayMS is applied to every retained frame; delayMS 0
	// derives the delay from the source so the subsampled animation keeps
	// approximately its original speed. Loop count is copied unchanged.
	Extract(ctx context.Context, src string, dst string, stride int, delayMS int) (*entity.Artifact, error)
}
