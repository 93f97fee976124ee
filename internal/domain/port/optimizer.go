package port

import (
	"context"

	"github.com/gifpress/gifpress/internal/domain/entity"
)

// OptimizeOptions tunes one optimizer invocation. LossyLevel is the
// tool-defined quality-loss scale (higher = more loss, smaller file);
// zero means lossless-relative optimization only. Careful asks for the
// slower, safer pass used on the baseline.
type OptimizeOptions struct {
	LossyLevel int
	Careful    bool
}

// Optimizer is the external raster optimizer capability. Implementations
// always request maximum optimization effort; only the exit status and the
// produced file are consulted, never the tool's output streams.
type Optimizer interface {
	Optimize(ctx context.Context, src string, dst string, opts OptimizeOptions) (*entity.Artifact, error)
	Available(ctx context.Context) error
}
