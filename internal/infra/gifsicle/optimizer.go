package gifsicle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/gifpress/gifpress/internal/domain/entity"
	"github.com/gifpress/gifpress/internal/domain/port"
	"go.uber.org/zap"
)

// Optimizer shells out to gifsicle. Data never crosses the pipe: the input
// and output are files, and only the exit status decides success.
type Optimizer struct {
	bin    string
	logger *zap.Logger
}

func NewOptimizer(bin string, logger *zap.Logger) *Optimizer {
	return &Optimizer{bin: bin, logger: logger}
}

// Available runs a version probe so a missing binary surfaces before any
// work is dispatched.
func (o *Optimizer) Available(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, o.bin, "--version")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		return &entity.ToolError{Tool: o.bin, Err: err}
	}
	return nil
}

func (o *Optimizer) Optimize(ctx context.Context, src string, dst string, opts port.OptimizeOptions) (*entity.Artifact, error) {
	args := []string{
		"-O3",
		"--no-warnings",
		"--no-conserve-memory",
		"--no-comments",
		"--no-names",
	}
	if opts.Careful {
		args = append(args, "--careful")
	}
	if opts.LossyLevel > 0 {
		args = append(args, fmt.Sprintf("--lossy=%d", opts.LossyLevel))
	}
	args = append(args, src, "-o", dst)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.bin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// gifsicle may have created a partial output before dying.
		_ = os.Remove(dst)
		return nil, &entity.ToolError{Tool: o.bin, Err: err, Stderr: stderr.String()}
	}

	art, err := entity.NewArtifact(dst)
	if err != nil {
		return nil, &entity.ToolError{Tool: o.bin, Err: fmt.Errorf("no output produced: %w", err)}
	}

	o.logger.Debug("gifsicle finished",
		zap.String("dst", dst),
		zap.Int("lossy", opts.LossyLevel),
		zap.Float64("size_kb", art.SizeKB),
	)

	return art, nil
}
