package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/gifpress/gifpress/internal/domain/entity"
	"github.com/gifpress/gifpress/internal/domain/port"
	"github.com/gifpress/gifpress/internal/infra/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultLossyLevels is the ascending quality-loss sweep tried per strategy.
var DefaultLossyLevels = []int{30, 60, 90, 120, 150, 180, 210, 240}

// CompressUseCase searches for the frame-skip and lossy-level combination
// that brings an animated GIF under a byte budget while keeping its colors
// and pixel dimensions.
type CompressUseCase struct {
	codec       port.FrameCodec
	optimizer   port.Optimizer
	logger      *zap.Logger
	tempDir     string
	lossyLevels []int
}

type CompressConfig struct {
	TempDir     string
	LossyLevels []int
}

func NewCompressUseCase(codec port.FrameCodec, optimizer port.Optimizer, logger *zap.Logger, cfg CompressConfig) *CompressUseCase {
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	levels := cfg.LossyLevels
	if len(levels) == 0 {
		levels = DefaultLossyLevels
	}
	return &CompressUseCase{
		codec:       codec,
		optimizer:   optimizer,
		logger:      logger,
		tempDir:     tempDir,
		lossyLevels: levels,
	}
}

func (uc *CompressUseCase) Execute(ctx context.Context, req entity.RunRequest) (*entity.RunSummary, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "CompressUseCase.Execute")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	}()

	input, err := entity.NewArtifact(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInputNotFound, req.InputPath)
	}

	span.SetAttributes(
		attribute.String("run.input", req.InputPath),
		attribute.Float64("run.target_kb", req.TargetSizeKB),
	)

	log := uc.logger.With(zap.String("input", req.InputPath), zap.Float64("target_kb", req.TargetSizeKB))
	log.Info("run started", zap.Float64("original_kb", input.SizeKB))

	if dir := filepath.Dir(req.OutputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	summary := &entity.RunSummary{
		OriginalSizeKB: input.SizeKB,
		TargetSizeKB:   req.TargetSizeKB,
	}

	// Already under budget: hand back a byte-identical copy without ever
	// touching the optimizer.
	if input.SizeKB <= req.TargetSizeKB {
		if err := input.CopyTo(req.OutputPath); err != nil {
			return nil, fmt.Errorf("copy input: %w", err)
		}
		log.Info("input already under target, copied verbatim")
		summary.AchievedSizeKB = input.SizeKB
		summary.TargetMet = true
		summary.Copied = true
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	if err := uc.optimizer.Available(ctx); err != nil {
		return nil, fmt.Errorf("optimizer unavailable: %w", err)
	}

	probeCtx, probeSpan := tracer.Start(ctx, "probe_input")
	info, err := uc.codec.Probe(probeCtx, req.InputPath)
	probeSpan.End()
	if err != nil {
		return nil, fmt.Errorf("probe input: %w", err)
	}
	summary.FrameCount = info.FrameCount
	log.Info("input probed", zap.Int("frames", info.FrameCount), zap.Int("loop", info.LoopCount))

	workDir := filepath.Join(uc.tempDir, "gifpress-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	baseline, err := uc.baselineOptimize(ctx, req.InputPath, workDir)
	if err != nil {
		return nil, fmt.Errorf("baseline optimize: %w", err)
	}
	log.Info("baseline optimized", zap.Float64("size_kb", baseline.SizeKB))
	metrics.BestSizeKB.Set(baseline.SizeKB)

	if baseline.SizeKB <= req.TargetSizeKB {
		if err := baseline.MoveTo(req.OutputPath); err != nil {
			return nil, fmt.Errorf("finalize: %w", err)
		}
		log.Info("baseline met target", zap.Float64("size_kb", baseline.SizeKB))
		summary.AchievedSizeKB = baseline.SizeKB
		summary.TargetMet = true
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	plan := entity.BuildPlan(info.FrameCount, req.MinFramePercent)
	summary.Strategies = len(plan)

	best, drained := uc.runSearch(ctx, req, plan, baseline, workDir, info.FrameCount, log)
	defer func() { <-drained }()

	// An outside cancellation (signal) aborts the run; nothing is written.
	if err := ctx.Err(); err != nil {
		discard(best)
		return nil, err
	}

	achieved := best.SizeKB
	if err := best.MoveTo(req.OutputPath); err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}

	summary.AchievedSizeKB = achieved
	summary.TargetMet = achieved <= req.TargetSizeKB
	summary.Elapsed = time.Since(start)

	if summary.TargetMet {
		log.Info("run complete",
			zap.Float64("size_kb", achieved),
			zap.Duration("elapsed", summary.Elapsed),
		)
	} else {
		log.Warn("target not reached, keeping best effort",
			zap.Float64("size_kb", achieved),
			zap.Float64("target_kb", req.TargetSizeKB),
		)
	}

	return summary, nil
}

// runSearch fans the plan out to a fixed pool of workers and reduces results
// in completion order. The first result at or under target cancels the rest:
// fastest adequate beats best possible, so which qualifying strategy wins
// varies from run to run. Workers abandoned mid-flight are reaped through
// the returned channel; the caller must wait on it before sweeping workDir.
func (uc *CompressUseCase) runSearch(
	ctx context.Context,
	req entity.RunRequest,
	plan []entity.Strategy,
	baseline *entity.Artifact,
	workDir string,
	frameCount int,
	log *zap.Logger,
) (*entity.Artifact, <-chan struct{}) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "strategy_search")
	defer span.End()
	span.SetAttributes(attribute.Int("search.strategies", len(plan)))

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := req.WorkerCount
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(plan) {
		workers = len(plan)
	}

	log.Info("strategy search started", zap.Int("strategies", len(plan)), zap.Int("workers", workers))

	// Both channels hold the whole plan so abandoned workers never block.
	jobs := make(chan entity.Strategy, len(plan))
	results := make(chan entity.StrategyResult, len(plan))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w := &strategyWorker{
				codec:       uc.codec,
				optimizer:   uc.optimizer,
				input:       req.InputPath,
				workDir:     workDir,
				targetKB:    req.TargetSizeKB,
				frameCount:  frameCount,
				lossyLevels: uc.lossyLevels,
				logger:      uc.logger.With(zap.Int("worker_id", id)),
			}
			for {
				select {
				case <-searchCtx.Done():
					return
				case s, ok := <-jobs:
					if !ok {
						return
					}
					results <- w.run(searchCtx, s)
				}
			}
		}(i)
	}

	for _, s := range plan {
		jobs <- s
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	best := baseline
	found := false
	for res := range results {
		if !res.Success {
			discard(res.Artifact)
			continue
		}
		if res.SizeKB <= req.TargetSizeKB {
			if res.SizeKB < best.SizeKB {
				discard(best)
				best = res.Artifact
			} else {
				discard(res.Artifact)
			}
			metrics.BestSizeKB.Set(best.SizeKB)
			log.Info("qualifying result, stopping search",
				zap.Int("skip", res.Strategy.Skip),
				zap.Float64("size_kb", best.SizeKB),
			)
			found = true
			cancel()
			break
		}
		if res.SizeKB < best.SizeKB {
			discard(best)
			best = res.Artifact
			metrics.BestSizeKB.Set(best.SizeKB)
			continue
		}
		discard(res.Artifact)
	}

	if found {
		// Strategies that finished before the cancellation landed still
		// count; keep the smallest. Only in-flight work is abandoned.
	buffered:
		for {
			select {
			case res, ok := <-results:
				if !ok {
					break buffered
				}
				if res.Success && res.SizeKB < best.SizeKB {
					discard(best)
					best = res.Artifact
					metrics.BestSizeKB.Set(best.SizeKB)
				} else {
					discard(res.Artifact)
				}
			default:
				break buffered
			}
		}
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for res := range results {
			discard(res.Artifact)
		}
	}()

	return best, drained
}

// baselineOptimize is the most faithful attempt: maximum effort, careful
// mode, no frame dropping, no lossy.
func (uc *CompressUseCase) baselineOptimize(ctx context.Context, input, workDir string) (*entity.Artifact, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "baseline_optimize")
	defer span.End()

	blStart := time.Now()
	dst := filepath.Join(workDir, "baseline-"+uuid.NewString()+".gif")
	art, err := uc.optimizer.Optimize(ctx, input, dst, port.OptimizeOptions{Careful: true})
	metrics.OptimizerInvocations.WithLabelValues("baseline").Inc()
	metrics.StageDuration.WithLabelValues("baseline").Observe(time.Since(blStart).Seconds())
	return art, err
}

// discard releases a superseded artifact. Every candidate that loses a
// comparison goes through here, on every exit path.
func discard(a *entity.Artifact) {
	if a == nil || a.Path == "" {
		return
	}
	a.Discard()
	metrics.ArtifactsReclaimed.Inc()
}
