package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gifpress/gifpress/internal/domain/entity"
	"github.com/gifpress/gifpress/internal/domain/port"
	"github.com/gifpress/gifpress/internal/infra/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// strategyWorker runs the per-strategy pipeline: subsample frames, optimize
// losslessly, then sweep lossy levels until the target is met. It checks for
// cancellation between external invocations.
type strategyWorker struct {
	codec       port.FrameCodec
	optimizer   port.Optimizer
	input       string
	workDir     string
	targetKB    float64
	frameCount  int
	lossyLevels []int
	logger      *zap.Logger
}

func (w *strategyWorker) run(ctx context.Context, s entity.Strategy) entity.StrategyResult {
	if ctx.Err() != nil {
		return entity.FailedResult(s)
	}

	ctx, span := otel.Tracer("usecase").Start(ctx, "strategy")
	defer span.End()
	span.SetAttributes(
		attribute.Int("strategy.skip", s.Skip),
		attribute.Int("strategy.delay_ms", s.DelayMS),
	)

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	totalTimer := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("strategy").Observe(time.Since(totalTimer).Seconds())
	}()

	log := w.logger.With(zap.Int("skip", s.Skip), zap.Int("delay_ms", s.DelayMS))
	log.Info("strategy started", zap.Int("frames_kept", s.RetainedFrames(w.frameCount)))

	exStart := time.Now()
	extracted, err := w.codec.Extract(ctx, w.input, w.tempPath("frames"), s.Skip, s.DelayMS)
	metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(exStart).Seconds())
	if err != nil {
		log.Warn("frame extraction failed", zap.Error(err))
		metrics.StrategiesTotal.WithLabelValues("failed").Inc()
		return entity.FailedResult(s)
	}
	if extracted.SizeKB < 1 {
		// An extract this small is a corrupt write, not a good candidate.
		log.Warn("extracted artifact too small, skipping strategy", zap.Float64("size_kb", extracted.SizeKB))
		discard(extracted)
		metrics.StrategiesTotal.WithLabelValues("failed").Inc()
		return entity.FailedResult(s)
	}

	if ctx.Err() != nil {
		discard(extracted)
		metrics.StrategiesTotal.WithLabelValues("cancelled").Inc()
		return entity.FailedResult(s)
	}

	optStart := time.Now()
	best, err := w.optimizer.Optimize(ctx, extracted.Path, w.tempPath("opt"), port.OptimizeOptions{})
	metrics.OptimizerInvocations.WithLabelValues("lossless").Inc()
	metrics.StageDuration.WithLabelValues("optimize").Observe(time.Since(optStart).Seconds())
	discard(extracted)
	if err != nil {
		log.Warn("optimize failed", zap.Error(err))
		metrics.StrategiesTotal.WithLabelValues("failed").Inc()
		return entity.FailedResult(s)
	}

	log.Info("frames optimized", zap.Float64("size_kb", best.SizeKB))

	if best.SizeKB > w.targetKB {
		best = w.sweepLossy(ctx, best, log)
	}

	metrics.StrategiesTotal.WithLabelValues("completed").Inc()
	span.SetAttributes(attribute.Float64("strategy.size_kb", best.SizeKB))
	return entity.StrategyResult{Strategy: s, Success: true, SizeKB: best.SizeKB, Artifact: best}
}

// sweepLossy re-optimizes the current best artifact at each configured lossy
// level, ascending. The first level that meets the target wins even when a
// later level could go smaller: same outcome, less visual damage.
func (w *strategyWorker) sweepLossy(ctx context.Context, best *entity.Artifact, log *zap.Logger) *entity.Artifact {
	sweepStart := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("lossy_sweep").Observe(time.Since(sweepStart).Seconds())
	}()

	for _, level := range w.lossyLevels {
		if ctx.Err() != nil {
			log.Info("search cancelled, keeping best so far", zap.Float64("size_kb", best.SizeKB))
			break
		}

		candidate, err := w.optimizer.Optimize(ctx, best.Path, w.tempPath(fmt.Sprintf("lossy%d", level)), port.OptimizeOptions{LossyLevel: level})
		metrics.OptimizerInvocations.WithLabelValues("lossy").Inc()
		if err != nil {
			log.Warn("lossy optimize failed", zap.Int("lossy", level), zap.Error(err))
			continue
		}

		log.Info("lossy candidate", zap.Int("lossy", level), zap.Float64("size_kb", candidate.SizeKB))

		if candidate.SizeKB <= w.targetKB {
			if candidate.SizeKB < best.SizeKB {
				discard(best)
				best = candidate
			} else {
				discard(candidate)
			}
			log.Info("target reached", zap.Int("lossy", level), zap.Float64("size_kb", best.SizeKB))
			break
		}
		if candidate.SizeKB < best.SizeKB {
			discard(best)
			best = candidate
			continue
		}
		discard(candidate)
	}

	return best
}

func (w *strategyWorker) tempPath(stage string) string {
	return filepath.Join(w.workDir, fmt.Sprintf("%s-%s.gif", stage, uuid.NewString()))
}
