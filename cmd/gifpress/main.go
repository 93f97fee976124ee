package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gifpress/gifpress/internal/domain/entity"
	"github.com/gifpress/gifpress/internal/infra/config"
	"github.com/gifpress/gifpress/internal/infra/gifcodec"
	"github.com/gifpress/gifpress/internal/infra/gifsicle"
	"github.com/gifpress/gifpress/internal/infra/metrics"
	"github.com/gifpress/gifpress/internal/infra/tracing"
	"github.com/gifpress/gifpress/internal/usecase"
	"github.com/gifpress/gifpress/pkg/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	// Tracing (opt-in, non-fatal if the collector is unavailable)
	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tp.Shutdown(ctx)
		}
	}

	// Metrics server (opt-in)
	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsAddr, log)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	codec := gifcodec.NewCodec(log)
	optimizer := gifsicle.NewOptimizer(cfg.GifsicleBin, log)

	uc := usecase.NewCompressUseCase(codec, optimizer, log, usecase.CompressConfig{
		TempDir:     cfg.TempDir,
		LossyLevels: cfg.LossyLevels,
	})

	cmd := &cli.Command{
		Name:      "gifpress",
		Usage:     "Compress an animated GIF under a size budget, keeping colors and dimensions",
		ArgsUsage: "<input.gif> <output.gif>",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "target",
				Usage: "target file size in KB",
				Value: cfg.TargetSizeKB,
			},
			&cli.IntFlag{
				Name:  "min-frames",
				Usage: "minimum percentage of original frames to retain",
				Value: cfg.MinFramePercent,
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "parallel strategy workers, 0 means one per CPU",
				Value: cfg.WorkerCount,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if len(args) != 2 {
				cli.ShowAppHelpAndExit(c, 2)
			}

			summary, err := uc.Execute(ctx, entity.RunRequest{
				InputPath:       args[0],
				OutputPath:      args[1],
				TargetSizeKB:    c.Float("target"),
				MinFramePercent: c.Int("min-frames"),
				WorkerCount:     c.Int("threads"),
			})
			if err != nil {
				return err
			}

			if !summary.TargetMet {
				log.Warn("output still exceeds the target; allowing fewer colors or smaller dimensions would compress further",
					zap.Float64("achieved_kb", summary.AchievedSizeKB),
					zap.Float64("target_kb", summary.TargetSizeKB),
				)
			}

			// One machine-readable line on stdout; everything else goes to
			// stderr through the logger.
			fmt.Printf("%s\t%.2f KB\n", args[1], summary.AchievedSizeKB)
			return nil
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Error("compression failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
