package entity

import "time"

// RunRequest is the read-only configuration for one compression run.
type RunRequest struct {
	InputPath       string
	OutputPath      string
	TargetSizeKB    float64
	MinFramePercent int
	WorkerCount     int
}

// RunSummary reports how a completed run went. A run that misses the target
// still completes: the best artifact found is written out and TargetMet is
// left false.
type RunSummary struct {
	OriginalSizeKB float64
	AchievedSizeKB float64
	TargetSizeKB   float64
	TargetMet      bool
	Copied         bool
	FrameCount     int
	Strategies     int
	Elapsed        time.Duration
}
