package entity

// Strategy is one frame-subsampling candidate: keep every Skip-th frame and
// give the survivors DelayMS milliseconds each. Strategies are generated once
// per run and never mutated.
type Strategy struct {
	Skip    int
	DelayMS int
}

// RetainedFrames is the number of frames left after applying the strategy to
// a sequence of frameCount frames.
func (s Strategy) RetainedFrames(frameCount int) int {
	if frameCount <= 0 || s.Skip <= 0 {
		return 0
	}
	return (frameCount + s.Skip - 1) / s.Skip
}

// BuildPlan derives the ordered set of strategies to try for an animation of
// frameCount frames. The retained-frame floor max(3, frameCount·minFramePercent%)
// bounds how wide the base strides go; skip 2 is always tried, even when the
// sequence is so short that it lands under the floor. Denser strides come
// first; two aggressive strides are appended for long sequences, where frame
// redundancy tends to be high. The plan is finite: at most 11 strategies.
func BuildPlan(frameCount, minFramePercent int) []Strategy {
	if frameCount <= 0 {
		return nil
	}

	minFrames := frameCount * minFramePercent / 100
	if minFrames < 3 {
		minFrames = 3
	}

	maxSkip := (frameCount + minFrames - 1) / minFrames
	if maxSkip < 2 {
		maxSkip = 2
	}
	if maxSkip > 10 {
		maxSkip = 10
	}

	var plan []Strategy
	for skip := 2; skip <= maxSkip; skip++ {
		plan = append(plan, Strategy{Skip: skip, DelayMS: delayFor(skip, frameCount)})
	}

	if frameCount > 30 {
		for _, skip := range []int{maxSkip + 5, maxSkip + 10} {
			if frameCount/skip >= minFrames {
				plan = append(plan, Strategy{Skip: skip, DelayMS: delayFor(skip, frameCount)})
			}
		}
	}

	return plan
}

// delayFor slows the subsampled animation down in proportion to the frames
// removed, so it keeps roughly the original real-time speed.
func delayFor(skip, frameCount int) int {
	return 100*skip/frameCount + 10
}
