package pipeline

// Milestone is one progress event emitted during a run. Percent values are
// monotonically non-decreasing, evenly spaced across stages, and end at 100.
type Milestone struct {
	Stage   string `json:"stage"`
	Percent int    `json:"percent"`
}

// ProgressFunc receives milestones as the run advances. Implementations must
// be fast; the pipeline calls them inline between stages.
type ProgressFunc func(Milestone)

// progressTracker hands out evenly spaced percentages for a known stage count.
type progressTracker struct {
	emit      ProgressFunc
	total     int
	completed int
}

func newProgressTracker(emit ProgressFunc, total int) *progressTracker {
	return &progressTracker{emit: emit, total: total}
}

// advance records one finished stage and emits its milestone. The final
// stage always lands on 100 regardless of rounding in earlier stages.
func (p *progressTracker) advance(stage string) {
	p.completed++

	if p.emit == nil {
		return
	}

	percent := p.completed * 100 / p.total

	p.emit(Milestone{Stage: stage, Percent: percent})
}
