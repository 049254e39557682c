package systems

import "github.com/atimics/signal-sub000/ecs"

const (
	// PerformanceResource names the frame timing resource.
	PerformanceResource = "performance.frames"

	frameSamples = 120
	// perfLogInterval is the simulated time between performance log lines.
	perfLogInterval = 5.0
)

// FrameStats is a ring buffer of average frame times, one sample per
// Performance run.
type FrameStats struct {
	samples [frameSamples]float64
	count   int
	next    int

	lastTime  float64
	lastFrame uint64
	lastLog   float64
}

// Record adds the mean frame time since the previous call.
func (f *FrameStats) Record(frame uint64, now float64) {
	if frame > f.lastFrame && now > f.lastTime {
		f.samples[f.next] = (now - f.lastTime) / float64(frame-f.lastFrame)
		f.next = (f.next + 1) % frameSamples
		f.count = min(f.count+1, frameSamples)
	}
	f.lastTime = now
	f.lastFrame = frame
}

// Len returns the number of buffered samples.
func (f *FrameStats) Len() int {
	return f.count
}

// Average returns the mean frame time in seconds.
func (f *FrameStats) Average() float64 {
	if f.count == 0 {
		return 0
	}
	var sum float64
	for _, s := range f.samples[:f.count] {
		sum += s
	}
	return sum / float64(f.count)
}

// Min returns the shortest buffered frame time.
func (f *FrameStats) Min() float64 {
	if f.count == 0 {
		return 0
	}
	m := f.samples[0]
	for _, s := range f.samples[1:f.count] {
		m = min(m, s)
	}
	return m
}

// Max returns the longest buffered frame time.
func (f *FrameStats) Max() float64 {
	var m float64
	for _, s := range f.samples[:f.count] {
		m = max(m, s)
	}
	return m
}

// FPS returns the frame rate implied by Average.
func (f *FrameStats) FPS() float64 {
	if avg := f.Average(); avg > 0 {
		return 1 / avg
	}
	return 0
}

// Performance samples frame timing into the FrameStats resource and logs a
// summary every few simulated seconds.
func Performance(w *ecs.World, ctx *ecs.Context, dt float32) {
	stats := ecs.ResourceOrInit[FrameStats](ctx.Resources, PerformanceResource)
	stats.Record(ctx.Frame, ctx.Time)

	if ctx.Time-stats.lastLog >= perfLogInterval {
		stats.lastLog = ctx.Time
		ctx.Logger.Debug("performance",
			"fps", stats.FPS(),
			"avg_ms", stats.Average()*1000,
			"max_ms", stats.Max()*1000,
			"entities", w.Len(),
		)
	}
}
