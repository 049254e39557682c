package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/atimics/signal-sub000/ecs"
)

// PerformanceStats plots frame times and shows world occupancy and the
// scheduler's per-system timings.
type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	filled        int

	// systemHistory holds each system's last run time in ms, indexed like frameHistory.
	systemHistory [ecs.SystemTypeCount][]float32
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	ps := &PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
	for i := range ps.systemHistory {
		ps.systemHistory[i] = make([]float32, historyFrames)
	}
	return ps
}

// Record adds one frame time in seconds to the history, along with the
// last run time of every system in sched when it is non-nil.
func (ps *PerformanceStats) Record(deltaTime float32, sched *ecs.SchedulerStats) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	if sched != nil {
		for _, sys := range sched.Systems {
			ps.systemHistory[sys.Type][ps.frameIndex] = float32(sys.LastDuration.Seconds() * 1000)
		}
	}
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
	ps.filled = min(ps.filled+1, ps.historyFrames)
}

// AverageMillis returns the mean of the recorded frame times.
func (ps *PerformanceStats) AverageMillis() float32 {
	if ps.filled == 0 {
		return 0
	}
	var sum float32
	for _, ft := range ps.frameHistory[:ps.filled] {
		sum += ft
	}
	return sum / float32(ps.filled)
}

func (ps *PerformanceStats) Render(w *ecs.World, s *ecs.Scheduler, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	var sched *ecs.SchedulerStats
	if s != nil {
		sched = s.GetStats()
	}
	ps.Record(deltaTime, sched)
	stats := w.CollectStats()

	imgui.Text(fmt.Sprintf("Entities: %d / %d", stats.EntityCount, stats.EntityCapacity))
	imgui.Text(fmt.Sprintf("Next ID: %d", stats.NextID))
	imgui.Text(fmt.Sprintf("Scene roots: %d, max depth: %d", stats.SceneRoots, stats.MaxSceneDepth))

	if avg := ps.AverageMillis(); avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if sched != nil && imgui.TreeNodeStr("Systems") {
		imgui.Text(fmt.Sprintf("Sim time: %.2fs, ticks: %d, runs: %d", sched.TotalTime, sched.FrameCount, sched.TotalExecutions))

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("On")
			imgui.TableSetupColumn("Target Hz")
			imgui.TableSetupColumn("Actual Hz")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				enabled := sys.Enabled
				if imgui.Checkbox(fmt.Sprintf("##on%d", sys.Type), &enabled) {
					if enabled {
						_ = s.Enable(sys.Type)
					} else {
						_ = s.Disable(sys.Type)
					}
				}
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.0f", sys.Frequency))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.1f", sys.ActualFrequency))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.Round(time.Microsecond).String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.Round(time.Microsecond).String())
			}

			imgui.EndTable()
		}

		if implot.BeginPlotV("System Latency", imgui.NewVec2(-1, 200), 0) {
			implot.SetupAxesV("Frame", "Time (ms)", 0, implot.AxisFlagsAutoFit)
			for _, sys := range sched.Systems {
				samples := ps.ordered(ps.systemHistory[sys.Type])
				implot.PlotLineFloatPtrInt(sys.Name, &samples[0], int32(len(samples)))
			}
			implot.EndPlot()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Component Counts") {
		for kind, n := range stats.KindCounts {
			imgui.BulletText(fmt.Sprintf("%s: %d", ecs.ComponentKind(kind), n))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// ordered returns history rotated so the oldest sample comes first.
func (ps *PerformanceStats) ordered(history []float32) []float32 {
	out := make([]float32, len(history))
	n := copy(out, history[ps.frameIndex:])
	copy(out[n:], history[:ps.frameIndex])
	return out
}

// FrameTimer measures wall-clock time between calls.
type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
