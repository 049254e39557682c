package ecs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SystemType indexes the scheduler's fixed system table. Table order is
// execution order within a tick.
type SystemType int

const (
	SystemControl SystemType = iota
	SystemThrusters
	SystemPhysics
	SystemCollision
	SystemAI
	SystemCamera
	SystemLOD
	SystemPerformance
	SystemMemory

	// SystemTypeCount must stay last.
	SystemTypeCount
)

var systemTypeNames = [...]string{
	SystemControl:     "control",
	SystemThrusters:   "thrusters",
	SystemPhysics:     "physics",
	SystemCollision:   "collision",
	SystemAI:          "ai",
	SystemCamera:      "camera",
	SystemLOD:         "lod",
	SystemPerformance: "performance",
	SystemMemory:      "memory",
}

var (
	_ [len(systemTypeNames) - int(SystemTypeCount)]struct{}
	_ [int(SystemTypeCount) - len(systemTypeNames)]struct{}
)

// Valid reports whether t indexes the system table.
func (t SystemType) Valid() bool {
	return t >= 0 && t < SystemTypeCount
}

func (t SystemType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("SystemType(%d)", int(t))
	}
	return systemTypeNames[t]
}

// ParseSystemType maps a system name back to its table slot.
func ParseSystemType(name string) (SystemType, bool) {
	for t, n := range systemTypeNames {
		if n == name {
			return SystemType(t), true
		}
	}
	return 0, false
}

// SystemFunc advances one subsystem. It may run zero or one time per tick
// and must not assume a fixed calling rate; dt is the tick's delta.
type SystemFunc func(w *World, ctx *Context, dt float32)

// System is one slot of the scheduler table.
type System struct {
	Name       string
	Frequency  float64 // Hz
	Enabled    bool
	LastUpdate float64
	Update     SystemFunc
}

// Interval returns the minimum simulated seconds between two runs.
func (s *System) Interval() float64 {
	if s.Frequency <= 0 {
		return 0
	}
	return 1 / s.Frequency
}

// dueEpsilon absorbs float drift from summing tick deltas.
const dueEpsilon = 1e-9

// due reports whether the slot should run at time now.
func (s *System) due(now float64) bool {
	return now-s.LastUpdate+dueEpsilon >= s.Interval()
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	TotalTime       float64
	FrameCount      uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Type            SystemType
	Name            string
	Enabled         bool
	Frequency       float64
	ExecutionCount  int64
	ActualFrequency float64
	MinDuration     time.Duration
	MaxDuration     time.Duration
	AvgDuration     time.Duration
	LastDuration    time.Duration
	TotalDuration   time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler runs a fixed table of systems, each at its own frequency.
type Scheduler struct {
	ctx         *Context
	systems     [SystemTypeCount]System
	systemStats [SystemTypeCount]systemStatsInternal
	totalTime   float64
	frameCount  uint64
	logger      *slog.Logger
}

// NewScheduler creates a scheduler with an empty table. ctx is handed to
// every system call; a nil ctx gets a fresh one.
func NewScheduler(ctx *Context) *Scheduler {
	if ctx == nil {
		ctx = NewContext(nil, nil)
	}
	if ctx.Commands == nil {
		ctx.Commands = newCommands()
	}
	if ctx.Resources == nil {
		ctx.Resources = NewResources()
	}
	if ctx.Logger == nil {
		ctx.Logger = slog.Default()
	}
	return &Scheduler{
		ctx:    ctx,
		logger: ctx.Logger.With("component", "scheduler"),
	}
}

// Register fills slot t. The slot starts enabled with no recorded run.
func (s *Scheduler) Register(t SystemType, name string, hz float64, fn SystemFunc) error {
	if !t.Valid() {
		return ErrInvalidSystem
	}
	if hz <= 0 {
		return ErrInvalidFrequency
	}
	if name == "" {
		name = t.String()
	}
	s.systems[t] = System{
		Name:       name,
		Frequency:  hz,
		Enabled:    true,
		LastUpdate: s.totalTime,
		Update:     fn,
	}
	s.systemStats[t] = systemStatsInternal{}
	return nil
}

// Tick advances simulated time by dt and runs every enabled system that is
// due. A system runs at most once per tick; missed intervals are dropped.
// Deferred commands are flushed once all systems have run.
func (s *Scheduler) Tick(w *World, dt float64) {
	s.totalTime += dt
	s.frameCount++
	s.ctx.Time = s.totalTime
	s.ctx.Frame = s.frameCount

	for i := range s.systems {
		system := &s.systems[i]
		if !system.Enabled || system.Update == nil {
			continue
		}
		if !system.due(s.totalTime) {
			continue
		}

		start := time.Now()
		system.Update(w, s.ctx, float32(dt))
		duration := time.Since(start)
		system.LastUpdate = s.totalTime

		stats := &s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if stats.executionCount == 1 || duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	if failed := s.ctx.Commands.Flush(w); failed > 0 {
		s.logger.Debug("deferred commands failed", "count", failed, "frame", s.frameCount)
	}
}

// Run ticks the scheduler with wall-clock deltas at the given interval until
// the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, w *World, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Tick(w, dt)
		}
	}
}

// Enable turns slot t on. A slot that was disabled resumes due-checking
// from the current time.
func (s *Scheduler) Enable(t SystemType) error {
	if !t.Valid() {
		return ErrInvalidSystem
	}
	system := &s.systems[t]
	if !system.Enabled {
		system.Enabled = true
		system.LastUpdate = s.totalTime
	}
	return nil
}

// Disable turns slot t off; it takes effect at the next due check.
func (s *Scheduler) Disable(t SystemType) error {
	if !t.Valid() {
		return ErrInvalidSystem
	}
	s.systems[t].Enabled = false
	return nil
}

// SetFrequency changes how often slot t may run.
func (s *Scheduler) SetFrequency(t SystemType, hz float64) error {
	if !t.Valid() {
		return ErrInvalidSystem
	}
	if hz <= 0 {
		return ErrInvalidFrequency
	}
	s.systems[t].Frequency = hz
	return nil
}

// System returns a copy of slot t.
func (s *Scheduler) System(t SystemType) (System, bool) {
	if !t.Valid() {
		return System{}, false
	}
	return s.systems[t], true
}

// Context returns the context passed to systems.
func (s *Scheduler) Context() *Context {
	return s.ctx
}

// TotalTime returns accumulated simulated seconds.
func (s *Scheduler) TotalTime() float64 {
	return s.totalTime
}

// FrameCount returns the number of ticks so far.
func (s *Scheduler) FrameCount() uint64 {
	return s.frameCount
}

// GetStats returns statistics about system execution for every registered slot.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		TotalTime:  s.totalTime,
		FrameCount: s.frameCount,
		Systems:    make([]SystemStats, 0, SystemTypeCount),
	}

	var totalExecs int64
	for i := range s.systems {
		system := &s.systems[i]
		if system.Update == nil {
			continue
		}
		internal := &s.systemStats[i]

		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}
		actual := 0.0
		if s.totalTime > 0 {
			actual = float64(internal.executionCount) / s.totalTime
		}

		stats.Systems = append(stats.Systems, SystemStats{
			Type:            SystemType(i),
			Name:            system.Name,
			Enabled:         system.Enabled,
			Frequency:       system.Frequency,
			ExecutionCount:  internal.executionCount,
			ActualFrequency: actual,
			MinDuration:     internal.minDuration,
			MaxDuration:     internal.maxDuration,
			AvgDuration:     avgDuration,
			LastDuration:    internal.lastDuration,
			TotalDuration:   internal.totalDuration,
		})
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}

// LogStats writes one line per registered system to logger.
func (s *Scheduler) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = s.logger
	}
	stats := s.GetStats()
	logger.Info("scheduler stats",
		"total_time", stats.TotalTime,
		"frames", stats.FrameCount,
		"executions", stats.TotalExecutions,
	)
	for _, sys := range stats.Systems {
		logger.Info("system stats",
			"system", sys.Name,
			"enabled", sys.Enabled,
			"target_hz", sys.Frequency,
			"actual_hz", sys.ActualFrequency,
			"calls", sys.ExecutionCount,
			"avg", sys.AvgDuration,
			"max", sys.MaxDuration,
		)
	}
}
