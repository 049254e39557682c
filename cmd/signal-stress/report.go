package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/atimics/signal-sub000/ecs"
)

type Report struct {
	// Configuration
	Duration       time.Duration
	Entities       int
	EntityCapacity int
	ChurnRate      float64
	Systems        int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Churn          ChurnStats
	World          *ecs.WorldStats
	Scheduler      *ecs.SchedulerStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}} (capacity {{.EntityCapacity}})
- **Churn Rate:** {{printf "%.3f" .ChurnRate}} per frame
- **Systems:** {{.Systems}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Churn
- Created: {{.Churn.Created}}, Destroyed: {{.Churn.Destroyed}}
- Create failures: {{.Churn.CreateFailures}} (pool exhausted: {{.Churn.PoolExhausted}}, world full: {{.Churn.WorldFull}})
- World resets: {{.Churn.Resets}}
{{with .World}}
## World
- Live entities: {{.EntityCount}} / {{.EntityCapacity}}, next id {{.NextID}}
- Scene roots: {{.SceneRoots}}, max depth {{.MaxSceneDepth}}

| Pool | Live | Used | Leaked | Capacity | Fill |
|---|---|---|---|---|---|
{{- range .Pools}}
| {{.Kind}} | {{.Live}} | {{.Used}} | {{.Leaked}} | {{.Capacity}} | {{pct .Fill}} |
{{- end}}
{{end}}
{{- with .Scheduler}}
## Systems
Simulated {{printf "%.2f" .TotalTime}}s over {{.FrameCount}} ticks, {{.TotalExecutions}} system runs.

| System | Target Hz | Actual Hz | Runs | Avg | Min | Max |
|---|---|---|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{printf "%.0f" .Frequency}} | {{printf "%.1f" .ActualFrequency}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{- end}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"pct": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f*100)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
