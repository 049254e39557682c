package ecs

import "log/slog"

// Context is the shared state threaded through every system call. It replaces
// process-wide registries: each scheduler owns one, so independent worlds can
// run side by side.
type Context struct {
	Assets    AssetLookup
	Resources *Resources
	Commands  *Commands
	Logger    *slog.Logger

	// Time is the scheduler's accumulated simulation time in seconds.
	Time float64
	// Frame is the scheduler's tick counter.
	Frame uint64
}

// NewContext creates a context with empty resources and command buffer.
// assets may be nil when no system resolves asset names.
func NewContext(assets AssetLookup, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		Assets:    assets,
		Resources: NewResources(),
		Commands:  newCommands(),
		Logger:    logger,
	}
}
