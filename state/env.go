// Package state keeps per-run program state reachable through context.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"osis2html/config"
)

type ctxKey int

const envKey ctxKey = iota

// LocalEnv is created once per program run and shared by all commands.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// Overwrite lets convert replace existing output files.
	Overwrite bool

	started    time.Time
	undoStdLog func()
}

// ContextWithEnv returns ctx carrying fresh environment. Logger is a no-op
// until configuration is loaded, so early code may log unconditionally.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey, &LocalEnv{Log: zap.NewNop(), started: time.Now()})
}

// EnvFromContext panics when ctx was not prepared by ContextWithEnv.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey).(*LocalEnv)
	if !ok {
		panic("state: no environment in context")
	}
	return env
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.started)
}

// CaptureStdLog sends output of the standard "log" package to zap until
// ReleaseStdLog is called.
func (e *LocalEnv) CaptureStdLog() {
	if e.Log != nil && e.undoStdLog == nil {
		e.undoStdLog = zap.RedirectStdLog(e.Log)
	}
}

// ReleaseStdLog flushes the logger and gives standard log output back.
func (e *LocalEnv) ReleaseStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if undo := e.undoStdLog; undo != nil {
		e.undoStdLog = nil
		undo()
	}
}
