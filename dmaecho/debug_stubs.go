//go:build !dmaechodebug

package dmaecho

type Stats struct{}

type counters struct{}

func (a *App) DebugReset()       {}
func (a *App) DebugStats() Stats { return Stats{} }
