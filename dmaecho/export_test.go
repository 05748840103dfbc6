package dmaecho

import "context"

// RunRx runs only the receive level.
func (a *App) RunRx(ctx context.Context) error { return a.high.Run(ctx) }

// RunTx runs only the echo and TX completion level.
func (a *App) RunTx(ctx context.Context) error { return a.low.Run(ctx) }
