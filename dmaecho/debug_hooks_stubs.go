//go:build !dmaechodebug

package dmaecho

func (c *counters) dbgRxComplete()   {}
func (c *counters) dbgRearm()        {}
func (c *counters) dbgEcho(bool)     {}
func (c *counters) dbgTxStart()      {}
func (c *counters) dbgTxRetire(bool) {}
func (c *counters) dbgTxStale()      {}
