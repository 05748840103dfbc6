package dmaecho

import "sync/atomic"

// fakeChannel completes only when told to.
type fakeChannel struct {
	id       uint8
	complete atomic.Bool
	starts   int
	stops    int
	lastDir  Direction
	lastBuf  *Buffer
}

func (c *fakeChannel) Start(dir Direction, buf *Buffer, _ Port) {
	c.starts++
	c.lastDir, c.lastBuf = dir, buf
	c.complete.Store(false)
}

func (c *fakeChannel) Complete() bool { return c.complete.Load() }
func (c *fakeChannel) Stop()          { c.stops++; c.complete.Store(false) }
func (c *fakeChannel) ID() uint8      { return c.id }

func (c *fakeChannel) finish() { c.complete.Store(true) }

type fakeHalf struct{}

func (fakeHalf) TxPort() Port { return Port{Addr: 0x1000, DREQ: 1} }
func (fakeHalf) RxPort() Port { return Port{Addr: 0x1000, DREQ: 2} }

// spawnRecorder accepts up to limit payloads.
type spawnRecorder struct {
	limit int
	got   []Payload
}

func (s *spawnRecorder) Spawn(p Payload) bool {
	if len(s.got) >= s.limit {
		return false
	}
	s.got = append(s.got, p)
	return true
}

func frame(start byte) Payload {
	var p Payload
	for i := range p {
		p[i] = start + byte(i)
	}
	return p
}
