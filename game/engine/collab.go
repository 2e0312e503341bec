package engine

import (
	"sync"
	"time"
)

// Renderer draws one frame of tiles
type Renderer interface {
	Render(tiles []Tile)
}

// Clock paces frames. Tick blocks until the next frame is due and returns the elapsed time.
type Clock interface {
	Tick(fps int) time.Duration
}

// NopRenderer discards frames
type NopRenderer struct{}

func (NopRenderer) Render([]Tile) {}

// NopClock never blocks
type NopClock struct{}

func (NopClock) Tick(int) time.Duration { return 0 }

// FrameClock sleeps so that successive ticks are at least 1/fps apart
type FrameClock struct {
	last  time.Time
	sleep func(time.Duration)
	now   func() time.Time
}

// NewFrameClock creates a wall-clock frame limiter
func NewFrameClock() *FrameClock {
	return &FrameClock{sleep: time.Sleep, now: time.Now}
}

// Tick waits out the remainder of the current frame
func (c *FrameClock) Tick(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	frame := time.Second / time.Duration(fps)
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last)
	if elapsed < frame {
		c.sleep(frame - elapsed)
		elapsed = frame
		now = c.last.Add(frame)
	}
	c.last = now
	return elapsed
}

// FrameRecorder keeps every rendered frame. Safe for concurrent use.
type FrameRecorder struct {
	mu     sync.Mutex
	frames [][]Tile
	next   Renderer
}

// NewFrameRecorder creates a recorder that optionally forwards to another renderer
func NewFrameRecorder(next Renderer) *FrameRecorder {
	return &FrameRecorder{next: next}
}

// Render stores a copy of the frame
func (r *FrameRecorder) Render(tiles []Tile) {
	frame := make([]Tile, len(tiles))
	copy(frame, tiles)
	r.mu.Lock()
	r.frames = append(r.frames, frame)
	r.mu.Unlock()
	if r.next != nil {
		r.next.Render(tiles)
	}
}

// Frames returns the recorded frames
func (r *FrameRecorder) Frames() [][]Tile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]Tile, len(r.frames))
	copy(out, r.frames)
	return out
}

// Drain returns the recorded frames and clears the recorder
func (r *FrameRecorder) Drain() [][]Tile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.frames
	r.frames = nil
	return out
}
