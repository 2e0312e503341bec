package sound

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/wricardo/slide2048/game/engine"
)

const (
	SampleRate = beep.SampleRate(44100)

	mergeDuration = 60 * time.Millisecond
	noteDuration  = 120 * time.Millisecond

	// base pitch of a merge into 4; each doubling of the tile climbs a semitone
	baseFrequency = 440.0
)

// PlayFunc hands a streamer to the output device
type PlayFunc func(s ...beep.Streamer)

// Chime plays a short tone for merges and a jingle on win or loss.
// It satisfies loop.Listener.
type Chime struct {
	rate   beep.SampleRate
	volume float64
	play   PlayFunc
}

// Open initialises the speaker and returns a chime playing through it
func Open(volume float64) (*Chime, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return New(SampleRate, volume, speaker.Play), nil
}

// New creates a chime with an explicit output
func New(rate beep.SampleRate, volume float64, play PlayFunc) *Chime {
	return &Chime{rate: rate, volume: volume, play: play}
}

// OnResolution picks the sound for a resolution. Moves that merge nothing are silent.
func (c *Chime) OnResolution(res *engine.Resolution) {
	if s := c.SoundFor(res); s != nil {
		c.play(s)
	}
}

// SoundFor returns the streamer OnResolution would play, or nil
func (c *Chime) SoundFor(res *engine.Resolution) beep.Streamer {
	if res == nil {
		return nil
	}
	switch res.Status {
	case engine.StatusWin:
		return c.jingle(noteDuration, 523.25, 659.25, 783.99, 1046.50)
	case engine.StatusLost:
		return c.jingle(noteDuration, 392.00, 311.13, 261.63)
	}
	if len(res.Merges) == 0 {
		return nil
	}
	top := 0
	for _, m := range res.Merges {
		if m.Value > top {
			top = m.Value
		}
	}
	return c.tone(MergeFrequency(top), mergeDuration)
}

// MergeFrequency maps a merged tile value to a pitch
func MergeFrequency(value int) float64 {
	steps := bits.Len(uint(value)) - 3
	if steps < 0 {
		steps = 0
	}
	return baseFrequency * math.Pow(2, float64(steps)/12)
}

func (c *Chime) tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(c.rate, freq)
	if err != nil {
		// frequency above Nyquist
		return nil
	}
	return c.withVolume(beep.Take(c.rate.N(d), sine))
}

func (c *Chime) jingle(d time.Duration, freqs ...float64) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		if n := c.tone(f, d); n != nil {
			notes = append(notes, n)
		}
	}
	return beep.Seq(notes...)
}

func (c *Chime) withVolume(s beep.Streamer) beep.Streamer {
	if c.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(c.volume)}
}
