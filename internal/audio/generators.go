package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Note is one step of a melody. A zero frequency is a rest.
type Note struct {
	Freq  float64
	Beats float64
}

// Theme is the background tune: a bouncy C major arpeggio with a turnaround.
var Theme = []Note{
	{523.25, 1}, {659.25, 1}, {783.99, 1}, {659.25, 1},
	{587.33, 1}, {698.46, 1}, {880.00, 1}, {698.46, 1},
	{523.25, 1}, {659.25, 1}, {783.99, 1}, {1046.5, 1},
	{987.77, 1}, {783.99, 1}, {587.33, 1}, {0, 1},
}

// Melody plays its notes as soft square tones, forever.
type Melody struct {
	sr      beep.SampleRate
	notes   []Note
	beat    int // Samples per beat
	volume  float64
	noteIdx int
	notePos int
	noteLen int
	phase   float64
}

// NewMelody creates a looping melody at bpm beats per minute.
func NewMelody(sr beep.SampleRate, notes []Note, bpm float64, volume float64) *Melody {
	m := &Melody{
		sr:     sr,
		notes:  notes,
		beat:   sr.N(time.Duration(float64(time.Minute) / bpm)),
		volume: volume,
	}
	if len(notes) > 0 {
		m.startNote(0)
	}
	return m
}

func (m *Melody) startNote(i int) {
	m.noteIdx = i
	m.notePos = 0
	m.noteLen = int(float64(m.beat) * m.notes[i].Beats)
	if m.noteLen < 1 {
		m.noteLen = 1
	}
}

func (m *Melody) Stream(samples [][2]float64) (n int, ok bool) {
	if len(m.notes) == 0 {
		clear(samples)
		return len(samples), true
	}

	for i := range samples {
		if m.notePos >= m.noteLen {
			m.startNote((m.noteIdx + 1) % len(m.notes))
		}
		note := m.notes[m.noteIdx]

		var val float64
		if note.Freq > 0 {
			// Square with the edges rounded off by a third harmonic
			val = math.Sin(2*math.Pi*m.phase) + math.Sin(6*math.Pi*m.phase)/3
			m.phase += note.Freq / float64(m.sr)
			m.phase -= math.Floor(m.phase)
		}

		// Short fade at both ends of every note so steps don't click
		fade := float64(m.sr.N(8 * time.Millisecond))
		env := math.Min(1, math.Min(float64(m.notePos)/fade, float64(m.noteLen-m.notePos)/fade))

		sample := val * env * m.volume
		samples[i][0] = sample
		samples[i][1] = sample
		m.notePos++
	}
	return len(samples), true
}

func (m *Melody) Err() error {
	return nil
}

// Chime is a finite sequence of decaying sine notes.
type Chime struct {
	sr     beep.SampleRate
	notes  []chimeNote
	idx    int
	pos    int
	volume float64
}

type chimeNote struct {
	freq    float64
	samples int
}

// NewCoinChime creates the two-note pickup sound (B5 then E6).
func NewCoinChime(sr beep.SampleRate, volume float64) *Chime {
	return &Chime{
		sr: sr,
		notes: []chimeNote{
			{freq: 987.77, samples: sr.N(80 * time.Millisecond)},
			{freq: 1318.51, samples: sr.N(300 * time.Millisecond)},
		},
		volume: volume,
	}
}

// Len returns the total length in samples.
func (c *Chime) Len() int {
	total := 0
	for _, n := range c.notes {
		total += n.samples
	}
	return total
}

func (c *Chime) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		for c.idx < len(c.notes) && c.pos >= c.notes[c.idx].samples {
			c.idx++
			c.pos = 0
		}
		if c.idx >= len(c.notes) {
			return i, i > 0
		}

		note := c.notes[c.idx]
		t := float64(c.pos) / float64(c.sr)
		env := math.Exp(-t * 12)
		sample := c.volume * env * math.Sin(2*math.Pi*note.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		c.pos++
	}
	return len(samples), true
}

func (c *Chime) Err() error {
	return nil
}
