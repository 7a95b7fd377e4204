package audio

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
)

func TestMelodyLoopsForever(t *testing.T) {
	rate := beep.SampleRate(8000)
	notes := []Note{{440, 1}, {0, 1}}
	m := NewMelody(rate, notes, 600, 0.5)

	// Two beats at 600 bpm is 0.2s; stream ten times that.
	buf := make([][2]float64, 512)
	total := 0
	for total < rate.N(2e9) {
		n, ok := m.Stream(buf)
		if !ok || n != len(buf) {
			t.Fatalf("melody stopped after %d samples", total)
		}
		for i := 0; i < n; i++ {
			if buf[i][0] < -1 || buf[i][0] > 1 || buf[i][0] != buf[i][1] {
				t.Fatalf("sample %d = %v", total+i, buf[i])
			}
		}
		total += n
	}
	if m.Err() != nil {
		t.Errorf("Err = %v", m.Err())
	}
}

func TestMelodyRestIsSilent(t *testing.T) {
	rate := beep.SampleRate(8000)
	m := NewMelody(rate, []Note{{0, 1}}, 60, 1)
	buf := make([][2]float64, 100)
	m.Stream(buf)
	for i, s := range buf {
		if s[0] != 0 {
			t.Fatalf("rest sample %d = %v", i, s[0])
		}
	}

	empty := NewMelody(rate, nil, 60, 1)
	if n, ok := empty.Stream(buf); !ok || n != len(buf) {
		t.Errorf("empty melody should stream silence")
	}
}

func TestCoinChimeEnds(t *testing.T) {
	rate := beep.SampleRate(8000)
	c := NewCoinChime(rate, 0.5)
	want := c.Len()
	if want != rate.N(380e6) {
		t.Errorf("Len = %d, want %d", want, rate.N(380e6))
	}

	buf := make([][2]float64, 256)
	total := 0
	for {
		n, ok := c.Stream(buf)
		total += n
		if !ok {
			break
		}
		if total > want*2 {
			t.Fatal("chime never ended")
		}
	}
	if total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
}

func TestSoundManagerWithoutSpeaker(t *testing.T) {
	sm := NewSoundManager(log.NewWithOptions(io.Discard, log.Options{}))

	// Not initialised: everything is a no-op but mute state is kept.
	sm.PlayBackground()
	sm.PlayCoin()
	if !sm.ToggleMute() || !sm.Muted() {
		t.Errorf("ToggleMute should mute")
	}
	if sm.ToggleMute() || sm.Muted() {
		t.Errorf("second ToggleMute should unmute")
	}
	sm.Close()
}

func TestSilent(t *testing.T) {
	var p Player = Silent{}
	p.PlayBackground()
	p.PlayCoin()
	if !p.ToggleMute() {
		t.Errorf("silent player is always muted")
	}
	p.Close()
}
