package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func streamWith(data string) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
	return s
}

func TestTapKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		taps int
	}{
		{"space", " ", 1},
		{"enter", "\r", 1},
		{"w and k", "wk", 2},
		{"up arrow", "\x1b[A", 1},
		{"other arrows", "\x1b[B\x1b[C\x1b[D", 0},
		{"mouse press", "\x1b[<0;10;5M", 1},
		{"mouse release", "\x1b[<0;10;5m", 0},
		{"press and release", "\x1b[<0;10;5M\x1b[<0;10;5m", 1},
		{"wheel", "\x1b[<64;3;3M", 0},
		{"letters", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ReadInput(streamWith(tt.in))
			if in.Tap != tt.taps {
				t.Errorf("Tap = %d, want %d", in.Tap, tt.taps)
			}
			if in.Tapped() != (tt.taps > 0) {
				t.Errorf("Tapped = %v", in.Tapped())
			}
		})
	}
}

func TestMouseReleaseIsNotMute(t *testing.T) {
	in := ReadInput(streamWith("\x1b[<0;1;1m"))
	if in.Mute {
		t.Errorf("mouse release must not toggle mute")
	}
}

func TestToggleKeys(t *testing.T) {
	in := ReadInput(streamWith("mpq"))
	if !in.Mute || !in.Pause || !in.Quit {
		t.Errorf("toggles not seen: %+v", in)
	}
	if in.Tap != 0 {
		t.Errorf("toggles are not taps")
	}
}

func TestSplitMouseReport(t *testing.T) {
	s := streamWith("\x1b[<0;12")
	in := ReadInput(s)
	if in.Tap != 0 || len(in.Pressed) != 0 {
		t.Fatalf("partial report should wait, got %+v", in)
	}
	for _, b := range []byte(";7M ") {
		s.ch <- b
	}
	in = ReadInput(s)
	if in.Tap != 2 {
		t.Errorf("Tap = %d, want 2", in.Tap)
	}
}

func TestResetKeyInput(t *testing.T) {
	s := streamWith("p")
	if !ReadInput(s).Pause {
		t.Fatal("pause not seen")
	}
	s.ch <- ' '
	ResetKeyInput(s)
	in := ReadInput(s)
	if in.Pause {
		t.Errorf("pause still held after reset")
	}
	if in.Tapped() {
		t.Errorf("unread tap survived reset")
	}
}

func TestKeyHoldExpires(t *testing.T) {
	s := streamWith("m")
	ReadInput(s)
	time.Sleep(2 * keyHoldDuration)
	if ReadInput(s).Mute {
		t.Errorf("mute should expire")
	}
}

func TestStartStreamQuitsOnEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader(" ")))
	deadline := time.Now().Add(time.Second)
	taps := 0
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		taps += in.Tap
		if in.Quit {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatalf("stream not closed after EOF")
	}
	if taps != 1 {
		t.Errorf("taps = %d, want 1", taps)
	}
}
