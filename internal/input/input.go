package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Mute    bool
	Pause   bool
	Escape  bool
	Tap     int // flap presses and mouse clicks since the previous frame
	Pressed []byte
}

// Tapped reports whether at least one tap arrived this frame.
func (in Input) Tapped() bool {
	return in.Tap > 0
}

// keyState tracks the last time each toggle key was pressed.
type keyState struct {
	quit   time.Time
	mute   time.Time
	pause  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // incomplete mouse report carried into the next frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them. Every flap key press and every mouse button press counts as
// one tap, so two presses in one frame flap twice.
func ReadInput(s *Stream) Input {
	now := time.Now()
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	taps, used := parse(&s.state, buf, now)
	if used < len(buf) {
		s.pending = append([]byte(nil), buf[used:]...)
		buf = buf[:used]
	}
	in := Input{Pressed: buf, Tap: taps}

	in.Quit = now.Sub(s.state.quit) < keyHoldDuration || s.closed
	in.Mute = now.Sub(s.state.mute) < keyHoldDuration
	in.Pause = now.Sub(s.state.pause) < keyHoldDuration
	in.Escape = now.Sub(s.state.escape) < keyHoldDuration
	return in
}

// ResetKeyInput discards unread input and forgets held toggle keys, e.g.
// after a screen change so a single press is not seen twice.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
	s.pending = nil
	for {
		select {
		case _, ok := <-s.ch:
			if !ok {
				s.closed = true
				return
			}
		default:
			return
		}
	}
}

// parse walks buf, updates toggle timestamps and returns the tap count and
// how many bytes were consumed. Only a mouse report cut off at the end of buf
// is left unconsumed.
func parse(state *keyState, buf []byte, now time.Time) (taps, used int) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			if i+2 < len(buf) && buf[i+2] == '<' {
				n, press := parseMouse(buf[i+3:])
				if n < 0 {
					return taps, i
				}
				if n > 0 {
					if press {
						taps++
					}
					i += 2 + n
					continue
				}
			}
			if i+2 < len(buf) {
				switch buf[i+2] {
				case 'A': // Up arrow
					taps++
					i += 2
					continue
				case 'B', 'C', 'D':
					i += 2
					continue
				}
			}
		}

		switch b {
		case ' ', '\n', '\r', 'w', 'W', 'k', 'K':
			taps++
		case 'q', 'Q', '\x03':
			state.quit = now
		case 'm', 'M':
			state.mute = now
		case 'p', 'P':
			state.pause = now
		case '\x1b':
			state.escape = now
		}
	}
	return taps, len(buf)
}

// parseMouse reads the body of an SGR mouse report "b;x;y" terminated by M
// (press) or m (release). It returns the number of bytes consumed, 0 if seq
// is not a mouse report and -1 if seq ends before the report does. Wheel
// events are not presses.
func parseMouse(seq []byte) (n int, press bool) {
	button, field := 0, 0
	for i, c := range seq {
		switch {
		case c >= '0' && c <= '9':
			if field == 0 {
				button = button*10 + int(c-'0')
			}
		case c == ';':
			field++
		case c == 'M' || c == 'm':
			if field != 2 {
				return 0, false
			}
			return i + 1, c == 'M' && button < 64
		default:
			return 0, false
		}
	}
	return -1, false
}
