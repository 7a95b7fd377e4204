package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/loop/server"
	"github.com/tomz197/flappy/internal/score"
)

type fakeServer struct {
	mu           sync.Mutex
	handle       *server.ClientHandle
	unregistered []int
	bests        []int
	snapshot     server.Snapshot
}

func (f *fakeServer) RegisterClient(username string) *server.ClientHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handle = &server.ClientHandle{
		ID:        7,
		SessionID: uuid.New(),
		Username:  username,
		EventsCh:  make(chan server.ClientEvent, 4),
	}
	return f.handle
}

func (f *fakeServer) UnregisterClient(clientID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered = append(f.unregistered, clientID)
}

func (f *fakeServer) ReportBest(_ int, best int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bests = append(f.bests, best)
}

func (f *fakeServer) GetSnapshot() *server.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snapshot
	return &snap
}

type testClient struct {
	*Client
	gs    *fakeServer
	in    *io.PipeWriter
	out   *bytes.Buffer
	store *score.MemoryStore
}

func newTestClient(t *testing.T, best int) *testClient {
	t.Helper()
	gs := &fakeServer{snapshot: server.Snapshot{
		Players:   3,
		TopScores: []server.TopScoreEntry{{Username: "ann", Score: 12}},
	}}
	store := score.NewMemoryStore()
	if best > 0 {
		if err := store.SetInt(context.Background(), config.Default().BestKey, best); err != nil {
			t.Fatal(err)
		}
	}

	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	out := &bytes.Buffer{}
	c := NewClient(gs, bufio.NewReader(pr), out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 120, 40, nil },
		Username:     "tester",
		Store:        store,
		Logger:       log.New(io.Discard),
		Seed:         1,
	})
	return &testClient{Client: c, gs: gs, in: pw, out: out, store: store}
}

// press writes keys and polls until the client has read them.
func (tc *testClient) press(t *testing.T, keys string) {
	t.Helper()
	go tc.in.Write([]byte(keys))
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		tc.processInput()
		if len(tc.state.Input.Pressed) > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("input %q never arrived", keys)
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(100, 30)
	if w != 100 || h != 30 || col != 0 || row != 0 {
		t.Errorf("small terminal changed: %d %d %d %d", w, h, col, row)
	}
	w, h, col, row = clampTermSize(config.MaxTermWidth+40, config.MaxTermHeight+10)
	if w != config.MaxTermWidth || h != config.MaxTermHeight || col != 20 || row != 5 {
		t.Errorf("large terminal = %d %d %d %d", w, h, col, row)
	}
}

func TestTapStartsGameAndReportsBest(t *testing.T) {
	tc := newTestClient(t, 9)
	if tc.state.GameState != GameStateStart {
		t.Fatalf("should start on the title screen")
	}

	tc.press(t, " ")
	tc.updateStartState(context.Background())

	if tc.state.GameState != GameStatePlaying {
		t.Fatalf("tap should start the game")
	}
	if tc.scene.Bird() == nil {
		t.Fatalf("scene not presented")
	}
	tc.gs.mu.Lock()
	defer tc.gs.mu.Unlock()
	if len(tc.gs.bests) != 1 || tc.gs.bests[0] != 9 {
		t.Errorf("reported bests = %v, want [9]", tc.gs.bests)
	}
}

func TestPlayingTapFlapsAndPauseFreezes(t *testing.T) {
	tc := newTestClient(t, 0)
	tc.startGame(context.Background())

	tc.press(t, "w")
	tc.state.delta = 0
	tc.updatePlayingState()
	if vy := tc.scene.Bird().Body.VY; vy <= 0 {
		t.Fatalf("tap should flap, VY = %v", vy)
	}

	tc.press(t, "p")
	tc.updatePlayingState()
	if !tc.state.Paused {
		t.Fatalf("p should pause")
	}

	y := tc.scene.Bird().Y
	tc.state.Input.Pause = false
	tc.state.delta = 50 * time.Millisecond
	tc.updatePlayingState()
	if tc.scene.Bird().Y != y {
		t.Errorf("paused scene moved")
	}
}

func TestLongFrameIsCapped(t *testing.T) {
	tc := newTestClient(t, 0)
	tc.startGame(context.Background())
	_, y0 := tc.scene.Bird().WorldPosition()

	tc.state.delta = 5 * time.Second
	tc.updatePlayingState()
	_, y1 := tc.scene.Bird().WorldPosition()

	// One capped step falls a fraction of a unit, not the whole frame.
	if y0-y1 > 5 {
		t.Errorf("bird fell %v in one frame", y0-y1)
	}
}

func TestDrawFrameShowsTitleAndLeaderboard(t *testing.T) {
	tc := newTestClient(t, 0)
	if err := tc.drawFrame(); err != nil {
		t.Fatal(err)
	}
	out := tc.out.String()
	for _, want := range []string{"Top Scores", "ann", "Controls"} {
		if !strings.Contains(out, want) {
			t.Errorf("title screen missing %q", want)
		}
	}
}

func TestDrawFrameShowsSceneLabels(t *testing.T) {
	tc := newTestClient(t, 4)
	tc.startGame(context.Background())
	tc.out.Reset()
	if err := tc.drawFrame(); err != nil {
		t.Fatal(err)
	}
	out := tc.out.String()
	for _, want := range []string{"Score:0", "ItemScore:0", "Best Score:4", "Players: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	if !strings.Contains(out, "\033[48;2;38;191;230m") {
		t.Errorf("sky background not rendered")
	}
}

func TestShutdownEventCountsDown(t *testing.T) {
	tc := newTestClient(t, 0)
	tc.gs.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	tc.processServerEvents()
	if tc.state.GameState != GameStateShutdown {
		t.Fatalf("state = %v, want shutdown", tc.state.GameState)
	}

	tc.state.delta = time.Duration(config.ShutdownDisplaySeconds+1) * time.Second
	tc.updateShutdownState()
	if tc.state.Running {
		t.Errorf("client should stop after the countdown")
	}
}

func TestClosedEventsStopClient(t *testing.T) {
	tc := newTestClient(t, 0)
	close(tc.gs.handle.EventsCh)
	tc.processServerEvents()
	if tc.state.Running {
		t.Errorf("closed events channel should stop the client")
	}
}

func TestRunUnregistersOnCancel(t *testing.T) {
	tc := newTestClient(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tc.Run(ctx); err != nil {
		t.Fatal(err)
	}
	tc.gs.mu.Lock()
	defer tc.gs.mu.Unlock()
	if len(tc.gs.unregistered) != 1 || tc.gs.unregistered[0] != 7 {
		t.Errorf("unregistered = %v", tc.gs.unregistered)
	}
}

func TestFormatTopScore(t *testing.T) {
	got := formatTopScore(1, server.TopScoreEntry{Username: strings.Repeat("x", 30), Score: 42})
	if !strings.HasPrefix(got, "1. "+strings.Repeat("x", config.MaxUsernameLength)+" ") {
		t.Errorf("name not truncated: %q", got)
	}
	if !strings.HasSuffix(got, "    42") {
		t.Errorf("score not right aligned: %q", got)
	}
}
