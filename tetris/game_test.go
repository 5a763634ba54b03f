package tetris_test

import (
	"testing"
	"time"

	"github.com/xiphiasnonus/Tetris/tetris"
)

func receive(t *testing.T, game *tetris.Game) *tetris.Tetris {
	t.Helper()
	select {
	case u := <-game.GetUpdate():
		return u
	case <-time.After(1 * time.Second):
		t.Fatal("Timed out waiting for update")
		return nil
	}
}

func TestUpdateCh(t *testing.T) {
	game, ticker := tetris.NewTestGame(1, nil)
	defer game.Stop()

	go game.Start()
	first := receive(t, game)
	if first.Score != 0 || first.Level != tetris.InitialLevel || first.GameOver {
		t.Errorf("Expected a fresh session, got %+v", first)
	}

	go ticker.Tick()
	second := receive(t, game)
	if second.Piece.Kind != first.Next {
		t.Errorf("Expected the queued %v to spawn, got %v", first.Next, second.Piece.Kind)
	}
	if second.Next == tetris.KindCount {
		t.Errorf("Expected a next piece, got %v", second.Next)
	}
}

func TestAction(t *testing.T) {
	game, ticker := tetris.NewTestGame(1, nil)

	go game.Start()
	receive(t, game)

	game.Action(tetris.KeyPause)
	go ticker.Tick()
	if u := receive(t, game); !u.Options.Paused {
		t.Error("Expected the game to be paused")
	}

	game.Action(tetris.KeyGuide)
	go ticker.Tick()
	paused := receive(t, game)
	if paused.Options.Guide {
		t.Error("Expected the guide to be off")
	}
	if paused.CycleTimer != tetris.InitialCycle {
		t.Errorf("Expected the clock to stand still while paused, got %d", paused.CycleTimer)
	}

	game.Stop()
	time.Sleep(50 * time.Millisecond)

	go game.Start()
	restarted := receive(t, game)
	want := tetris.Options{Guide: false, Sound: true}
	if restarted.Options != want {
		t.Errorf("Expected toggles to survive a restart unpaused, want %+v got %+v", want, restarted.Options)
	}
	game.Stop()
}

func TestSetOptions(t *testing.T) {
	game, _ := tetris.NewTestGame(1, nil)
	defer game.Stop()
	if game.Read() != nil {
		t.Error("Expected no session before Start")
	}

	game.SetOptions(tetris.Options{Paused: true, Guide: false, Sound: false})
	go game.Start()
	u := receive(t, game)
	want := tetris.Options{}
	if u.Options != want {
		t.Errorf("Expected %+v, got %+v", want, u.Options)
	}
}

func TestStartStop(t *testing.T) {
	game, ticker := tetris.NewTestGame(1, nil)
	go func() {
		for range game.GetUpdate() {
		}
	}()
	game.Start()
	time.Sleep(50 * time.Millisecond)
	if !ticker.IsReset() {
		t.Errorf("Expected ticker to be reset")
	}
	game.Stop()
	if !ticker.IsStop() {
		t.Errorf("Expected ticker to be stopped")
	}
}

func TestStartDropsStaleKeys(t *testing.T) {
	game, ticker := tetris.NewTestGame(1, nil)
	defer game.Stop()

	go game.Start()
	receive(t, game)
	game.Stop()
	time.Sleep(50 * time.Millisecond)

	// pressed after the last frame of the first session.
	game.Action(tetris.KeyPause)
	game.Action(tetris.KeyLeft)

	go game.Start()
	receive(t, game)
	go ticker.Tick()
	u := receive(t, game)
	if u.Options.Paused {
		t.Error("Expected the new session to start unpaused")
	}
	if u.Piece.X != 3 {
		t.Errorf("Expected the piece on its spawn column, got %d", u.Piece.X)
	}
}
