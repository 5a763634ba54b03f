package tetris

import (
	"testing"
	"time"
)

func TestGameStopsOnGameOver(t *testing.T) {
	game, ticker := NewTestGame(0, nil)

	go game.Start()
	select {
	case <-game.GetUpdate():
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for the first update")
	}

	// bury the spawn area before the first piece appears.
	game.mu.Lock()
	for y := 1; y <= 4; y++ {
		for x := range BoardWidth {
			game.tetris.Board[y][x] = cellOf(O)
		}
	}
	game.mu.Unlock()

	go ticker.Tick()
	select {
	case u := <-game.GetUpdate():
		if !u.GameOver {
			t.Error("Expected the session to be over")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for the game over update")
	}

	time.Sleep(50 * time.Millisecond)
	if !ticker.IsStop() {
		t.Error("Expected the ticker to stop after game over")
	}
}
