package tetris

import (
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// NewTestGame creates a game with a fixed seed and returns it with a manual ticker.
func NewTestGame(seed int64, s Speaker) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	return NewConfigurableGame(ticker, NewRandom(seed), s), ticker
}

// NewTestTetris creates a session whose active piece of kind k sits on its
// spawn pose and whose next piece is also k.
func NewTestTetris(k Kind) *Tetris {
	t := newTetris(NewRandom(0), nil, DefaultOptions())
	t.Next = k
	t.spawn()
	t.spawnPending = false
	t.Next = k
	return t
}
