package main

import "sync"

// HumanPlayer is a mailbox for moves arriving over HTTP/WS: the
// handler stores a pending move, the game loop takes it on the next
// tick. The mutex covers the handler/ticker handoff.
type HumanPlayer struct {
	mu          sync.Mutex
	pending     bool
	pendingMove Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

// ChooseMove is never consulted for humans; moves arrive through
// SetPendingMove.
func (h *HumanPlayer) ChooseMove(GameState, Rules) Move {
	return Move{X: -1, Y: -1}
}

func (h *HumanPlayer) SetPendingMove(move Move) {
	h.mu.Lock()
	h.pendingMove = move
	h.pending = true
	h.mu.Unlock()
}

func (h *HumanPlayer) HasPendingMove() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() (Move, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.pending {
		return Move{}, false
	}
	h.pending = false
	return h.pendingMove, true
}
