package main

type Cell int

const (
	CellInvalid Cell = -1
	CellEmpty   Cell = 0
	CellBlack   Cell = 1
	CellWhite   Cell = 2
)

const (
	minBoardSize          = 15
	maxBoardSize          = 100
	defaultBoardSize      = 15
	regionSize            = 10
	defaultNeighborRadius = 2
)

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerWhite {
		return CellWhite
	}
	return CellBlack
}

func PlayerFromCell(cell Cell) (PlayerColor, bool) {
	switch cell {
	case CellBlack:
		return PlayerBlack, true
	case CellWhite:
		return PlayerWhite, true
	}
	return PlayerNone, false
}

type PlacedStone struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Player PlayerColor `json:"player"`
}

// Board owns the grid plus the indices layered on top of it: the move
// history (for undo), the occupied-cell set, and the coarse 10x10
// active-region set that bounds candidate generation on large boards.
// It has no game-rule knowledge.
type Board struct {
	size      int
	cells     []Cell
	moveCount int
	history   []PlacedStone
	occupied  map[int]struct{}
	regions   map[uint64]struct{}
	last      PlacedStone
	hasLast   bool
}

func NewBoard(size int) Board {
	if size < minBoardSize || size > maxBoardSize {
		size = defaultBoardSize
	}
	return Board{
		size:     size,
		cells:    make([]Cell, size*size),
		occupied: make(map[int]struct{}),
		regions:  make(map[uint64]struct{}),
	}
}

func (b *Board) index(x, y int) int {
	return y*b.size + x
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

func (b *Board) At(x, y int) Cell {
	if !b.InBounds(x, y) {
		return CellInvalid
	}
	return b.cells[b.index(x, y)]
}

// setCell and clearCell bypass every index; they exist for the rules
// layer's transient threat simulation, which always restores the cell
// before returning.
func (b *Board) setCell(x, y int, cell Cell) {
	b.cells[b.index(x, y)] = cell
}

func (b *Board) clearCell(x, y int) {
	b.cells[b.index(x, y)] = CellEmpty
}

func (b *Board) MakeMove(x, y int, player PlayerColor) bool {
	if player != PlayerBlack && player != PlayerWhite {
		return false
	}
	if !b.InBounds(x, y) {
		return false
	}
	idx := b.index(x, y)
	if b.cells[idx] != CellEmpty {
		return false
	}
	b.cells[idx] = CellFromPlayer(player)
	b.moveCount++
	b.history = append(b.history, PlacedStone{X: x, Y: y, Player: player})
	b.occupied[idx] = struct{}{}
	b.activateRegionsAround(x, y)
	b.last = PlacedStone{X: x, Y: y, Player: player}
	b.hasLast = true
	return true
}

func (b *Board) UndoLastMove() bool {
	if len(b.history) == 0 {
		return false
	}
	stone := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	idx := b.index(stone.X, stone.Y)
	b.cells[idx] = CellEmpty
	b.moveCount--
	delete(b.occupied, idx)
	// A region must go inactive once no remaining stone maps it as a
	// neighbor, so rebuild from scratch instead of patching.
	b.rebuildRegions()
	if len(b.history) > 0 {
		b.last = b.history[len(b.history)-1]
		b.hasLast = true
	} else {
		b.last = PlacedStone{}
		b.hasLast = false
	}
	return true
}

func (b *Board) UndoMoves(count int) bool {
	if count <= 0 || count > len(b.history) {
		return false
	}
	for i := 0; i < count; i++ {
		if !b.UndoLastMove() {
			return false
		}
	}
	return true
}

func (b *Board) Resize(newSize int) bool {
	if newSize < minBoardSize || newSize > maxBoardSize {
		return false
	}
	// Allocate into temporaries and swap in, so a failure can never
	// leave the board half-updated.
	cells := make([]Cell, newSize*newSize)
	overlap := b.size
	if newSize < overlap {
		overlap = newSize
	}
	for y := 0; y < overlap; y++ {
		for x := 0; x < overlap; x++ {
			cells[y*newSize+x] = b.cells[b.index(x, y)]
		}
	}
	history := make([]PlacedStone, 0, len(b.history))
	for _, stone := range b.history {
		if stone.X < newSize && stone.Y < newSize {
			history = append(history, stone)
		}
	}
	b.size = newSize
	b.cells = cells
	b.history = history
	b.moveCount = len(history)
	b.occupied = make(map[int]struct{}, len(history))
	for _, stone := range history {
		b.occupied[b.index(stone.X, stone.Y)] = struct{}{}
	}
	b.rebuildRegions()
	if len(history) > 0 {
		b.last = history[len(history)-1]
		b.hasLast = true
	} else {
		b.last = PlacedStone{}
		b.hasLast = false
	}
	return true
}

func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = CellEmpty
	}
	b.moveCount = 0
	b.history = nil
	b.occupied = make(map[int]struct{})
	b.regions = make(map[uint64]struct{})
	b.last = PlacedStone{}
	b.hasLast = false
}

func (b *Board) IsEmpty() bool {
	return b.moveCount == 0
}

func (b *Board) IsFull() bool {
	return b.moveCount == b.size*b.size
}

func (b *Board) CountEmpty() int {
	return b.size*b.size - b.moveCount
}

func (b *Board) MoveCount() int {
	return b.moveCount
}

func (b *Board) History() []PlacedStone {
	return append([]PlacedStone(nil), b.history...)
}

func (b *Board) LastMove() (PlacedStone, bool) {
	return b.last, b.hasLast
}

func (b *Board) Clone() Board {
	clone := *b
	clone.cells = append([]Cell(nil), b.cells...)
	clone.history = append([]PlacedStone(nil), b.history...)
	clone.occupied = make(map[int]struct{}, len(b.occupied))
	for idx := range b.occupied {
		clone.occupied[idx] = struct{}{}
	}
	clone.regions = make(map[uint64]struct{}, len(b.regions))
	for key := range b.regions {
		clone.regions[key] = struct{}{}
	}
	return clone
}

// regionKey packs a 10x10 tile coordinate into one hashable 64-bit
// value. Purely a locality index, never gameplay state.
func regionKey(x, y int) uint64 {
	return uint64(y/regionSize)<<32 | uint64(x/regionSize)
}

func (b *Board) activateRegionsAround(x, y int) {
	regionX := x / regionSize
	regionY := y / regionSize
	maxRegion := (b.size - 1) / regionSize
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			rx := regionX + dx
			ry := regionY + dy
			if rx < 0 || ry < 0 || rx > maxRegion || ry > maxRegion {
				continue
			}
			b.regions[uint64(ry)<<32|uint64(rx)] = struct{}{}
		}
	}
}

func (b *Board) rebuildRegions() {
	b.regions = make(map[uint64]struct{})
	for idx := range b.occupied {
		b.activateRegionsAround(idx%b.size, idx/b.size)
	}
}

func (b *Board) regionActive(x, y int) bool {
	_, ok := b.regions[regionKey(x, y)]
	return ok
}

func (b *Board) ActiveRegionCount() int {
	return len(b.regions)
}

func (b *Board) HasActiveRegion(key uint64) bool {
	_, ok := b.regions[key]
	return ok
}

// NeighborCells returns the empty in-bounds cells within Chebyshev
// distance radius of (x, y), excluding the origin itself.
func (b *Board) NeighborCells(x, y, radius int) []Move {
	if radius <= 0 {
		radius = defaultNeighborRadius
	}
	var cells []Move
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := x + dx
			ny := y + dy
			if b.At(nx, ny) == CellEmpty {
				cells = append(cells, Move{X: nx, Y: ny})
			}
		}
	}
	return cells
}

func (b *Board) hasAdjacentStone(x, y, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			cell := b.At(x+dx, y+dy)
			if cell == CellBlack || cell == CellWhite {
				return true
			}
		}
	}
	return false
}

// EmptyCellsNearStones scans in row-major order (deterministic) and
// uses the active-region set to skip the quiet parts of large boards.
func (b *Board) EmptyCellsNearStones(radius int) []Move {
	if radius <= 0 {
		radius = defaultNeighborRadius
	}
	var cells []Move
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if !b.regionActive(x, y) {
				continue
			}
			if b.cells[b.index(x, y)] != CellEmpty {
				continue
			}
			if b.hasAdjacentStone(x, y, radius) {
				cells = append(cells, Move{X: x, Y: y})
			}
		}
	}
	return cells
}
