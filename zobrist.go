package main

import "sync"

// Zobrist tables are built lazily per board size from a splitmix64
// stream, so hashes are stable across runs for a given size.
type ZobristTable struct {
	size  int
	cells []uint64
	side  uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[int]*ZobristTable
}

var zobristTables = &zobristStore{tables: make(map[int]*ZobristTable)}

func GetZobrist(size int) *ZobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if table, ok := zobristTables.tables[size]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(size)}
	table := &ZobristTable{size: size, cells: make([]uint64, size*size*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	table.side = rng.next()
	zobristTables.tables[size] = table
	return table
}

func (z *ZobristTable) stone(x, y int, player PlayerColor) uint64 {
	idx := (y*z.size + x) * 2
	if player == PlayerWhite {
		idx++
	}
	return z.cells[idx]
}

func BoardHash(b *Board, toMove PlayerColor) uint64 {
	size := b.Size()
	z := GetZobrist(size)
	var hash uint64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if player, ok := PlayerFromCell(b.At(x, y)); ok {
				hash ^= z.stone(x, y, player)
			}
		}
	}
	if toMove == PlayerWhite {
		hash ^= z.side
	}
	return hash
}

// UpdateHashAfterMove folds one placement into an existing hash and
// flips the side to move. Equal to recomputing BoardHash from scratch.
func UpdateHashAfterMove(hash uint64, size int, move Move, player PlayerColor) uint64 {
	z := GetZobrist(size)
	return hash ^ z.stone(move.X, move.Y, player) ^ z.side
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
