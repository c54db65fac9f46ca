package main

type HistoryEntry struct {
	Move      Move
	Player    PlayerColor
	ElapsedMs float64
	IsAi      bool
	Depth     int
	Score     int
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h *MoveHistory) Pop() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	entry := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return entry, true
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}
