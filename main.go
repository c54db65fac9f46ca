package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

const (
	defaultListenAddr = ":8080"
	tickInterval      = 50 * time.Millisecond
	wsReadLimit       = 4096
	wsReadTimeout     = 90 * time.Second
)

type StatusResponse struct {
	Status      string `json:"status"`
	NextPlayer  int    `json:"next_player"`
	MoveCount   int    `json:"move_count"`
	BoardSize   int    `json:"board_size"`
	AiThinking  bool   `json:"ai_thinking"`
	LastMessage string `json:"last_message,omitempty"`
}

type statusPayload = StatusResponse

type apiMove struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Depth     int     `json:"depth,omitempty"`
}

type boardPayload struct {
	Board       [][]int           `json:"board"`
	NextPlayer  int               `json:"next_player"`
	Winner      int               `json:"winner"`
	MoveCount   int               `json:"move_count"`
	Status      string            `json:"status"`
	AiThinking  bool              `json:"ai_thinking"`
	WinningLine []Move            `json:"winning_line,omitempty"`
	History     []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	BoardSize   int  `json:"board_size"`
	BlackStarts bool `json:"black_starts"`
}

type settingsPayload struct {
	BoardSize   int    `json:"board_size"`
	BlackType   string `json:"black_type"`
	WhiteType   string `json:"white_type"`
	BlackStarts bool   `json:"black_starts"`
}

type startRequest struct {
	BoardSize   int    `json:"board_size"`
	BlackType   string `json:"black_type"`
	WhiteType   string `json:"white_type"`
	BlackStarts *bool  `json:"black_starts"`
}

type undoRequest struct {
	Count int `json:"count"`
}

type resizeRequest struct {
	Size int `json:"size"`
}

type suggestResponse struct {
	ForPlayer int              `json:"for_player"`
	Moves     []MoveEvaluation `json:"moves"`
	Stats     ThinkingStats    `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type server struct {
	controller *GameController
	hub        *Hub
	upgrader   websocket.Upgrader
}

func main() {
	addr := os.Getenv("CARO_ADDR")
	if addr == "" {
		addr = defaultListenAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &server{
		controller: NewGameController(DefaultGameSettings()),
		hub:        NewHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	done := make(chan struct{})
	go srv.hub.Run(done)
	go srv.tickLoop(done)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Get("/status", srv.handleStatus)
		r.Get("/board", srv.handleBoard)
		r.Post("/start", srv.handleStart)
		r.Post("/move", srv.handleMove)
		r.Post("/undo", srv.handleUndo)
		r.Post("/resize", srv.handleResize)
		r.Get("/settings", srv.handleGetSettings)
		r.Post("/settings", srv.handleUpdateSettings)
		r.Get("/suggest", srv.handleSuggest)
		r.Get("/config", srv.handleGetConfig)
		r.Post("/config", srv.handleUpdateConfig)
	})
	router.Get("/ws/", srv.serveWS)

	httpServer := &http.Server{Addr: addr, Handler: router}
	go func() {
		log.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	close(done)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func (s *server) tickLoop(done <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	wasThinking := false
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			applied := s.controller.Tick()
			thinking := s.controller.AiThinking()
			if applied {
				s.hub.broadcastBoard <- s.buildBoardPayload()
			}
			if thinking != wasThinking {
				wasThinking = thinking
				s.hub.broadcastStatus <- s.buildStatus()
			}
		}
	}
}

func (s *server) buildStatus() StatusResponse {
	state := s.controller.State()
	return StatusResponse{
		Status:      state.Status.String(),
		NextPlayer:  int(state.ToMove),
		MoveCount:   state.Board.MoveCount(),
		BoardSize:   state.Board.Size(),
		AiThinking:  s.controller.AiThinking(),
		LastMessage: state.LastMessage,
	}
}

func (s *server) buildBoardPayload() boardPayload {
	state := s.controller.State()
	size := state.Board.Size()
	grid := make([][]int, size)
	for y := 0; y < size; y++ {
		row := make([]int, size)
		for x := 0; x < size; x++ {
			row[x] = int(state.Board.At(x, y))
		}
		grid[y] = row
	}
	winner := 0
	switch state.Status {
	case StatusBlackWon:
		winner = int(PlayerBlack)
	case StatusWhiteWon:
		winner = int(PlayerWhite)
	}
	entries := s.controller.History().All()
	history := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		history = append(history, historyEntryDTO{
			X:         entry.Move.X,
			Y:         entry.Move.Y,
			Player:    int(entry.Player),
			ElapsedMs: entry.ElapsedMs,
			IsAi:      entry.IsAi,
			Depth:     entry.Depth,
		})
	}
	return boardPayload{
		Board:       grid,
		NextPlayer:  int(state.ToMove),
		Winner:      winner,
		MoveCount:   state.Board.MoveCount(),
		Status:      state.Status.String(),
		AiThinking:  s.controller.AiThinking(),
		WinningLine: state.WinningLine,
		History:     history,
	}
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.buildStatus())
}

func (s *server) handleBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.buildBoardPayload())
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body"})
		return
	}
	settings := s.controller.Settings()
	if req.BoardSize != 0 {
		settings.BoardSize = req.BoardSize
	}
	if req.BlackType != "" {
		settings.BlackType = parsePlayerType(req.BlackType)
	}
	if req.WhiteType != "" {
		settings.WhiteType = parsePlayerType(req.WhiteType)
	}
	if req.BlackStarts != nil {
		settings.BlackStarts = *req.BlackStarts
	}
	s.controller.StartGame(settings)
	state := s.controller.State()
	s.hub.broadcastReset <- resetPayload{BoardSize: state.Board.Size(), BlackStarts: settings.BlackStarts}
	s.hub.broadcastBoard <- s.buildBoardPayload()
	writeJSON(w, http.StatusOK, s.buildStatus())
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req apiMove
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body"})
		return
	}
	ok, reason := s.controller.ApplyHumanMove(Move{X: req.X, Y: req.Y})
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: reason})
		return
	}
	s.hub.broadcastBoard <- s.buildBoardPayload()
	writeJSON(w, http.StatusOK, s.buildStatus())
}

func (s *server) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req undoRequest
	// An empty body means undo one move.
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Count <= 0 {
		req.Count = 1
	}
	if !s.controller.Undo(req.Count) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "nothing to undo"})
		return
	}
	s.hub.broadcastBoard <- s.buildBoardPayload()
	writeJSON(w, http.StatusOK, s.buildStatus())
}

func (s *server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body"})
		return
	}
	if !s.controller.ResizeBoard(req.Size) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "size out of range"})
		return
	}
	s.hub.broadcastBoard <- s.buildBoardPayload()
	writeJSON(w, http.StatusOK, s.buildStatus())
}

func (s *server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.controller.Settings()
	writeJSON(w, http.StatusOK, settingsPayload{
		BoardSize:   settings.BoardSize,
		BlackType:   settings.BlackType.String(),
		WhiteType:   settings.WhiteType.String(),
		BlackStarts: settings.BlackStarts,
	})
}

func (s *server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		startRequest
		Reset bool `json:"reset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body"})
		return
	}
	settings := s.controller.Settings()
	if req.BoardSize != 0 {
		settings.BoardSize = req.BoardSize
	}
	if req.BlackType != "" {
		settings.BlackType = parsePlayerType(req.BlackType)
	}
	if req.WhiteType != "" {
		settings.WhiteType = parsePlayerType(req.WhiteType)
	}
	if req.BlackStarts != nil {
		settings.BlackStarts = *req.BlackStarts
	}
	s.controller.UpdateSettings(settings, req.Reset)
	s.hub.broadcastSettings <- settingsPayload{
		BoardSize:   settings.BoardSize,
		BlackType:   settings.BlackType.String(),
		WhiteType:   settings.WhiteType.String(),
		BlackStarts: settings.BlackStarts,
	}
	if req.Reset {
		s.hub.broadcastBoard <- s.buildBoardPayload()
	}
	writeJSON(w, http.StatusOK, s.buildStatus())
}

// handleSuggest runs a shallow analysis for the side to move and
// returns its top candidate moves with the search stats.
func (s *server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	count := 5
	if v := r.URL.Query().Get("count"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			count = parsed
		}
	}
	state := s.controller.State()
	if state.Status != StatusPlaying && state.Status != StatusNotStarted {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "game is over"})
		return
	}
	config := GetConfig()
	difficulty, _ := ParseDifficulty(config.AiDifficulty)
	style, _ := ParsePlayStyle(config.AiPlayStyle)
	engine := NewSearchEngine(state.ToMove, difficulty, style)
	if cache := SharedSearchCache(config); cache != nil {
		engine.SetCache(cache, searchConfigHash(config))
	}
	board := state.Board.Clone()
	moves := engine.GetTopMoves(&board, count)
	writeJSON(w, http.StatusOK, suggestResponse{
		ForPlayer: int(state.ToMove),
		Moves:     moves,
		Stats:     engine.LastStats(),
	})
}

func (s *server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetConfig())
}

func (s *server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	config := GetConfig()
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body"})
		return
	}
	if _, ok := ParseDifficulty(config.AiDifficulty); !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown difficulty"})
		return
	}
	if _, ok := ParsePlayStyle(config.AiPlayStyle); !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown play style"})
		return
	}
	configStore.Update(config)
	writeJSON(w, http.StatusOK, config)
}

func (s *server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}
	client := s.hub.NewClient()
	s.hub.Register(client)

	// Fresh clients get the full board immediately.
	client.sendJSON(wsMessage{Type: "board", Payload: mustMarshal(s.buildBoardPayload())})

	go func() {
		defer conn.Close()
		if err := writeWithHeartbeat(conn, client.send); err != nil {
			log.Printf("ws client %s write: %v", client.id, err)
		}
	}()

	defer s.hub.Unregister(client)
	conn.SetReadLimit(wsReadLimit)
	for {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "move":
			var move apiMove
			if err := json.Unmarshal(msg.Payload, &move); err != nil {
				continue
			}
			if s.controller.SubmitHumanMove(Move{X: move.X, Y: move.Y}) {
				// Applied on the next tick; the tick loop broadcasts.
				continue
			}
		case "ping", "pong":
		}
	}
}

func parsePlayerType(name string) PlayerType {
	if name == "ai" {
		return PlayerAI
	}
	return PlayerHuman
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
