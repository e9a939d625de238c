package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/jhalvorsen/chesscore-backend/internal/ws"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

// Game owns a single session: the board, the clocks and the observers.
// It is also the only place that enforces turn order; the move engine
// itself is deliberately turn-agnostic.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          *BoardState    `json:"boardState"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	SelectedSquare *Square        `json:"selectedSquare"`
	LegalMoves     []Square       `json:"legalMoves"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

// CapturedPieces lists pieces by the color that lost them.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		state:       newGameState(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(time.Duration(600) * time.Second),
		blackClock:  NewClock(time.Duration(600) * time.Second),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func newGameState() GameState {
	state := GameState{
		Sound:          "",
		Board:          NewBoard(),
		CapturedPieces: newCapturedPieces(),
		SelectedSquare: nil,
		LegalMoves:     make([]Square, 0),
		LastMove:       nil,
	}
	state.Players.White = ClientPlayer{TimeLeft: 6000}
	state.Players.Black = ClientPlayer{TimeLeft: 6000}
	return state
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Players.White.ID == "" {
		g.state.Players.White = ClientPlayer{
			ID:       playerID,
			Color:    White,
			TimeLeft: 6000,
		}
		return White, nil
	}
	if g.state.Players.Black.ID == "" {
		g.state.Players.Black = ClientPlayer{
			ID:       playerID,
			Color:    Black,
			TimeLeft: 6000,
		}
		return Black, nil
	}
	return "", errors.New("game is full")
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.state.Players.White.ID != "" && g.state.Players.White.ID == playerID {
		return true
	}
	if g.state.Players.Black.ID != "" && g.state.Players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// MakeMove validates and applies one move. The engine only answers
// "may this piece go there"; rejecting empty squares, out-of-range
// coordinates and out-of-turn moves happens here.
func (g *Game) MakeMove(move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !inBounds(move.From) || !inBounds(move.To) {
		return errors.New("invalid move, out of bounds")
	}
	piece := g.state.Board.PieceAt(move.From)
	if piece == nil {
		return errors.New("no piece at from square")
	}
	if piece.Color != g.state.Board.Turn {
		return errors.New("not your turn")
	}
	if !IsLegal(g.state.Board, piece, move.To) {
		return errors.New("invalid move, not legal")
	}

	// Stop current player's clock
	if g.state.Board.Turn == White {
		g.whiteClock.Stop()
	} else {
		g.blackClock.Stop()
	}

	g.executeMove(piece, move)

	// Start opposing players clock
	if g.state.Board.Turn == White {
		g.whiteClock.Start()
	} else {
		g.blackClock.Start()
	}

	// update client clock for both players
	g.state.Players.White.TimeLeft = int(g.whiteClock.TimeLeft().Milliseconds() / 100)
	g.state.Players.Black.TimeLeft = int(g.blackClock.TimeLeft().Milliseconds() / 100)

	return nil
}

func (g *Game) executeMove(piece *Piece, move WSMove) {
	outcome := ApplyMove(g.state.Board, piece, move.To)

	switch {
	case outcome.Promoted:
		g.state.Sound = "promotion"
	case outcome.Captured != nil:
		g.state.Sound = "capture"
	default:
		g.state.Sound = "move"
	}

	if outcome.Captured != nil {
		switch outcome.Captured.Color {
		case White:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, *outcome.Captured)
		case Black:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, *outcome.Captured)
		}
	}

	// a committed move invalidates any highlighting
	g.state.SelectedSquare = nil
	g.state.LegalMoves = make([]Square, 0)
	g.state.LastMove = &SimpleMove{From: move.From, To: move.To}

	g.switchTurn()

	go g.broadcastState()
}

// SelectSquare records which square a player is considering and the
// destinations the engine allows from it, so clients can highlight
// them. Selecting an empty square or an opposing piece clears the
// selection.
func (g *Game) SelectSquare(sq Square) {
	g.mu.Lock()
	defer g.mu.Unlock()

	piece := g.state.Board.PieceAt(sq)
	if piece == nil || piece.Color != g.state.Board.Turn {
		g.state.SelectedSquare = nil
		g.state.LegalMoves = make([]Square, 0)
	} else {
		selected := sq
		g.state.SelectedSquare = &selected
		g.state.LegalMoves = LegalDestinations(g.state.Board, piece)
	}

	go g.broadcastState()
}

// LegalMovesAt answers the highlighting query without touching the
// selection state. Empty and out-of-range squares yield no moves.
func (g *Game) LegalMovesAt(sq Square) []Square {
	g.mu.Lock()
	defer g.mu.Unlock()

	piece := g.state.Board.PieceAt(sq)
	if piece == nil {
		return []Square{}
	}
	return LegalDestinations(g.state.Board, piece)
}

func (g *Game) switchTurn() {
	g.state.Board.Turn = g.state.Board.Turn.Opponent()
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	// Send initial state to the new connection
	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	delete(g.connections.connections, playerID)
}

func (g *Game) broadcastState() error {
	g.mu.Lock()
	jsonGameState, err := json.Marshal(g.state)
	g.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(jsonGameState),
		}); err != nil {
			log.Printf("failed to send state to player %s: %v", playerID, err)
			// Drop failed connections so we stop writing to them
			delete(g.connections.connections, playerID)
			continue
		}
	}
	return nil
}
