package service

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/jhalvorsen/chesscore-backend/internal/model"
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	pendingMatches   map[string]string // playerID -> undelivered match event
	mu               sync.RWMutex
}

func NewGameManager() *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		pendingMatches:   make(map[string]string),
	}

	// Start matchmaking processor
	go gm.processMatchmaking()

	return gm
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// A match made before this channel registered is waiting; deliver
	// it right away instead of registering.
	if event, exists := gm.pendingMatches[playerID]; exists {
		delete(gm.pendingMatches, playerID)
		ch <- event
		close(ch)
		return nil
	}

	// If there's an existing channel, remove it from the map first so
	// nothing new is written to it, then close it.
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// The creator of the channel is responsible for closing it; we only
	// stop routing events to it.
	delete(gm.matchingChannels, playerID)
}

// processMatchmaking pairs the two longest-waiting players once a
// second, creates their game and notifies each over their registered
// channel.
func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		gm.mu.Lock()
		if gm.queue.Size() >= 2 {
			player1, player2 := gm.queue.NextPair()

			gameID := uuid.New().String()
			game := model.NewGame(gameID)

			p1Color, err := game.AddPlayer(player1.ID)
			if err != nil {
				log.Printf("error adding player to game: %v", err)
				gm.mu.Unlock()
				continue
			}
			p2Color, err := game.AddPlayer(player2.ID)
			if err != nil {
				log.Printf("error adding player to game: %v", err)
				gm.mu.Unlock()
				continue
			}
			gm.games[gameID] = game

			sendEvent := func(playerID string, event model.MatchFoundEvent) {
				payload := mustJSON(event)
				if ch, ok := gm.matchingChannels[playerID]; ok {
					select {
					case ch <- payload:
						delete(gm.matchingChannels, playerID)
						close(ch)
						return
					default:
					}
				}
				// No channel yet, or it refused the write; park the event
				// so a later wait request can collect it.
				gm.pendingMatches[playerID] = payload
			}

			sendEvent(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: model.PlayerColor(p1Color)})
			sendEvent(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: model.PlayerColor(p2Color)})
		}
		gm.mu.Unlock()
	}
}

// Helper function for JSON marshaling
func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.New("game already exists")
	}

	gm.games[gameID] = model.NewGame(gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, errors.New("game not found")
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}

	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, sq model.Square) ([]model.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}

	return game.LegalMovesAt(sq), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	if !game.IsPlayerInGame(playerID) {
		return errors.New("player not in game")
	}

	return game.MakeMove(move)
}

func (gm *GameManager) SelectSquare(gameID string, playerID string, sq model.Square) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	if !game.IsPlayerInGame(playerID) {
		return errors.New("player not in game")
	}

	game.SelectSquare(sq)
	return nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}

	game.UnregisterConnection(playerID)
}
