package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhalvorsen/chesscore-backend/internal/model"
	"github.com/jhalvorsen/chesscore-backend/internal/service"
)

// matchWaitTimeout bounds how long a matchmaking long-poll is held open.
const matchWaitTimeout = 30 * time.Second

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		if err.Error() == "game not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch game state",
		})
	}

	return c.JSON(gameState)
}

// GetLegalMoves answers the highlighting query: every destination the
// piece on the given square may move to.
func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	sq := model.Square{
		Row: c.QueryInt("row", -1),
		Col: c.QueryInt("col", -1),
	}

	moves, err := gc.gameService.GetLegalMoves(gameID, sq)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"square": sq,
		"moves":  moves,
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// WaitForMatch long-polls until the matchmaking processor pairs this
// player or the timeout passes. The response body is the match-found
// event produced by the processor.
func (gc *GameController) WaitForMatch(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	ch := make(chan string, 1)
	if err := gc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register for match events",
		})
	}
	defer gc.gameService.UnregisterMatchmakingChannel(playerID)

	select {
	case event, ok := <-ch:
		if !ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Superseded by a newer wait request",
			})
		}
		c.Set("Content-Type", "application/json")
		return c.SendString(event)
	case <-time.After(matchWaitTimeout):
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{
			"status": "no match yet",
		})
	}
}
