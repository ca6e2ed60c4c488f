package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-service/internal/fairness"
	"casino-service/internal/middleware"
	"casino-service/internal/services"
	"casino-service/pkg/common"
)

type FairnessHandler struct {
	Seeds *services.SeedService
}

func NewFairnessHandler(seeds *services.SeedService) *FairnessHandler {
	return &FairnessHandler{Seeds: seeds}
}

// Seed returns the active seed pair commitment: hash, client seed and the
// current nonce, never the server seed itself.
func (h *FairnessHandler) Seed(c *gin.Context) {
	seed, err := h.Seeds.Commit(c.GetInt(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(seed, "Active seed fetched"))
}

type rotateRequest struct {
	ClientSeed string `json:"client_seed" binding:"required"`
}

// Rotate retires the active seed pair, revealing its server seed, and
// activates a fresh pair with the supplied client seed.
func (h *FairnessHandler) Rotate(c *gin.Context) {
	var req rotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	revealed, next, err := h.Seeds.Rotate(c.GetInt(middleware.ContextAccountID), req.ClientSeed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"revealed": gin.H{
			"server_seed":      revealed.ServerSeed,
			"server_seed_hash": revealed.ServerSeedHash,
			"client_seed":      revealed.ClientSeed,
			"nonce":            revealed.Nonce,
		},
		"next": next,
	}, "Seed rotated"))
}

type verifyRequest struct {
	GameType   string  `json:"game_type" binding:"required"`
	ServerSeed string  `json:"server_seed" binding:"required"`
	ClientSeed string  `json:"client_seed" binding:"required"`
	Nonce      int64   `json:"nonce" binding:"required"`
	Target     float64 `json:"target"`
	Direction  string  `json:"direction"`
	Rows       int     `json:"rows"`
	BetType    string  `json:"bet_type"`
	Number     int     `json:"number"`
}

// Verify recomputes a round outcome from a revealed server seed. Public
// endpoint; anyone can audit a settled round.
func (h *FairnessHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	var (
		outcome interface{}
		err     error
	)
	switch req.GameType {
	case "dice":
		outcome, err = fairness.Dice(req.ServerSeed, req.ClientSeed, req.Nonce,
			fairness.DiceParams{Target: req.Target, Direction: req.Direction})
	case "limbo":
		outcome, err = fairness.Limbo(req.ServerSeed, req.ClientSeed, req.Nonce,
			fairness.LimboParams{Target: req.Target})
	case "plinko":
		outcome, err = fairness.Plinko(req.ServerSeed, req.ClientSeed, req.Nonce,
			fairness.PlinkoParams{Rows: req.Rows})
	case "roulette":
		outcome, err = fairness.Roulette(req.ServerSeed, req.ClientSeed, req.Nonce,
			fairness.RouletteParams{BetType: req.BetType, Number: req.Number})
	case "blackjack":
		outcome, err = fairness.Blackjack(req.ServerSeed, req.ClientSeed, req.Nonce)
	default:
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Unknown game type", nil, http.StatusBadRequest))
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"server_seed_hash": fairness.SeedHash(req.ServerSeed),
		"outcome":          outcome,
	}, "Outcome recomputed"))
}
