package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casino-service/internal/fairness"
	"casino-service/internal/middleware"
	"casino-service/internal/models"
	"casino-service/internal/services"
	"casino-service/pkg/common"
)

type GameHandler struct {
	Settlement *services.SettlementService
}

func NewGameHandler(settlement *services.SettlementService) *GameHandler {
	return &GameHandler{Settlement: settlement}
}

// betRequest carries the fields common to every game endpoint. Partition
// defaults to the real balance.
type betRequest struct {
	Amount    int64  `json:"amount" binding:"required"`
	Partition string `json:"partition"`
}

func (r *betRequest) partition() string {
	if r.Partition == "" {
		return models.PartitionReal
	}
	return r.Partition
}

type diceRequest struct {
	betRequest
	Target    float64 `json:"target" binding:"required"`
	Direction string  `json:"direction" binding:"required"`
}

func (h *GameHandler) PlayDice(c *gin.Context) {
	var req diceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	result, err := h.Settlement.PlayDice(c.GetInt(middleware.ContextAccountID), req.Amount, req.partition(),
		fairness.DiceParams{Target: req.Target, Direction: req.Direction})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Round settled"))
}

type limboRequest struct {
	betRequest
	Target float64 `json:"target" binding:"required"`
}

func (h *GameHandler) PlayLimbo(c *gin.Context) {
	var req limboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	result, err := h.Settlement.PlayLimbo(c.GetInt(middleware.ContextAccountID), req.Amount, req.partition(),
		fairness.LimboParams{Target: req.Target})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Round settled"))
}

type plinkoRequest struct {
	betRequest
	Rows int `json:"rows" binding:"required"`
}

func (h *GameHandler) PlayPlinko(c *gin.Context) {
	var req plinkoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	result, err := h.Settlement.PlayPlinko(c.GetInt(middleware.ContextAccountID), req.Amount, req.partition(),
		fairness.PlinkoParams{Rows: req.Rows})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Round settled"))
}

type rouletteRequest struct {
	betRequest
	BetType string `json:"bet_type" binding:"required"`
	Number  int    `json:"number"`
}

func (h *GameHandler) PlayRoulette(c *gin.Context) {
	var req rouletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	result, err := h.Settlement.PlayRoulette(c.GetInt(middleware.ContextAccountID), req.Amount, req.partition(),
		fairness.RouletteParams{BetType: req.BetType, Number: req.Number})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Round settled"))
}

func (h *GameHandler) PlayBlackjack(c *gin.Context) {
	var req betRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}
	result, err := h.Settlement.PlayBlackjack(c.GetInt(middleware.ContextAccountID), req.Amount, req.partition())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Round settled"))
}

// History lists the account's recent settled rounds.
func (h *GameHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rounds, err := h.Settlement.History(c.GetInt(middleware.ContextAccountID), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rounds, "History fetched"))
}
