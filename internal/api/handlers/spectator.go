package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oratio/internal/service"
)

// SpectatorHandler 處理觀眾反應相關的請求
type SpectatorHandler struct {
	spectatorService *service.SpectatorService
}

func NewSpectatorHandler(spectatorService *service.SpectatorService) *SpectatorHandler {
	return &SpectatorHandler{spectatorService: spectatorService}
}

// Reward 處理觀眾送出反應的請求
func (h *SpectatorHandler) Reward(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		TargetID     uint   `json:"target_id" binding:"required"`
		ReactionType string `json:"reaction_type" binding:"omitempty,oneof=applause boo insight laugh"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ReactionType == "" {
		input.ReactionType = "applause"
	}

	vote, err := h.spectatorService.Reward(roomID, currentUserID(c), input.TargetID, input.ReactionType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vote)
}

// Stats 處理獲取房間反應統計的請求
func (h *SpectatorHandler) Stats(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.spectatorService.Stats(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
